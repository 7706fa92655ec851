package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/vidhi/internal/app"
	"github.com/desertthunder/vidhi/internal/formatter"
	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/services"
	"github.com/desertthunder/vidhi/internal/shared"
	"github.com/desertthunder/vidhi/internal/tasks"
)

// allCategories selects every category in list and export.
const allCategories = "all"

// fetch lists one category, or every category when name is "all".
func (r *Runner) fetch(ctx context.Context, s models.Session, name string, limit int) ([]models.Update, error) {
	if strings.EqualFold(strings.TrimSpace(name), allCategories) {
		result, err := r.engine.Collect(ctx, nil, s, models.Categories(), limit)
		if err != nil {
			return nil, r.checkAuth(ctx, err)
		}
		for _, f := range result.Failed() {
			r.logger.Warn("failed to list category", "category", f.Category, "error", f.Error)
		}
		return result.Updates(), nil
	}

	c, err := models.ParseCategory(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	updates, err := r.service.ListUpdates(ctx, s, c, limit)
	if err != nil {
		return nil, r.checkAuth(ctx, err)
	}
	return updates, nil
}

// UpdatesList prints the updates in one category, or all of them.
func (r *Runner) UpdatesList(ctx context.Context, cmd *cli.Command) error {
	s, err := r.session(ctx)
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.limit()
	}

	updates, err := r.fetch(ctx, s, cmd.String("category"), limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(updates, true)
	}
	if len(updates) == 0 {
		return r.writePlain("%s\n", app.EmptyText)
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"ID", "Date", "Title", "Court", "Category"})
	for _, u := range updates {
		court := u.CourtName
		if court == "" {
			court = "-"
		}
		t.AppendRow(table.Row{u.ID, u.PublishedDate.Date(), shared.Truncate(u.Title, 60), court, u.Category})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d updates", len(updates))})
	t.Render()
	return nil
}

// UpdatesDelete deletes the updates named on the command line.
func (r *Runner) UpdatesDelete(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one update ID", shared.ErrMissingArgument)
	}

	s, err := r.session(ctx)
	if err != nil {
		return err
	}

	ids := make([]models.UpdateID, len(args))
	for i, a := range args {
		ids[i] = models.UpdateID(strings.TrimSpace(a))
	}

	title := app.ConfirmDeleteText
	if len(ids) > 1 {
		title = fmt.Sprintf("Delete these %d updates?", len(ids))
	}
	if err := r.confirm(title, cmd.Bool("yes")); err != nil {
		if isAborted(err) {
			return r.writePlain("Cancelled\n")
		}
		return err
	}

	prog := make(chan tasks.ProgressUpdate, len(ids)+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range prog {
			r.logger.Debug(p.Message, "phase", p.Phase, "step", p.Step, "total", p.Total)
		}
	}()

	result, err := r.engine.BulkDelete(ctx, prog, s, ids, tasks.BulkDeleteOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	<-done

	if result != nil {
		r.reportDeletes(ctx, result)
	}
	if err != nil {
		return r.checkAuth(ctx, err)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%w: %d of %d deletes failed", shared.ErrAPIRequest, result.Failed, len(result.Results))
	}
	return nil
}

// reportDeletes records each attempted delete and prints the outcome table.
func (r *Runner) reportDeletes(ctx context.Context, result *tasks.BulkDeleteResult) {
	t := r.newTable()
	t.AppendHeader(table.Row{"ID", "Result"})
	for _, res := range result.Results {
		status := "deleted"
		switch {
		case res.Success:
		case isAborted(res.Error):
			status = "skipped"
		default:
			status = "Failed to delete: " + services.Message(res.Error)
		}
		if !isAborted(res.Error) {
			r.record(ctx, models.ActivityDelete, res.ID.String(), res.Success)
		}
		t.AppendRow(table.Row{res.ID, status})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d deleted, %d failed, %d skipped", result.Succeeded, result.Failed, result.Skipped)})
	t.Render()
}

// UpdatesClear deletes every update on the server.
func (r *Runner) UpdatesClear(ctx context.Context, cmd *cli.Command) error {
	s, err := r.session(ctx)
	if err != nil {
		return err
	}

	if err := r.confirm(app.ConfirmClearText, cmd.Bool("yes")); err != nil {
		if isAborted(err) {
			return r.writePlain("Cancelled\n")
		}
		return err
	}

	done, _ := r.exec.Run(ctx, app.ClearEffect{Session: s}).(app.ClearCompleted)
	if done.Err != nil {
		if services.IsAuthError(done.Err) {
			return r.checkAuth(ctx, done.Err)
		}
		msg := services.Message(done.Err)
		r.writePlain("✗ Failed to clear data: %s\n", msg)
		return fmt.Errorf("%w: clear failed: %s", shared.ErrAPIRequest, msg)
	}
	return r.writePlain("✓ %s\n", app.ClearSuccessMessage)
}

// Scrape asks the server to fetch new updates from its sources.
func (r *Runner) Scrape(ctx context.Context, cmd *cli.Command) error {
	s, err := r.session(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("scraping, this may take a while")
	done, _ := r.exec.Run(ctx, app.ScrapeEffect{Session: s}).(app.ScrapeCompleted)
	if done.Err != nil {
		if services.IsAuthError(done.Err) {
			return r.checkAuth(ctx, done.Err)
		}
		msg := services.Message(done.Err)
		r.writePlain("✗ Scraping failed: %s\n", msg)
		return fmt.Errorf("%w: scrape failed: %s", shared.ErrAPIRequest, msg)
	}
	return r.writePlain("✓ %s\n", app.ScrapeSuccessMessage)
}

// UpdatesExport writes updates to a file in the chosen format. An output of "-" writes to stdout.
func (r *Runner) UpdatesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	s, err := r.session(ctx)
	if err != nil {
		return err
	}

	label := strings.ToLower(strings.TrimSpace(cmd.String("category")))
	updates, err := r.fetch(ctx, s, label, r.limit())
	if err != nil {
		return err
	}

	export := formatter.NewExport(label, updates)
	output := cmd.String("output")
	if output == "-" {
		data, err := formatter.Render(export, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}
	r.logger.Info("export written", "path", path, "updates", len(updates))
	return r.writePlain("✓ Exported %d updates to %s\n", len(updates), path)
}

func (r *Runner) record(ctx context.Context, kind models.ActivityKind, detail string, success bool) {
	if r.activity == nil {
		return
	}
	if err := r.activity.Record(ctx, kind, detail, success); err != nil {
		r.logger.Warn("failed to record activity", "kind", kind, "error", err)
	}
}
