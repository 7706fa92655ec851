package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/vidhi/internal/shared"
)

// Activity prints the most recent entries of the local audit trail.
func (r *Runner) Activity(ctx context.Context, cmd *cli.Command) error {
	if r.activity == nil {
		return fmt.Errorf("%w: activity log needs the database", shared.ErrServiceUnavailable)
	}

	if age := cmd.Duration("prune"); age > 0 {
		n, err := r.activity.Prune(ctx, time.Now().Add(-age))
		if err != nil {
			return err
		}
		r.logger.Info("pruned activity", "removed", n, "older_than", age)
	}

	entries, err := r.activity.List(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	if len(entries) == 0 {
		return r.writePlain("No activity recorded yet.\n")
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"#", "When", "Action", "Detail", "Result"})
	for _, e := range entries {
		result := "ok"
		if !e.Success {
			result = "failed"
		}
		t.AppendRow(table.Row{e.Sequence, e.CreatedAt.Local().Format(time.DateTime), e.Kind, shared.Truncate(e.Detail, 50), result})
	}
	t.Render()
	return nil
}
