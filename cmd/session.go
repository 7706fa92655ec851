package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/vidhi/internal/app"
	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/services"
	"github.com/desertthunder/vidhi/internal/shared"
)

// Login exchanges credentials for an API key and stores it.
//
// Missing flags are asked for interactively.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	if username == "" || password == "" {
		u, p, err := r.prompt.Credentials(username)
		if err != nil {
			return err
		}
		username, password = u, p
	}

	machine := app.NewLoginMachine(r.store, r.logger)
	if _, ok := app.Drive(ctx, machine, r.exec, app.LoginSubmitted{Username: username, Password: password}); !ok {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, machine.Error)
	}

	r.logger.Info("logged in", "username", username)
	return r.writePlain("✓ Logged in as %s\n", username)
}

// Logout forgets the stored API key.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	dashboard := app.NewDashboard(r.store, r.limit(), r.logger)
	app.Drive(ctx, dashboard, r.exec, app.LogoutRequested{})
	return r.writePlain("✓ Logged out\n")
}

// Status reports whether a key is stored and, with --check, whether the server accepts it.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	s, err := r.store.Get(ctx)
	if err != nil {
		return err
	}

	t := r.newTable()
	t.SetTitle("vidhi status")
	t.AppendRow(table.Row{"API", r.api.BaseURL()})
	t.AppendRow(table.Row{"Session backend", r.config.Session.Backend})
	t.AppendRow(table.Row{"Logged in", yesNo(s.Valid())})

	if cmd.Bool("check") && s.Valid() {
		if _, err := r.service.ListUpdates(ctx, s, models.DefaultCategory, 1); err != nil {
			verdict := "unknown"
			if services.IsAuthError(err) {
				verdict = "no"
			}
			t.AppendRow(table.Row{"Key accepted", verdict})
			t.Render()
			return r.checkAuth(ctx, err)
		}
		t.AppendRow(table.Row{"Key accepted", "yes"})
	}

	t.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
