package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/vidhi/internal/app"
	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/repositories"
	"github.com/desertthunder/vidhi/internal/services"
	"github.com/desertthunder/vidhi/internal/session"
	"github.com/desertthunder/vidhi/internal/shared"
	"github.com/desertthunder/vidhi/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.Service
	api        *services.APIService
	store      session.Store
	activity   *repositories.ActivityRepository
	db         *sqlx.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	prompt     Prompter
	engine     *tasks.UpdatesEngine
	exec       *app.Executor
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Dependencies left nil are built from the config file by [Runner.Init].
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	API        *services.APIService
	Store      session.Store
	Activity   *repositories.ActivityRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Prompt     Prompter
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Prompt == nil {
		opts.Prompt = formPrompter{}
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		api:        opts.API,
		store:      opts.Store,
		activity:   opts.Activity,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		prompt:     opts.Prompt,
	}
	r.wire()
	return r
}

// wire derives the engine and executor from whatever service is set.
func (r *Runner) wire() {
	if r.service == nil {
		return
	}
	r.engine = tasks.NewUpdatesEngine(r.service)
	r.exec = app.NewExecutor(r.service, r.logger)
	if r.activity != nil {
		r.exec.WithRecorder(r.activity)
	}
}

// Init loads the config and opens every dependency not supplied through [RunnerOpts].
//
// It is the root command's Before hook.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config == nil {
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if err := shared.SetLogLevel(r.logger, r.config.Log.Level); err != nil {
		r.logger.Warn("ignoring log level", "error", err)
	}
	if cmd.Bool("verbose") {
		r.logger.SetLevel(log.DebugLevel)
	}

	if r.api == nil {
		r.api = services.NewAPIService(r.config.API.BaseURL, r.httpClient)
	}
	if r.service == nil {
		r.service = services.NewClientWith(r.api)
	}

	if r.store == nil && cmd.Bool("ephemeral") {
		r.store = session.NewMemoryStore()
		r.config.Session.Backend = shared.SessionBackendMemory
	}

	if r.store == nil || r.activity == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return ctx, fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
		if r.activity == nil {
			r.activity = repositories.NewActivityRepository(db)
		}
	}
	if r.store == nil {
		store, err := session.Open(r.config.Session, r.db)
		if err != nil {
			return ctx, err
		}
		r.store = store
	}

	r.wire()
	return ctx, nil
}

// Close releases the database opened by [Runner.Init].
func (r *Runner) Close(context.Context, *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) loadConfig() (*shared.Config, error) {
	config := shared.DefaultConfig()
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			loaded, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SetLogger replaces the logger used by the runner and everything it wired.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.wire()
}

func (r *Runner) limit() int {
	if r.config == nil || r.config.API.ListLimit <= 0 {
		return services.DefaultListLimit
	}
	return r.config.API.ListLimit
}

// session returns the stored session or [shared.ErrNotAuthenticated].
func (r *Runner) session(ctx context.Context) (models.Session, error) {
	s, err := r.store.Get(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if !s.Valid() {
		return models.Session{}, fmt.Errorf("%w: run 'vidhi login' first", shared.ErrNotAuthenticated)
	}
	return s, nil
}

// checkAuth clears the stored key when err shows the server rejected it.
func (r *Runner) checkAuth(ctx context.Context, err error) error {
	if err == nil || !services.IsAuthError(err) {
		return err
	}

	r.logger.Warn("API key rejected, clearing stored session")
	if cerr := r.store.Clear(ctx); cerr != nil {
		r.logger.Error("failed to clear session", "error", cerr)
	}
	if r.exec != nil {
		r.exec.Run(ctx, app.RedirectEffect{Route: app.RouteLogin, Reason: models.ActivityExpire})
	}
	return fmt.Errorf("%w: run 'vidhi login' again", err)
}

func (r *Runner) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(r.output)
	return t
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// confirm asks title unless skip is set. A declined prompt returns [shared.ErrAborted].
func (r *Runner) confirm(title string, skip bool) error {
	if skip {
		return nil
	}
	ok, err := r.prompt.Confirm(title)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrAborted
	}
	return nil
}

func isAborted(err error) bool {
	return errors.Is(err, shared.ErrAborted)
}
