package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/studio/internal/repositories"
	"github.com/desertthunder/studio/internal/services"
	"github.com/desertthunder/studio/internal/shared"
	"github.com/desertthunder/studio/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	templates  *repositories.TemplateRepository
	packages   *repositories.PackageRepository
	sessions   *repositories.SessionRepository
	catalog    services.Catalog
	engine     *tasks.Engine
	drive      *services.DriveService
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB // migrated database; commands that need storage fail without it
	Drive      *services.DriveService
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		drive:      opts.Drive,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.DB != nil {
		r.setDatabase(opts.DB)
	}
	return r
}

// setDatabase wires the repositories, catalog and engine on top of db.
func (r *Runner) setDatabase(db *sql.DB) {
	r.db = db
	r.templates = repositories.NewTemplateRepository(db)
	r.packages = repositories.NewPackageRepository(db)
	r.sessions = repositories.NewSessionRepository(db)
	r.catalog = services.NewCatalog(r.templates, r.packages, r.config.Catalog.CacheTTL())
	r.engine = tasks.NewEngine(tasks.EngineOpts{
		Catalog:          r.catalog,
		Sessions:         r.sessions,
		Logger:           r.logger,
		DefaultPrintSize: r.config.Studio.DefaultPrintSize,
	})
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.db != nil {
		r.setDatabase(r.db)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, templateCommand, packageCommand, sessionCommand, driveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireDB reports a helpful error for commands that need storage.
func (r *Runner) requireDB() error {
	if r.db == nil {
		return fmt.Errorf("%w: database not initialized, run 'studio setup database'", shared.ErrServiceUnavailable)
	}
	return nil
}

// requireDrive reports a helpful error for commands that need an authorized Drive client.
func (r *Runner) requireDrive() error {
	if r.drive == nil {
		return fmt.Errorf("%w: Google client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}
	if !r.drive.Authenticated() {
		return fmt.Errorf("%w: run 'studio drive auth' first", shared.ErrNotAuthenticated)
	}
	return nil
}

// saveTokens stores token in the config and persists it when a config path is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}
	if token == nil {
		return fmt.Errorf("%w: token cannot be nil", shared.ErrInvalidArgument)
	}

	r.config.Credentials.Google.SetToken(token)
	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.logger.Debug("saved google token", "path", r.configPath, "expiry", token.Expiry)
	return nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
