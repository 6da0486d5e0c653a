package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"duesync/internal/duedate"
	"duesync/internal/repositories"
	"duesync/internal/services"
	"duesync/internal/settings"
	"duesync/internal/shared"
	"duesync/internal/tasks"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	db         *sql.DB
	store      *settings.Store
	canvas     services.CourseSource
	clickup    services.TaskSink
	library    *repositories.Library
	engine     *tasks.Engine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	DB         *sql.DB
	Store      *settings.Store
	Canvas     services.CourseSource
	ClickUp    services.TaskSink
	HTTPClient *http.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = settings.NewStore(opts.Config.Settings.Path)
	}

	r := &Runner{
		config:     opts.Config,
		db:         opts.DB,
		store:      opts.Store,
		canvas:     opts.Canvas,
		clickup:    opts.ClickUp,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if opts.DB != nil {
		courses := repositories.NewCourseRepository(opts.DB)
		r.library = repositories.NewLibrary(courses, opts.Store, opts.Canvas, opts.ClickUp, opts.Logger)
		r.engine = tasks.NewEngine(opts.ClickUp, r.library, policyFromConfig(opts.Config), opts.Logger)
	}

	return r
}

// SetLogger replaces the runner's logger. Used by the TUI to redirect logs
// away from the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// policyFromConfig resolves the due-date normalization policy. An unknown
// timezone falls back to UTC rather than failing startup.
func policyFromConfig(config *shared.Config) duedate.Policy {
	loc, err := time.LoadLocation(config.DueDate.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return duedate.Policy{Location: loc, WeekdayFallback: config.DueDate.WeekdayFallback}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, coursesCommand, clickupCommand, generateCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
