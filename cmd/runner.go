package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trax/internal/feedback"
	"github.com/desertthunder/trax/internal/gateway"
	"github.com/desertthunder/trax/internal/session"
	"github.com/desertthunder/trax/internal/shared"
	"github.com/desertthunder/trax/internal/store"
	"github.com/desertthunder/trax/internal/workflows"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	client  *gateway.Client
	session *session.Controller
	flows   *workflows.Coordinator
	notify  *feedback.Notifier
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      store.Store
	HTTPClient *http.Client
	Notifier   *feedback.Notifier
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner wires the gateway client, session controller, and workflow
// coordinator around the provided credential store.
//
// Feedback messages are routed to the output writer, so every workflow
// outcome the web clients would toast becomes a printed line here.
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
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}

	notify := opts.Notifier
	if notify == nil {
		notify = feedback.New(time.Duration(opts.Config.Feedback.DismissMS) * time.Millisecond)
	}

	r := &Runner{
		config: opts.Config,
		notify: notify,
		logger: opts.Logger,
		output: opts.Output,
	}
	notify.SetSink(func(message string) {
		r.writePlain("%s\n", message)
	})

	r.client = gateway.New(opts.Config.Gateway.BaseURL, opts.HTTPClient, opts.Store)
	r.session = session.NewController(r.client, opts.Store, notify, opts.Logger)
	r.flows = workflows.NewCoordinator(r.client, r.session, notify, opts.Logger)

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, importCommand, libraryCommand, jobsCommand, adminCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the Runner's logger, mostly so the TUI can redirect
// log output away from the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
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
