package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/envsafe/envsafe"
	"github.com/envsafe/envsafe/internal/cliconfig"
	"github.com/envsafe/envsafe/internal/render"
)

// App encapsulates the dependencies shared by the CLI commands.
type App struct {
	cfg     cliconfig.Config
	logger  *zap.Logger
	reader  envsafe.SourceReader
	env     envsafe.Environ
	stdout  io.Writer
	colored bool
}

// Option configures the behaviour of New.
type Option func(*App)

// WithReader overrides the source reader (primarily for tests).
func WithReader(r envsafe.SourceReader) Option {
	return func(a *App) {
		a.reader = r
	}
}

// WithEnviron overrides the environment store (primarily for tests).
func WithEnviron(e envsafe.Environ) Option {
	return func(a *App) {
		a.env = e
	}
}

// WithStdout redirects command output and disables table colors.
func WithStdout(w io.Writer) Option {
	return func(a *App) {
		a.stdout = w
		a.colored = false
	}
}

// New initializes the application with the resolved CLI configuration.
func New(cfg cliconfig.Config, logger *zap.Logger, opts ...Option) *App {
	a := &App{
		cfg:     cfg,
		logger:  logger,
		reader:  envsafe.FileReader{},
		env:     envsafe.OSEnviron{},
		stdout:  os.Stdout,
		colored: isatty.IsTerminal(os.Stdout.Fd()),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) loadOptions(safe, export bool) envsafe.Options {
	opts := a.cfg.Options(safe, export)
	opts.Reader = a.reader
	opts.Env = a.env
	return opts
}

// Print loads the resolved configuration and writes it to stdout in the
// configured format.
func (a *App) Print(ctx context.Context) error {
	env, err := envsafe.LoadContext(ctx, a.loadOptions(false, false))
	if err != nil {
		return err
	}
	a.logger.Debug("configuration resolved", zap.Int("keys", len(env)))
	return render.Print(a.stdout, env, a.cfg.Format)
}

// Check validates the example file's keys against the effective
// configuration, renders a per-key status table, and returns a
// *envsafe.MissingEnvVarsError when any key is unsatisfied.
func (a *App) Check(ctx context.Context) error {
	// Validation happens here after the table is built, so the interior
	// load must not fail on missing keys itself.
	opts := a.loadOptions(false, false)
	opts.Safe = false

	merged, err := envsafe.LoadContext(ctx, opts)
	if err != nil {
		return err
	}
	example, err := a.readExample(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(example))
	for key := range example {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var missing []string
	statuses := make([]render.KeyStatus, 0, len(keys))
	for _, key := range keys {
		status := a.keyStatus(key, merged)
		if !status.OK {
			missing = append(missing, key)
		}
		statuses = append(statuses, status)
	}
	render.StatusTable(a.stdout, statuses, a.colored)

	if len(missing) > 0 {
		return &envsafe.MissingEnvVarsError{Missing: missing, Example: a.cfg.Example}
	}
	a.logger.Info("all required variables are present", zap.Int("keys", len(keys)))
	return nil
}

// keyStatus applies the environment-over-file precedence used by safe-mode
// validation to a single key.
func (a *App) keyStatus(key string, merged map[string]string) render.KeyStatus {
	source := "environment"
	value, ok := a.env.Lookup(key)
	if !ok {
		source = "file"
		value, ok = merged[key]
	}
	present := ok && (a.cfg.AllowEmptyValues || value != "")
	if !present {
		return render.KeyStatus{Key: key}
	}
	return render.KeyStatus{Key: key, Source: source, OK: true}
}

func (a *App) readExample(ctx context.Context) (map[string]string, error) {
	raw, err := a.reader.ReadSource(ctx, a.cfg.Example)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.cfg.Example, err)
	}
	example, err := envsafe.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.cfg.Example, err)
	}
	return example, nil
}

// Run loads the resolved configuration and executes a child command with it.
// Variables already present in the process environment keep their values;
// file-derived variables fill the gaps.
func (a *App) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.New("run requires a command to execute")
	}
	merged, err := envsafe.LoadContext(ctx, a.loadOptions(false, false))
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = a.stdout
	cmd.Stderr = os.Stderr
	cmd.Env = childEnv(os.Environ(), merged)

	a.logger.Debug("executing command",
		zap.String("command", argv[0]),
		zap.Int("vars", len(merged)),
	)
	return cmd.Run()
}

// childEnv appends file-derived variables to the inherited environment,
// skipping keys the process already defines.
func childEnv(inherited []string, merged map[string]string) []string {
	defined := make(map[string]struct{}, len(inherited))
	for _, kv := range inherited {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			defined[kv[:i]] = struct{}{}
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := append([]string(nil), inherited...)
	for _, key := range keys {
		if _, ok := defined[key]; !ok {
			env = append(env, key+"="+merged[key])
		}
	}
	return env
}

// Example regenerates an example file from the resolved configuration:
// every key is kept, every value is blanked.
func (a *App) Example(ctx context.Context, out string) error {
	merged, err := envsafe.LoadContext(ctx, a.loadOptions(false, false))
	if err != nil {
		return err
	}

	skeleton := make(map[string]string, len(merged))
	for key := range merged {
		skeleton[key] = ""
	}
	if out == "" {
		out = a.cfg.Example
	}
	if err := os.WriteFile(out, []byte(envsafe.Marshal(skeleton)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	a.logger.Info("example file written",
		zap.String("path", out),
		zap.Int("keys", len(skeleton)),
	)
	return nil
}
