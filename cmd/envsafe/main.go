package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/envsafe/envsafe"
	"github.com/envsafe/envsafe/internal/app"
	"github.com/envsafe/envsafe/internal/cliconfig"
	"github.com/envsafe/envsafe/internal/logging"
)

func main() {
	cli := kingpin.New("envsafe", "Loads .env configuration with defaults merging and required-key validation")
	configFile := cli.Flag("config", "Path to YAML configuration file").String()
	envFile := cli.Flag("env-file", "Primary env file").Short('f').String()
	defaultsFile := cli.Flag("defaults", "Lower-precedence defaults file (use '-' to disable)").String()
	exampleFile := cli.Flag("example", "Required-keys example file").String()
	safe := cli.Flag("safe", "Fail when example keys are missing from the effective configuration").Bool()
	allowEmpty := cli.Flag("allow-empty", "Treat empty values as present during validation").Bool()
	verbose := cli.Flag("verbose", "Enable debug logging").Short('v').Bool()

	checkCmd := cli.Command("check", "Validate the configuration against the example file")
	printCmd := cli.Command("print", "Print the resolved configuration")
	format := printCmd.Flag("format", "Output format: env, json, yaml, or toml").String()
	runCmd := cli.Command("run", "Execute a command with the resolved configuration in its environment")
	runArgs := runCmd.Arg("command", "Command and arguments to execute").Required().Strings()
	exampleCmd := cli.Command("example", "Generate an example file from the current configuration")
	exampleOut := exampleCmd.Flag("out", "Destination path (defaults to the example file)").String()

	command := kingpin.MustParse(cli.Parse(os.Args[1:]))

	cfg, err := cliconfig.Load(buildOverrides(*configFile, envFile, defaultsFile, exampleFile, safe, allowEmpty, format))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(2)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application := app.New(cfg, logger)
	ctx := context.Background()

	var cmdErr error
	switch command {
	case checkCmd.FullCommand():
		cmdErr = application.Check(ctx)
	case printCmd.FullCommand():
		cmdErr = application.Print(ctx)
	case runCmd.FullCommand():
		cmdErr = application.Run(ctx, *runArgs)
	case exampleCmd.FullCommand():
		cmdErr = application.Example(ctx, *exampleOut)
	}

	if cmdErr != nil {
		os.Exit(exitCode(logger, cmdErr))
	}
}

// buildOverrides maps parsed flags onto config overrides, leaving unset
// flags nil so lower-precedence sources apply.
func buildOverrides(configFile string, envFile, defaultsFile, exampleFile *string, safe, allowEmpty *bool, format *string) *cliconfig.CLIOverrides {
	overrides := &cliconfig.CLIOverrides{ConfigFile: configFile}

	if *envFile != "" {
		overrides.EnvFile = envFile
	}
	if *defaultsFile != "" {
		overrides.Defaults = defaultsFile
	}
	if *exampleFile != "" {
		overrides.Example = exampleFile
	}
	if *safe {
		overrides.Safe = safe
	}
	if *allowEmpty {
		overrides.AllowEmptyValues = allowEmpty
	}
	if format != nil && *format != "" {
		overrides.Format = format
	}

	return overrides
}

// exitCode logs the failure and translates it into a process exit code. A
// child process failure propagates its own code; everything else exits 1.
func exitCode(logger *zap.Logger, err error) int {
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return exit.ExitCode()
	}

	var missing *envsafe.MissingEnvVarsError
	if errors.As(err, &missing) {
		logger.Error("missing required variables",
			zap.Strings("keys", missing.Missing),
			zap.String("example", missing.Example),
		)
		return 1
	}

	logger.Error("load failed", zap.Error(err))
	return 1
}
