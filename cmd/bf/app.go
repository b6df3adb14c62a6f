package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 64
	exitNoInput  = 66
	exitSoftware = 70
)

const usageLine = "Usage: bf [path]"

// usageError reports a command line the program cannot act on.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// exitError carries an exit code for a failure that has already been
// reported to stderr.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		v:      viper.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: zerolog.Nop(),
	}
	cmd := a.newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var usageErr *usageError
	if goerrors.As(err, &usageErr) {
		fmt.Fprintln(stderr, usageErr.Error())
		fmt.Fprintln(stderr, usageLine)
		return exitUsage
	}
	var exitErr *exitError
	if goerrors.As(err, &exitErr) {
		return exitErr.code
	}
	a.printError(err.Error())
	return exitFailure
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bf [path]",
		Short:         "Compile and run tape language programs",
		Version:       version,
		Args:          exactlyOnePath,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := a.initConfig(); err != nil {
				return err
			}
			return a.processGlobalFlags()
		},
		RunE: a.runHandler,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.bf.yaml)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("input", false, "treat ',' as the input operator and connect it to stdin")

	addRunFlags(root)
	root.AddCommand(
		a.newRunCmd(),
		a.newDisCmd(),
		a.newCheckCmd(),
		a.newBuildCmd(),
		a.newBenchCmd(),
		a.newVersionCmd(),
	)
	return root
}

func exactlyOnePath(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &usageError{err: fmt.Errorf("expected exactly one path, got %d", len(args))}
	}
	return nil
}

// initConfig reads the config file and environment. Flags set on the
// command line take precedence over both.
func (a *app) initConfig() error {
	a.v.SetEnvPrefix("bf")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	a.v.SetConfigFile(filepath.Join(home, ".bf.yaml"))
	if err := a.v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if goerrors.As(err, &pathErr) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Reads global flags from Viper and adjusts the environment accordingly.
func (a *app) processGlobalFlags() error {
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return &usageError{err: fmt.Errorf("invalid log level %q", a.v.GetString("log-level"))}
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     a.stderr,
		NoColor: !a.colorEnabled(a.stderr),
	}).Level(level).With().Timestamp().Logger()
	return nil
}
