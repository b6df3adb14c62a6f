package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/deepnoodle-ai/bf"
	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/vm"
)

func (a *app) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Run a source file or a compiled .bfc file",
		Args:  exactlyOnePath,
		RunE:  a.runHandler,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("print-code", false, "print the compiled instructions before running")
	flags.Bool("timing", false, "show execution time")
	flags.Bool("trace", false, "log every executed instruction at trace level")
	flags.Int64("max-steps", 0, "stop after this many instructions (0 means no limit)")
	flags.Int("check-interval", vm.DefaultContextCheckInterval, "instructions between cancellation checks")
	flags.String("cpu-profile", "", "capture CPU profile")
}

func (a *app) runHandler(cmd *cobra.Command, args []string) error {
	if profilePath := a.v.GetString("cpu-profile"); profilePath != "" {
		stopProfile, err := startCPUProfile(profilePath)
		if err != nil {
			return err
		}
		defer stopProfile()
	}

	path := args[0]
	program, err := a.loadProgram(path)
	if err != nil {
		return err
	}
	if a.v.GetBool("print-code") {
		if err := program.List(a.stdout); err != nil {
			return err
		}
	}

	opts := a.programOptions()
	start := time.Now()
	if err := program.Run(cmd.Context(), opts...); err != nil {
		return a.failure(err)
	}
	if a.v.GetBool("timing") {
		fmt.Fprintf(a.stderr, "%v\n", time.Since(start))
	}
	return nil
}

// programOptions builds the execution options from the run flags.
func (a *app) programOptions() []bf.Option {
	opts := []bf.Option{
		bf.WithOutput(a.stdout),
		bf.WithLogger(a.logger),
		bf.WithContextCheckInterval(a.v.GetInt("check-interval")),
	}
	if a.v.GetBool("input") {
		opts = append(opts, bf.WithInput(a.stdin))
	}
	if maxSteps := a.v.GetInt64("max-steps"); maxSteps > 0 {
		opts = append(opts, bf.WithStepLimit(maxSteps))
	}
	if a.v.GetBool("trace") {
		opts = append(opts, bf.WithObserver(vm.NewTraceObserver(a.logger)))
	}
	return opts
}

// loadProgram reads path and returns its program. Files with a .bfc
// extension or the compiled program header are decoded rather than compiled.
func (a *app) loadProgram(path string) (*bf.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.printError(err.Error())
		return nil, &exitError{code: exitNoInput, err: err}
	}
	if bytecode.IsBinary(data) || filepath.Ext(path) == ".bfc" {
		program, err := bf.Load(data)
		if err != nil {
			a.printError(fmt.Sprintf("%s: %v", path, err))
			return nil, &exitError{code: exitSoftware, err: err}
		}
		return program, nil
	}
	program, err := bf.Compile(string(data), a.compileOptions(path)...)
	if err != nil {
		return nil, a.failure(err)
	}
	return program, nil
}

// compileOptions builds the compile options shared by every command.
func (a *app) compileOptions(path string) []bf.Option {
	opts := []bf.Option{bf.WithFilename(path), bf.WithLogger(a.logger)}
	if a.v.GetBool("input") {
		opts = append(opts, bf.WithInputOperator())
	}
	return opts
}

// failure reports a compile or runtime error and maps it to exit code 70.
func (a *app) failure(err error) error {
	if goerrors.Is(err, context.Canceled) {
		a.printError("interrupted")
	} else if goerrors.Is(err, vm.ErrStepLimitExceeded) {
		a.printError(fmt.Sprintf("stopped after %d steps", a.v.GetInt64("max-steps")))
	} else {
		fmt.Fprint(a.stderr, a.formatError(err))
	}
	return &exitError{code: exitSoftware, err: err}
}

func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	var once sync.Once
	stop := func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			f.Close()
		})
	}
	atexit.Register(stop)
	handleSigForProfiler()
	return stop, nil
}

func handleSigForProfiler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM)
	go func() {
		<-c
		atexit.Exit(1)
	}()
}
