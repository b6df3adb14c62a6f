package main

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bf"
	"github.com/deepnoodle-ai/bf/vm"
)

// BenchResult holds benchmark statistics
type BenchResult struct {
	Iterations    int     `json:"iterations"`
	Warmup        int     `json:"warmup"`
	Instructions  int     `json:"instructions"`
	Steps         int64   `json:"steps"`
	TotalNs       int64   `json:"total_ns"`
	TotalDuration string  `json:"total_duration"`
	OpsPerSec     float64 `json:"ops_per_sec"`
	MinNs         int64   `json:"min_ns"`
	MaxNs         int64   `json:"max_ns"`
	AvgNs         int64   `json:"avg_ns"`
	MedianNs      int64   `json:"median_ns"`
	P95Ns         int64   `json:"p95_ns"`
}

func (a *app) newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <path>",
		Short: "Benchmark program execution",
		Args:  exactlyOnePath,
		RunE:  a.benchHandler,
	}
	cmd.Flags().IntP("iterations", "n", 100, "number of iterations")
	cmd.Flags().IntP("warmup", "w", 10, "warmup iterations")
	cmd.Flags().StringP("output", "o", "text", "output format (json, text)")
	return cmd
}

func (a *app) benchHandler(cmd *cobra.Command, args []string) error {
	program, err := a.loadProgram(args[0])
	if err != nil {
		return err
	}
	iterations := a.v.GetInt("iterations")
	if iterations <= 0 {
		return &usageError{err: fmt.Errorf("iterations must be positive, got %d", iterations)}
	}
	warmup := a.v.GetInt("warmup")
	if warmup < 0 {
		warmup = 0
	}
	ctx := cmd.Context()

	// Verify the program runs to completion before timing it
	var steps int64
	if err := program.Run(ctx, benchOptions(&steps)...); err != nil {
		return a.failure(err)
	}
	for i := 0; i < warmup; i++ {
		if err := program.Run(ctx, benchOptions(nil)...); err != nil {
			return a.failure(err)
		}
	}
	runtime.GC()

	durations := make([]time.Duration, iterations)
	var total time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := program.Run(ctx, benchOptions(nil)...); err != nil {
			return a.failure(err)
		}
		durations[i] = time.Since(start)
		total += durations[i]
	}

	result := summarize(durations, total)
	result.Warmup = warmup
	result.Instructions = program.Code().InstructionCount()
	result.Steps = steps

	if strings.ToLower(a.v.GetString("output")) == "json" {
		return a.writeJSON(a.stdout, result)
	}
	printBenchResult(a.stdout, result)
	return nil
}

// benchOptions discards output and feeds an empty input, so reads store 0.
// When steps is non-nil it receives the executed instruction count.
func benchOptions(steps *int64) []bf.Option {
	opts := []bf.Option{
		bf.WithOutput(io.Discard),
		bf.WithInput(bytes.NewReader(nil)),
	}
	if steps != nil {
		opts = append(opts, bf.WithObserver(stepCounter(steps)))
	}
	return opts
}

func summarize(durations []time.Duration, total time.Duration) BenchResult {
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	result := BenchResult{
		Iterations:    n,
		TotalNs:       total.Nanoseconds(),
		TotalDuration: total.String(),
		MinNs:         sorted[0].Nanoseconds(),
		MaxNs:         sorted[n-1].Nanoseconds(),
		AvgNs:         total.Nanoseconds() / int64(n),
		MedianNs:      sorted[n/2].Nanoseconds(),
		P95Ns:         sorted[(n*95)/100].Nanoseconds(),
	}
	if total > 0 {
		result.OpsPerSec = float64(n) / total.Seconds()
	}
	return result
}

func printBenchResult(w io.Writer, result BenchResult) {
	label := color.New(color.FgMagenta).SprintFunc()
	value := color.New(color.FgGreen).SprintFunc()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"METRIC", "VALUE"})
	rows := []struct {
		name  string
		value string
	}{
		{"iterations", fmt.Sprintf("%d", result.Iterations)},
		{"warmup", fmt.Sprintf("%d", result.Warmup)},
		{"instructions", fmt.Sprintf("%d", result.Instructions)},
		{"steps per run", fmt.Sprintf("%d", result.Steps)},
		{"total", result.TotalDuration},
		{"runs/sec", fmt.Sprintf("%.2f", result.OpsPerSec)},
		{"min", time.Duration(result.MinNs).String()},
		{"avg", time.Duration(result.AvgNs).String()},
		{"median", time.Duration(result.MedianNs).String()},
		{"p95", time.Duration(result.P95Ns).String()},
		{"max", time.Duration(result.MaxNs).String()},
	}
	for _, row := range rows {
		tw.AppendRow(table.Row{label(row.name), value(row.value)})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func stepCounter(steps *int64) vm.Observer {
	return vm.ObserverFunc(func(vm.StepEvent) bool {
		*steps++
		return true
	})
}
