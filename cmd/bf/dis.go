package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bf/dis"
)

var outputFormatsCompletion = []string{"table", "json", "text"}

func (a *app) newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis <path>",
		Short: "Disassemble a program into its compiled instructions",
		Args:  exactlyOnePath,
		RunE:  a.disHandler,
	}
	cmd.Flags().StringP("output", "o", "table", "output format (table, json, text)")
	cmd.Flags().Bool("stats", false, "print program statistics after the listing")
	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (a *app) disHandler(cmd *cobra.Command, args []string) error {
	program, err := a.loadProgram(args[0])
	if err != nil {
		return err
	}
	stats := program.Stats()

	switch format := strings.ToLower(a.v.GetString("output")); format {
	case "", "table":
		dis.Print(program.Disassemble(), a.stdout)
	case "text":
		if err := program.List(a.stdout); err != nil {
			return err
		}
	case "json":
		listing := struct {
			Filename     string            `json:"filename,omitempty"`
			Instructions []dis.Instruction `json:"instructions"`
			Stats        any               `json:"stats,omitempty"`
		}{
			Filename:     program.Filename(),
			Instructions: program.Disassemble(),
		}
		if a.v.GetBool("stats") {
			listing.Stats = stats
		}
		return a.writeJSON(a.stdout, listing)
	default:
		return &usageError{err: fmt.Errorf("unknown output format: %s", format)}
	}

	if a.v.GetBool("stats") {
		fmt.Fprintf(a.stdout, "instructions: %d, operators: %d, loops: %d, max depth: %d, compaction: %.2fx\n",
			stats.InstructionCount, stats.OperatorCount, stats.LoopCount, stats.MaxLoopDepth, stats.CompactionRatio())
	}
	return nil
}
