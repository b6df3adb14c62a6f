package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <path>",
		Short: "Compile a source file into a .bfc program",
		Args:  exactlyOnePath,
		RunE:  a.buildHandler,
	}
	cmd.Flags().StringP("output", "o", "", "output path (default is the source path with a .bfc extension)")
	cmd.Flags().String("format", "binary", "program encoding (binary, json)")
	return cmd
}

func (a *app) buildHandler(cmd *cobra.Command, args []string) error {
	path := args[0]
	program, err := a.loadProgram(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format := strings.ToLower(a.v.GetString("format")); format {
	case "binary":
		data, err = program.MarshalBinary()
	case "json":
		data, err = program.MarshalJSON()
	default:
		return &usageError{err: fmt.Errorf("unknown format: %s", format)}
	}
	if err != nil {
		return fmt.Errorf("failed to encode program: %w", err)
	}

	outPath := a.v.GetString("output")
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".bfc"
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	a.logger.Debug().
		Str("path", outPath).
		Int("bytes", len(data)).
		Str("id", program.Code().ID()).
		Msg("wrote program")
	return nil
}
