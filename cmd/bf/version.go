package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{err: fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.ToLower(a.v.GetString("output")) == "json" {
				return a.writeJSON(a.stdout, map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			fmt.Fprintln(a.stdout, version)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (json, text)")
	return cmd
}
