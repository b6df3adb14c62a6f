package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bf"
)

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Report every bracket error in a source file",
		Args:  exactlyOnePath,
		RunE:  a.checkHandler,
	}
}

func (a *app) checkHandler(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		a.printError(err.Error())
		return &exitError{code: exitNoInput, err: err}
	}
	if err := bf.Check(string(data), a.compileOptions(path)...); err != nil {
		fmt.Fprint(a.stderr, a.formatError(err))
		return &exitError{code: exitSoftware, err: err}
	}
	fmt.Fprintf(a.stdout, "%s: ok\n", path)
	return nil
}
