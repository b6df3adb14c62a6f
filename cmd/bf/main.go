// Command bf compiles and runs programs written in the eight-operator tape
// language.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	atexit.Exit(code)
}
