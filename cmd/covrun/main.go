// covrun launches a target process under a headless Delve debug session,
// instruments its lines with breakpoints, and reports which lines
// executed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glthr/covrun/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "covrun: %v\n", err)
		os.Exit(1)
	}
}
