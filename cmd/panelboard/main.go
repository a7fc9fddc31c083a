package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/internal/cli"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := exitCode(os.Stderr, run(ctx))
	stop()
	os.Exit(code)
}

// exitCode reports err on w and maps it to the process status: 0 on
// success, 130 when interrupted, 1 for everything else.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case perrors.GetCode(err) != "":
		fmt.Fprintf(w, "%s: %s\n", perrors.GetCode(err), perrors.UserMessage(err))
	default:
		fmt.Fprintln(w, err)
	}
	return 1
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	// The level has to be set before the root hook puts the logger in the
	// command context.
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attach == nil {
			return nil
		}
		return attach(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
