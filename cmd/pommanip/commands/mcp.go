package commands

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/vorburger/pom-manipulation-ext/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() (*flag.FlagSet, *int) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	verbosity := fs.Int("verbosity", 0, "log verbosity (0=warn, 1=info, 2=debug)")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: pommanip mcp [flags]\n\n")
		Writef(output, "Serve the manipulation tools over the Model Context Protocol on stdio.\n")
		Writef(output, "Tools: parse_operations, patch, align_check.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
	}

	return fs, verbosity
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs, verbosity := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	SetupLogger(*verbosity)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx)
}
