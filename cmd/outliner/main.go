package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:           "outliner",
		Short:         "Extract titles and heading outlines from documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file with classifier settings")
	cmd.AddCommand(newExtractCommand(&envFile))
	cmd.AddCommand(newBatchCommand(&envFile))
	return cmd
}
