// Package cmd implements the forcegraph command line.
package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/config"
)

var version = "0.3.0"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "forcegraph",
		Short: "Force-directed graph layout",
		Long: Brand.Sprint("forcegraph") + " lays out node-link graphs with a force simulation\n" +
			Subtle.Sprint("Render to SVG or ASCII, or watch the layout settle live in the terminal"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.debug {
				log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
				log.SetOutput(cmd.ErrOrStderr())
				log.Println("Debug mode enabled")
			} else {
				log.SetFlags(log.LstdFlags)
				log.SetOutput(io.Discard)
			}
		},
	}
	root.SetVersionTemplate("forcegraph {{ .Version }}\n")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to a TOML config file")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		renderCmd(g),
		watchCmd(g),
		playCmd(g),
		configCmd(g),
	)
	return root
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		Bad.Fprintf(os.Stderr, "forcegraph: %v\n", err)
		return err
	}
	return nil
}

// loadConfig reads --config, then applies any layout flags the command was
// given explicitly.
func loadConfig(g *globalFlags, cmd *cobra.Command, lf *layoutFlags) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if lf != nil {
		lf.apply(cmd, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("config: %+v", cfg.Simulation)
	return cfg, nil
}
