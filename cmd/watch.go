package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/tui"
)

func watchCmd(g *globalFlags) *cobra.Command {
	lf := &layoutFlags{}

	cmd := &cobra.Command{
		Use:   "watch <input>",
		Short: "Watch the layout settle in the terminal and drag nodes with the mouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, cmd, lf)
			if err != nil {
				return err
			}
			cfg.Render.Format = "ascii"
			opts, err := cfg.Options()
			if err != nil {
				return err
			}

			graph, sim, err := loadGraph(args[0], lf, cfg)
			if err != nil {
				return err
			}
			title := graph.Name
			if opts.Title != "" {
				title = opts.Title
			}
			return tui.Run(sim, graph, opts, title)
		},
	}

	lf.register(cmd)
	return cmd
}
