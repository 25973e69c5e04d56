package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/render"
)

func renderCmd(g *globalFlags) *cobra.Command {
	lf := &layoutFlags{}
	var (
		output   string
		format   string
		maxTicks int
	)

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Run the layout to rest and write it as SVG or ASCII",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, cmd, lf)
			if err != nil {
				return err
			}
			switch {
			case cmd.Flags().Changed("format"):
				cfg.Render.Format = format
			case output != "" && output != "-" && ingest.FormatOf(output) == "txt":
				cfg.Render.Format = "ascii"
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			if _, err := render.GetRenderer(opts.Format); err != nil {
				return err
			}

			graph, sim, err := loadGraph(args[0], lf, cfg)
			if err != nil {
				return err
			}
			if opts.Title == "" {
				opts.Title = graph.Name
			}

			start := time.Now()
			ticks, err := sim.Run(cmd.Context(), maxTicks)
			if err != nil {
				return fmt.Errorf("layout stopped after %d ticks: %w", ticks, err)
			}
			log.Printf("layout finished: %d ticks in %v, state %s", ticks, time.Since(start), sim.State())
			if sim.State() == physics.Running {
				Warn.Fprintf(cmd.ErrOrStderr(), "layout still moving after %d ticks (alpha %.4f), raise --max-ticks to let it settle\n",
					ticks, sim.Alpha())
			}

			data, err := render.Generate(sim.Snapshot(), opts)
			if err != nil {
				return fmt.Errorf("error rendering output: %w", err)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = "output.svg"
				if opts.Format != "svg" {
					output = "output.txt"
				}
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("error writing output file: %w", err)
			}

			Good.Fprintf(cmd.ErrOrStderr(), "%s ", check)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", output,
				Subtle.Sprintf("(%d nodes, %d links, %d ticks)", len(graph.Nodes), len(graph.Links), ticks))
			return nil
		},
	}

	lf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file; "-" writes to stdout (default: output.svg or output.txt)`)
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format: svg, ascii")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 1000, "Stop after this many ticks even if the layout is still moving (0 means no limit)")
	return cmd
}
