package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/render"
)

const clearScreen = "\x1b[H\x1b[2J"

func playCmd(g *globalFlags) *cobra.Command {
	lf := &layoutFlags{}
	var (
		interval time.Duration
		every    int
		noClear  bool
	)

	cmd := &cobra.Command{
		Use:   "play <input>",
		Short: "Print ASCII frames of the layout as it settles",
		Long: "play drives the layout from a timer and prints an ASCII frame every few ticks,\n" +
			"stopping once the layout comes to rest.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if every <= 0 {
				return errors.New("--every must be positive")
			}
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
			if opts.Title == "" {
				opts.Title = graph.Name
			}

			out := cmd.OutOrStdout()
			sched := physics.NewScheduler(sim, interval)
			if g.debug {
				sched.SetLogger(log.New(cmd.ErrOrStderr(), "scheduler: ", log.LstdFlags|log.Lmicroseconds))
			}

			var renderErr error
			cancel := sim.OnTick(func(snap physics.Snapshot) {
				if snap.Tick%every != 0 && snap.State == physics.Running {
					return
				}
				if err := printFrame(out, snap, opts, !noClear); err != nil {
					renderErr = err
					sched.Stop()
					return
				}
				if snap.State == physics.Idle {
					sched.Stop()
				}
			})
			defer cancel()

			sched.Start(cmd.Context())
			if err := sched.Wait(); err != nil {
				return err
			}
			if renderErr != nil {
				return renderErr
			}

			snap := sim.Snapshot()
			Good.Fprintf(cmd.ErrOrStderr(), "%s ", check)
			fmt.Fprintf(cmd.ErrOrStderr(), "settled %s\n",
				Subtle.Sprintf("(%d ticks, alpha %.4f)", snap.Tick, snap.Alpha))
			return nil
		},
	}

	lf.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", 33*time.Millisecond, "Time between ticks")
	cmd.Flags().IntVar(&every, "every", 10, "Print a frame every N ticks")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Append frames instead of redrawing in place")
	return cmd
}

func printFrame(w io.Writer, snap physics.Snapshot, opts *render.Options, redraw bool) error {
	data, err := (&render.ASCIIRenderer{}).Render(snap, opts)
	if err != nil {
		return err
	}
	if redraw {
		if _, err := io.WriteString(w, clearScreen); err != nil {
			return err
		}
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "tick %d  alpha %.4f\n", snap.Tick, snap.Alpha)
	return err
}
