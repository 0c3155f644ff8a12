// Command keyersim runs the keyer core against paddle patterns on a virtual
// clock and prints what the key would have sent.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cwkeyer-go/keyer"
	"cwkeyer-go/sim"
	"cwkeyer-go/types"
)

var (
	flagConfig    string
	flagMode      string
	flagWPM       uint32
	flagDebounce  uint32
	flagCharSpace bool
	flagLookahead int
	flagTimeline  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "keyersim",
		Short:        "Iambic keyer simulator",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "TOML file with [keyer] settings and optional [[event]] script")
	root.PersistentFlags().StringVar(&flagMode, "mode", "b", "keyer mode: a, b or super")
	root.PersistentFlags().Uint32Var(&flagWPM, "wpm", 20, "speed in words per minute")
	root.PersistentFlags().Uint32Var(&flagDebounce, "debounce", 10, "paddle debounce in ms")
	root.PersistentFlags().BoolVar(&flagCharSpace, "charspace", true, "enforce character spacing")
	root.PersistentFlags().IntVar(&flagLookahead, "lookahead", types.DefaultLookahead, "elements queued ahead, 0 = unlimited")

	root.AddCommand(newRunCmd())
	root.AddCommand(newPatternsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [pattern]",
		Short: "Simulate a stock pattern, or the [[event]] script from --config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSim,
	}
	cmd.Flags().BoolVar(&flagTimeline, "timeline", false, "print one line per element")
	return cmd
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List stock patterns",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, n := range sim.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
		},
	}
}

func runSim(cmd *cobra.Command, args []string) error {
	file, err := LoadFile(flagConfig)
	if err != nil {
		return err
	}
	set := resolveSettings(cmd, file)
	cfg, err := set.Config()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	var pattern sim.Pattern
	switch {
	case len(args) == 1:
		p, ok := sim.ByName(args[0], cfg.Unit)
		if !ok {
			return fmt.Errorf("unknown pattern %q (see keyersim patterns)", args[0])
		}
		pattern = p
	case len(file.Events) > 0:
		if pattern, err = file.Pattern(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("give a pattern name or a --config file with [[event]] entries")
	}

	res := sim.Run(pattern, sim.Options{Config: cfg, Lookahead: set.Lookahead})
	report(cmd.OutOrStdout(), pattern, set, cfg, res)
	return nil
}

func report(w io.Writer, p sim.Pattern, set types.KeyerSettings, cfg keyer.Config, res sim.Result) {
	fmt.Fprintf(w, "pattern:  %s\n", p.Name)
	fmt.Fprintf(w, "mode:     %s  wpm: %d  unit: %v  charspace: %v  lookahead: %d\n",
		cfg.Mode, cfg.WPM(), cfg.Unit, cfg.CharSpaceEnabled, set.Lookahead)
	fmt.Fprintf(w, "sent:     %q\n", res.Morse())
	fmt.Fprintf(w, "elements: %d enqueued, max queued %d, %d paddle edges debounced\n",
		res.Enqueued, res.MaxQueued, res.Rejected)

	if flagTimeline {
		for _, m := range res.Marks {
			fmt.Fprintf(w, "  %8v  %-10s down %v\n", m.Start.Round(time.Millisecond), m.Element, m.Down)
		}
	}

	a := res.Analyze(cfg.Unit)
	fmt.Fprintf(w, "timing:   dit err %.1f%%  dah err %.1f%%  gap err %.1f%%", a.DitError(), a.DahError(), a.GapError())
	if r := a.DahDitRatio(); r > 0 {
		fmt.Fprintf(w, "  dah:dit %.2f", r)
	}
	fmt.Fprintln(w)
}
