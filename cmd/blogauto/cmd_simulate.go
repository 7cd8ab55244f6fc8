package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"blogauto/internal/clock"
	"blogauto/internal/codec"
	"blogauto/internal/presence"
	"blogauto/internal/render"
	"blogauto/internal/surface"
)

const defaultScript = "Como automatizar a publicação do seu blog"

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the presence simulator in the terminal",
		Long: `Attach a presence simulator to a headless surface, type a script into it
and print every indicator and badge change.

By default time is virtual and the run finishes instantly; --realtime runs
against the wall clock.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			presenceCfg, err := cfg.Presence.Simulator()
			if err != nil {
				return err
			}

			if name, _ := cmd.Flags().GetString("name"); name != "" {
				presenceCfg.DisplayName = name
			}
			if cmd.Flags().Changed("spawn") {
				spawn, _ := cmd.Flags().GetFloat64("spawn")
				presenceCfg = presenceCfg.WithSpawnProbability(spawn)
			}

			opts := simulateOptions{}
			opts.duration, _ = cmd.Flags().GetDuration("duration")
			opts.keystroke, _ = cmd.Flags().GetDuration("keystroke")
			opts.script, _ = cmd.Flags().GetString("text")
			opts.seed, _ = cmd.Flags().GetUint64("seed")
			opts.realtime, _ = cmd.Flags().GetBool("realtime")
			opts.format, _ = cmd.Flags().GetString("format")

			if opts.keystroke <= 0 {
				return fmt.Errorf("--keystroke must be positive")
			}

			logger := newLogger(cmd, cfg, cmd.ErrOrStderr())
			return simulate(cmd.Context(), cmd.OutOrStdout(), presenceCfg, opts, logger)
		},
	}

	cmd.Flags().String("name", "", "Display name of the local author")
	cmd.Flags().Duration("duration", 30*time.Second, "How long to run")
	cmd.Flags().Duration("keystroke", 150*time.Millisecond, "Time between typed characters")
	cmd.Flags().String("text", defaultScript, "Text typed into the surface")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks a random one)")
	cmd.Flags().Float64("spawn", 0.3, "Chance per tick of a simulated collaborator joining")
	cmd.Flags().Bool("realtime", false, "Run against the wall clock")
	cmd.Flags().String("format", "", "Print the final presence snapshot as json or yaml")
	return cmd
}

type simulateOptions struct {
	duration  time.Duration
	keystroke time.Duration
	script    string
	seed      uint64
	realtime  bool
	format    string
}

func simulate(ctx context.Context, out io.Writer, cfg presence.Config, opts simulateOptions, logger *slog.Logger) error {
	var (
		clk     clock.Clock
		advance func(time.Duration) bool
	)
	if opts.realtime {
		clk = clock.New()
		advance = func(d time.Duration) bool {
			select {
			case <-time.After(d):
				return true
			case <-ctx.Done():
				return false
			}
		}
	} else {
		fake := clock.NewFake(time.Now())
		clk = fake
		advance = func(d time.Duration) bool {
			fake.Advance(d)
			return ctx.Err() == nil
		}
	}

	rnd := presence.NewRandom()
	if opts.seed != 0 {
		rnd = presence.NewSeededRandom(opts.seed)
	}

	var exporter codec.Exporter
	if opts.format != "" {
		c, err := codec.ForFormat(opts.format)
		if err != nil {
			return err
		}
		exporter = c
	}

	var contentUpdates, cursorUpdates atomic.Int64
	surf := surface.New("cli", logger)
	sim := presence.Attach(surf, cfg,
		presence.WithClock(clk),
		presence.WithRandom(rnd),
		presence.WithRenderer(render.NewLog(out, clk.Now)),
		presence.WithLogger(logger),
		presence.WithHooks(presence.Hooks{
			ContentUpdate: func(presence.ContentUpdate) { contentUpdates.Add(1) },
			CursorUpdate:  func(presence.CursorUpdate) { cursorUpdates.Add(1) },
		}),
	)
	logger.Info("simulation started", "duration", opts.duration, "realtime", opts.realtime, "seed", opts.seed)

	script := []rune(opts.script)
	typed := 0
	for elapsed := time.Duration(0); elapsed < opts.duration; elapsed += opts.keystroke {
		if typed < len(script) {
			typed++
			surf.Input(string(script[:typed]), typed)
		}
		if !advance(opts.keystroke) {
			break
		}
	}

	snap := sim.Snapshot()
	sim.Teardown()

	fmt.Fprintf(out, "\n%d characters typed, %d content updates, %d cursor updates, %d collaborators present at the end\n",
		typed, contentUpdates.Load(), cursorUpdates.Load(), len(snap.Entries)-1)

	if exporter != nil {
		return exporter.Export(&snap, out)
	}
	return nil
}
