package main

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/replay"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay a recorded fixture and verify expected actions",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	fixture, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}
	if fixture.Description != "" {
		fmt.Printf("Fixture: %s\n\n", fixture.Description)
	}

	steps := make([]replay.Step, len(fixture.Steps))
	for i := range fixture.Steps {
		steps[i] = fixture.Steps[i].ToStep()
	}

	results, final := replay.Replay(fixture.StartState.ToRecord(), steps, fixture.Config.ToConfig())

	for _, r := range results {
		fmt.Printf("[%3d] %-13s action=%-8s level=%-8s scale=%.2f  %s\n",
			r.Index, r.Kind, r.Action, r.Level, r.Scale, r.Reason)
	}

	mismatches := 0
	for _, exp := range fixture.ExpectedResults {
		if exp.Index < 0 || exp.Index >= len(results) {
			fmt.Printf("MISMATCH: expected result for step %d, but run has %d steps\n", exp.Index, len(results))
			mismatches++
			continue
		}
		got := results[exp.Index].Action
		if got != exp.Action {
			fmt.Printf("MISMATCH: step %d: expected %s, got %s\n", exp.Index, exp.Action, got)
			mismatches++
		}
	}

	summary := replay.Summarize(results, final)
	fmt.Printf("\n%d steps: %d degrades, %d commits, %d no-ops, %d paused\n",
		summary.TotalSteps, summary.Degrades, summary.Commits, summary.NoOps, summary.Paused)
	fmt.Printf("Final: level=%s scale=%.2f reduce_motion=%v\n",
		final.PerformanceLevel, final.AnimationScale, final.ReduceMotion)

	if mismatches > 0 {
		return fmt.Errorf("%d expectation mismatch(es)", mismatches)
	}
	fmt.Println("All expectations met.")
	return nil
}
