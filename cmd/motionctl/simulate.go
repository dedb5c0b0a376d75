package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/capability"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/config"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/replay"
	"github.com/spf13/cobra"
)

var (
	simMobile  bool
	simNoAccel bool
	simMemory  float64
	simCores   int
	simPhases  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a synthetic frame-rate scenario through the pipeline",
	Long: `Seed the preference state from simulated device signals, then feed a
sequence of measured fps windows through the degradation pipeline.

Phases are comma-separated FPSxCOUNT terms, e.g. "60x5,18x3,60x2":
five windows at 60 fps, three at 18 fps, two more at 60 fps.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&simMobile, "mobile", false, "simulate a mobile device")
	simulateCmd.Flags().BoolVar(&simNoAccel, "no-accel", false, "simulate missing graphics acceleration")
	simulateCmd.Flags().Float64Var(&simMemory, "memory", 8, "device memory in GiB (0 = unknown)")
	simulateCmd.Flags().IntVar(&simCores, "cores", 4, "cpu core count (0 = unknown)")
	simulateCmd.Flags().StringVar(&simPhases, "phases", "60x3,18x3", "fps phases as FPSxCOUNT terms")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	probe := capability.Probe{
		IsMobile:                     simMobile,
		SupportsGraphicsAcceleration: !simNoAccel,
		DeviceMemoryGiB:              simMemory,
		CPUCoreCount:                 simCores,
	}
	profile := capability.Estimate(probe)
	start := profile.Record()

	fmt.Printf("Seed profile: level=%s scale=%.2f parallax=%v haptics=%v\n\n",
		profile.PerformanceLevel, profile.AnimationScale,
		profile.EnableParallax, profile.EnableHapticFeedback)

	steps, err := parsePhases(simPhases)
	if err != nil {
		return err
	}

	results, final := replay.Replay(start, steps, replay.Config{
		FPS:            cfg.FPS(),
		ScaleDecrement: cfg.ScaleDecrement,
	})

	for _, r := range results {
		fmt.Printf("[%3d] fps=%3d action=%-8s level=%-8s scale=%.2f\n",
			r.Index, r.FPS, r.Action, r.Level, r.Scale)
	}

	summary := replay.Summarize(results, final)
	fmt.Printf("\n%d windows: %d degrades, %d no-ops\n",
		summary.TotalSteps, summary.Degrades, summary.NoOps)
	fmt.Printf("Final: level=%s scale=%.2f reduce_motion=%v\n",
		final.PerformanceLevel, final.AnimationScale, final.ReduceMotion)
	return nil
}

// parsePhases expands "60x5,18x3" into individual window steps.
func parsePhases(spec string) ([]replay.Step, error) {
	var steps []replay.Step
	for _, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		parts := strings.SplitN(term, "x", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed phase %q: want FPSxCOUNT", term)
		}
		fpsVal, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed phase %q: %w", term, err)
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("malformed phase %q: bad count", term)
		}
		for i := 0; i < count; i++ {
			steps = append(steps, replay.Step{Kind: replay.StepWindow, FPS: fpsVal})
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no phases in %q", spec)
	}
	return steps, nil
}
