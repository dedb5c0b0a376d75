package main

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/config"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/store"
	"github.com/spf13/cobra"
)

var (
	inspectDB    string
	inspectLimit int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the persisted preference state and logs",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDB, "db", "", "database path (overrides config)")
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 10, "rows per section")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	dbPath := cfg.DBPath
	if inspectDB != "" {
		dbPath = inspectDB
	}

	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rec, ok, err := st.Load()
	if err != nil {
		return fmt.Errorf("load active: %w", err)
	}
	if !ok {
		fmt.Println("No active preference record.")
	} else {
		fmt.Println("Active preferences:")
		fmt.Printf("  version=%s origin=%s created=%s\n", rec.VersionID, rec.Origin, rec.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  level=%s scale=%.2f reduce_motion=%v haptics=%v parallax=%v\n",
			rec.PerformanceLevel, rec.AnimationScale, rec.ReduceMotion,
			rec.EnableHapticFeedback, rec.EnableParallax)
	}

	history, err := st.History(inspectLimit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	fmt.Printf("\nVersion history (%d):\n", len(history))
	for _, h := range history {
		fmt.Printf("  %s  %-12s level=%-8s scale=%.2f\n",
			h.CreatedAt.Format("15:04:05.000"), h.Origin, h.PerformanceLevel, h.AnimationScale)
	}

	degs, err := st.Degradations(inspectLimit)
	if err != nil {
		return fmt.Errorf("degradations: %w", err)
	}
	fmt.Printf("\nDegradation events (%d):\n", len(degs))
	for _, d := range degs {
		fmt.Printf("  %s  fps=%d version=%s\n", d.CreatedAt.Format("15:04:05.000"), d.FPS, d.VersionID)
	}

	decisions, err := logging.RecentDecisions(st.DB(), inspectLimit)
	if err != nil {
		return fmt.Errorf("decisions: %w", err)
	}
	fmt.Printf("\nDecisions (%d):\n", len(decisions))
	for _, d := range decisions {
		fmt.Printf("  %s  %-12s %-7s %s\n", d.CreatedAt.Format("15:04:05.000"), d.Origin, d.Action, d.Reason)
	}
	return nil
}
