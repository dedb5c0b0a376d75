package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/capability"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/config"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/controller"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/diag"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/fps"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/sampler"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveMobile  bool
	serveNoAccel bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the controller with the diagnostics API",
	Long: `Run a live controller against an interval scheduler standing in for a
host render loop, and expose the diagnostics API over HTTP.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveMobile, "mobile", false, "probe as a mobile device")
	serveCmd.Flags().BoolVar(&serveNoAccel, "no-accel", false, "probe without graphics acceleration")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		// The controller runs fine as an in-memory session.
		log.Printf("store unavailable, running without persistence: %v", err)
		st = nil
	} else {
		defer st.Close()
	}

	var prefStore controller.PrefStore
	if st != nil {
		prefStore = st
	}

	ctrl, err := controller.New(controller.Options{
		Config:    cfg,
		Store:     prefStore,
		Scheduler: sampler.NewIntervalScheduler(time.Second / 60),
		Signals:   controller.NewManualSignals(),
		Probe: capability.Probe{
			IsMobile:                     serveMobile,
			SupportsGraphicsAcceleration: !serveNoAccel,
		},
	})
	if err != nil {
		return fmt.Errorf("build controller: %w", err)
	}
	ctrl.OnDegradation(func(ev fps.DegradationEvent) {
		log.Printf("degradation: fps=%d", ev.FPS)
	})

	ctrl.Start()
	defer ctrl.Close()

	rec := ctrl.Prefs().Get()
	log.Printf("controller ready: level=%s scale=%.2f origin=%s", rec.PerformanceLevel, rec.AnimationScale, rec.Origin)
	log.Printf("diagnostics API listening on %s", addr)
	return http.ListenAndServe(addr, diag.NewRouter(ctrl, st))
}
