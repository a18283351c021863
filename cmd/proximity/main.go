// Command proximity replays a scripted area through the alert engine on a terminal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"go.uber.org/zap"

	"github.com/DaxxTrias/ProximityAlert/config"
	"github.com/DaxxTrias/ProximityAlert/engine"
	"github.com/DaxxTrias/ProximityAlert/rule"
)

var (
	configFlag   = flag.String("config", "", "Settings file (yaml or toml)")
	scenarioFlag = flag.String("scenario", "scenarios/demo.yaml", "Scenario file")
	headlessFlag = flag.Bool("headless", false, "Print directives instead of drawing")
	framesFlag   = flag.Int("frames", 10, "Frames to print in headless mode")
	debugFlag    = flag.Bool("debug", false, "Write a debug log under logs/")
)

func main() {
	flag.Parse()

	log, err := setupLogging(*debugFlag, logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "proximity: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("crashed: %v\n%s", r, debug.Stack())
		}
	}()

	settings, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	sc, err := LoadScenario(*scenarioFlag)
	if err != nil {
		return err
	}
	rules := loadRules(settings, sc, log)

	if *headlessFlag {
		return runHeadless(os.Stdout, settings, sc, rules, *framesFlag, log)
	}
	return runTerminal(ctx, settings, sc, rules, log)
}

// loadRules prefers the configured rule files and falls back to rules embedded in the scenario
func loadRules(s *config.Settings, sc *Scenario, log *zap.Logger) engine.Rules {
	load := func(kind rule.Kind, path string, inline []string) *rule.Table {
		if path != "" {
			t, err := rule.LoadFile(kind, path, log)
			if err == nil {
				return t
			}
			log.Info("rule file unavailable, using scenario rules", zap.String("path", path), zap.Error(err))
		}
		return rule.Load(kind, inline, log)
	}
	return engine.Rules{
		Mods:  load(rule.KindMod, s.ModRulesFile, sc.ModRules),
		Paths: load(rule.KindPath, s.PathRulesFile, sc.PathRules),
	}
}
