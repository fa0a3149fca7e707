package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oomph-ac/mover/session"
	"github.com/oomph-ac/mover/world"
	"github.com/sirupsen/logrus"
)

// The following program re-simulates a recording and checks that every tick reproduces the state
// that was recorded.
func main() {
	var (
		recordPath = flag.String("recording", "", "path to the recording")
		layoutPath = flag.String("layout", "", "YAML world layout the recording was made in (default layout if empty)")
		verbose    = flag.Bool("v", false, "log every mismatch")
	)
	flag.Parse()

	if *recordPath == "" {
		fmt.Fprintln(os.Stderr, "missing -recording")
		os.Exit(2)
	}

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if !*verbose {
		log.Level = logrus.ErrorLevel
	}

	rec, err := session.Open(*recordPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open recording:", err)
		os.Exit(1)
	}

	layout := world.DefaultLayout()
	if *layoutPath != "" {
		if layout, err = world.LoadLayout(*layoutPath); err != nil {
			fmt.Fprintln(os.Stderr, "load layout:", err)
			os.Exit(1)
		}
	}

	report, err := session.Replay(rec, layout.Build(nil), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}

	mean, median, p99, stdDev := report.TickTimes()
	fmt.Printf("recording %s: ticks=%d mode_changes=%d teleports=%d\n", rec.Version, report.Ticks, report.ModeChanges, report.Teleports)
	fmt.Printf("tick time (us): mean=%.2f median=%.2f p99=%.2f stddev=%.2f\n", mean, median, p99, stdDev)
	if !report.OK() {
		for _, m := range report.Mismatches {
			fmt.Fprintln(os.Stderr, m)
		}
		fmt.Fprintf(os.Stderr, "replay failed: %d of %d ticks diverged\n", len(report.Mismatches), report.Ticks)
		os.Exit(1)
	}
	fmt.Printf("replay ok: final position %v in %s\n", report.FinalState.Position, report.FinalState.Mode)
}
