package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/session"
	"github.com/oomph-ac/mover/settings"
	"github.com/oomph-ac/mover/world"
	"github.com/sirupsen/logrus"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// The following program drives a handful of scripted actors around the default world, reloading
// its settings whenever the settings file changes.
func main() {
	var (
		settingsPath = flag.String("settings", "mover.toml", "settings file, created with the defaults if missing")
		layoutPath   = flag.String("layout", "", "YAML world layout (optional)")
		recordPath   = flag.String("record", "", "record the first actor to this file (optional)")
		actors       = flag.Int("actors", 4, "number of actors to simulate")
		debug        = flag.String("debug", "", "debug mode to enable on the first actor (optional)")
	)
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = logrus.InfoLevel

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	s, err := readSettings(*settingsPath)
	if err != nil {
		log.Fatalln(err)
	}
	layout := world.DefaultLayout()
	if *layoutPath != "" {
		if layout, err = world.LoadLayout(*layoutPath); err != nil {
			log.Fatalln(err)
		}
	}
	w := layout.Build(log)
	w.OnImpact(func(impact movement.Impact) {
		log.WithField("speed", impact.Velocity.Len()).Info("actor landed")
	})

	g := mover.NewGroup()
	for i := 0; i < *actors; i++ {
		m, err := mover.New(log, w, mover.Opts{Settings: s, Position: mgl32.Vec3{float32(i) * 150, 0, 300}})
		if err != nil {
			log.Fatalln(err)
		}
		name := actorName(i)
		m.OnModeChange(func(from, to string) {
			log.WithFields(logrus.Fields{"actor": name, "from": from, "to": to}).Info("mode changed")
		})
		if err := g.Add(name, m); err != nil {
			log.Fatalln(err)
		}
	}
	first, _ := g.Mover(actorName(0))

	if *debug != "" {
		mode, err := mover.ParseDebugMode(*debug)
		if err != nil {
			log.Fatalln(err)
		}
		log.Level = logrus.DebugLevel
		first.Debugger().Toggle(mode)
	}

	if *recordPath != "" {
		r, err := session.Create(*recordPath)
		if err != nil {
			log.Fatalln(err)
		}
		defer r.Close()
		if err := first.SetRecorder(r); err != nil {
			log.Fatalln(err)
		}
	}

	watcher, err := settings.Watch(*settingsPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer watcher.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	frame, last := 0, time.Now()
	for {
		select {
		case <-interrupt:
			first.Debugger().LogSummary()
			log.WithField("stats", w.Stats()).Info("shutting down")
			return
		case s := <-watcher.Updates:
			for _, name := range g.Names() {
				m, _ := g.Mover(name)
				if err := m.SetSettings(s); err != nil {
					log.Errorf("unable to apply new settings: %v", err)
				}
			}
			log.Info("settings reloaded")
		case err := <-watcher.Errors:
			log.Errorf("settings watcher: %v", err)
		case now := <-ticker.C:
			frameMs := float32(now.Sub(last).Seconds() * 1000)
			last = now
			if err := g.Tick(func(name string) movement.InputSnapshot { return script(name, frame) }, frameMs); err != nil {
				log.Errorf("tick failed: %v", err)
			}
			frame++
		}
	}
}

// script makes every actor run in circles of a different size, jumping every couple seconds.
func script(name string, frame int) movement.InputSnapshot {
	in := movement.DefaultInput()
	turn := mgl32.DegToRad(float32(int(name[len(name)-1])*40 + frame*2))
	in.MoveInput = mgl32.Vec3{1, 0, 0}
	in.OrientationIntent = mgl32.Vec3{math32.Cos(turn), math32.Sin(turn), 0}
	in.JumpPressed = frame%150 == 0
	in.SprintPressed = (frame/300)%2 == 1
	return in
}

func actorName(i int) string {
	return fmt.Sprintf("actor-%d", i)
}

// readSettings loads the settings at path, saving the defaults there first if the file is missing.
func readSettings(path string) (settings.Settings, error) {
	if err := settings.SaveDefault(path); err != nil && !errors.Is(err, settings.ErrSettingsExist) {
		return settings.Settings{}, err
	}
	return settings.Load(path)
}
