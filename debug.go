package mover

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/mover/movement"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

var debugModeNames = [movement.DebugModeCount]string{
	movement.DebugModeMovementSim:  "movement",
	movement.DebugModeTransitions:  "transitions",
	movement.DebugModeLayeredMoves: "layered",
	movement.DebugModeCollision:    "collision",
}

// ParseDebugMode returns the debug mode with the given name.
func ParseDebugMode(name string) (int, error) {
	for mode, n := range debugModeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown debug mode: %s", name)
}

// DebugModeName returns the name of a debug mode.
func DebugModeName(mode int) string {
	if mode < 0 || mode >= movement.DebugModeCount {
		return "unknown"
	}
	return debugModeNames[mode]
}

// Debugger routes the debug output of a mover's simulation to its logger. Every debug mode
// starts disabled.
type Debugger struct {
	mu      deadlock.Mutex
	enabled [movement.DebugModeCount]bool
	counts  *orderedmap.OrderedMap[string, uint64]

	log *logrus.Logger
}

// NewDebugger returns a Debugger logging to log at debug level.
func NewDebugger(log *logrus.Logger) *Debugger {
	d := &Debugger{log: log, counts: orderedmap.NewOrderedMap[string, uint64]()}
	for _, name := range debugModeNames {
		d.counts.Set(name, 0)
	}
	return d
}

// Toggle enables the mode if it is disabled, and disables it otherwise.
func (d *Debugger) Toggle(mode int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled[mode] = !d.enabled[mode]
}

// SetEnabled enables or disables the mode.
func (d *Debugger) SetEnabled(mode int, enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled[mode] = enabled
}

// Enabled returns true if the mode is enabled.
func (d *Debugger) Enabled(mode int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled[mode]
}

// Notify logs the message if cond is true and the mode is enabled.
func (d *Debugger) Notify(mode int, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) {
		return
	}
	name := DebugModeName(mode)
	d.mu.Lock()
	n, _ := d.counts.Get(name)
	d.counts.Set(name, n+1)
	d.mu.Unlock()

	if d.log != nil {
		d.log.WithField("debug", name).Debugf(format, args...)
	}
}

// Counts returns how many messages every debug mode emitted, in debug mode order.
func (d *Debugger) Counts() *orderedmap.OrderedMap[string, uint64] {
	d.mu.Lock()
	defer d.mu.Unlock()
	counts := orderedmap.NewOrderedMap[string, uint64]()
	for el := d.counts.Front(); el != nil; el = el.Next() {
		counts.Set(el.Key, el.Value)
	}
	return counts
}

// LogSummary logs the message counts of every debug mode at info level.
func (d *Debugger) LogSummary() {
	if d.log == nil {
		return
	}
	fields := logrus.Fields{}
	counts := d.Counts()
	for el := counts.Front(); el != nil; el = el.Next() {
		fields[el.Key] = el.Value
	}
	d.log.WithFields(fields).Info("debug summary")
}

var _ movement.Tracer = (*Debugger)(nil)
