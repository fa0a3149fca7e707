package mode

import (
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/movement/transition"
	"github.com/oomph-ac/mover/settings"
	"github.com/sirupsen/logrus"
)

// NewMachine returns a state machine with the Walk and Air modes registered and configured from s,
// starting in s.Movement.StartingMode.
func NewMachine(s settings.Settings, log logrus.FieldLogger, tracer movement.Tracer) (*movement.StateMachine, error) {
	sm := movement.NewStateMachine(log, tracer)
	if err := sm.Register(NewAir(s)); err != nil {
		return nil, err
	}
	if err := sm.Register(NewWalk(s, transition.NewCrouchCheck(s))); err != nil {
		return nil, err
	}
	if s.Movement.StartingMode != "" {
		if err := sm.SetStartingMode(s.Movement.StartingMode); err != nil {
			return nil, err
		}
	}
	return sm, nil
}
