package movement

import "github.com/sirupsen/logrus"

// Mode is a movement mode: a strategy that proposes a move from the start of a tick and then
// simulates that move through the environment.
type Mode interface {
	// Name is the identifier the mode is registered under.
	Name() string
	// GenerateMove proposes a move for the tick. It must not have side effects.
	GenerateMove(start TickStartData, ts TimeStep) ProposedMove
	// SimulationTick applies the proposed move and writes the result into out. out.State starts
	// as a copy of the start state and out.Moves as a copy of the start queue.
	SimulationTick(params *SimulationTickParams, out *TickEndData)
	// Transitions returns the transitions evaluated after the mode's own SimulationTick.
	Transitions() []Transition
}

// SimulationTickParams is everything a mode has access to while simulating a tick.
type SimulationTickParams struct {
	Start    TickStartData
	TimeStep TimeStep
	Move     ProposedMove
	Capsule  Capsule
	Env      Environment
	Scratch  *Scratch
	Tracer   Tracer
	Log      logrus.FieldLogger
}

// TransitionResult is the decision of a transition evaluator.
type TransitionResult struct {
	// NextMode is the mode to switch to. An empty NextMode means no transition.
	NextMode string
}

// NoTransition is returned by evaluators that do not want to change anything.
var NoTransition = TransitionResult{}

// Transition is evaluated after a mode's SimulationTick to decide whether a mode change that is
// independent of the mode's own logic should happen.
type Transition interface {
	Name() string
	Evaluate(params *SimulationTickParams, end *TickEndData) TransitionResult
	// Trigger is called when Evaluate returned a transition. It may queue layered moves on end.Moves.
	Trigger(params *SimulationTickParams, end *TickEndData)
}
