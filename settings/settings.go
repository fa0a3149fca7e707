package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oomph-ac/mover/game"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	// AirModelAcceleration accelerates towards the move input while airborne, with no drag.
	AirModelAcceleration = "acceleration"
	// AirModelDamping applies air drag before accelerating.
	AirModelDamping = "damping"
)

// ErrSettingsExist is returned by SaveDefault when the settings file is already there.
var ErrSettingsExist = errors.New("settings file already exists")

// Settings contains every tunable used by the movement simulation.
type Settings struct {
	Movement struct {
		// JumpForce is the upward speed added by a jump impulse.
		JumpForce float32 `toml:"jump_force" yaml:"jump_force"`
		// CrouchSpeedMult scales the previous velocity every tick a crouch is held.
		CrouchSpeedMult float32 `toml:"crouch_speed_mult" yaml:"crouch_speed_mult"`
		// CrouchDurationMs is how long a crouch lasts. A negative value lasts until crouch is released.
		CrouchDurationMs float32 `toml:"crouch_duration_ms" yaml:"crouch_duration_ms"`
		// CrouchSwitchesMode makes a crouch request put the mover back into walking.
		CrouchSwitchesMode bool    `toml:"crouch_switches_mode" yaml:"crouch_switches_mode"`
		SprintSpeedMult    float32 `toml:"sprint_speed_mult" yaml:"sprint_speed_mult"`
		StartingMode       string  `toml:"starting_mode" yaml:"starting_mode"`
	} `toml:"movement" yaml:"movement"`
	Ground struct {
		Damping      float32 `toml:"damping" yaml:"damping"`
		Acceleration float32 `toml:"acceleration" yaml:"acceleration"`
		Speed        float32 `toml:"speed" yaml:"speed"`
		SlipFactor   float32 `toml:"slip_factor" yaml:"slip_factor"`
	} `toml:"ground" yaml:"ground"`
	Air struct {
		Damping      float32 `toml:"damping" yaml:"damping"`
		Acceleration float32 `toml:"acceleration" yaml:"acceleration"`
		Speed        float32 `toml:"speed" yaml:"speed"`
		Gravity      float32 `toml:"gravity" yaml:"gravity"`
		// Model is either AirModelAcceleration or AirModelDamping.
		Model string `toml:"model" yaml:"model"`
	} `toml:"air" yaml:"air"`
	Simulation struct {
		StepMs         float32 `toml:"step_ms" yaml:"step_ms"`
		MaxTimeRefunds int     `toml:"max_time_refunds" yaml:"max_time_refunds"`
	} `toml:"simulation" yaml:"simulation"`
	Debug struct {
		DrawMovementDebug bool `toml:"draw_movement_debug" yaml:"draw_movement_debug"`
	} `toml:"debug" yaml:"debug"`
}

// DefaultSettings returns the default movement settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Movement.JumpForce = 300
	s.Movement.CrouchSpeedMult = 0.75
	s.Movement.CrouchDurationMs = -1
	s.Movement.SprintSpeedMult = 1.5
	s.Movement.StartingMode = game.ModeAir

	s.Ground.Damping = 6
	s.Ground.Acceleration = 8
	s.Ground.Speed = 1200
	s.Ground.SlipFactor = 750

	s.Air.Damping = 5
	s.Air.Acceleration = 2
	s.Air.Speed = 1200
	s.Air.Gravity = 800
	s.Air.Model = AirModelAcceleration

	s.Simulation.StepMs = game.DefaultStepMs
	s.Simulation.MaxTimeRefunds = game.MaxTimeRefunds
	return s
}

// Validate returns an error describing the first setting that holds an unusable value.
func (s Settings) Validate() error {
	switch {
	case s.Movement.StartingMode != game.ModeWalk && s.Movement.StartingMode != game.ModeAir:
		return fmt.Errorf("unknown starting mode %q", s.Movement.StartingMode)
	case s.Air.Model != AirModelAcceleration && s.Air.Model != AirModelDamping:
		return fmt.Errorf("unknown air model %q", s.Air.Model)
	case s.Ground.Speed < 0 || s.Air.Speed < 0:
		return errors.New("speeds must not be negative")
	case s.Ground.Damping < 0 || s.Air.Damping < 0:
		return errors.New("damping must not be negative")
	case s.Simulation.StepMs < game.MinStepMs || s.Simulation.StepMs > game.MaxStepMs:
		return fmt.Errorf("step_ms must be within [%v, %v], got %v", game.MinStepMs, game.MaxStepMs, s.Simulation.StepMs)
	case s.Simulation.MaxTimeRefunds < 0:
		return errors.New("max_time_refunds must not be negative")
	}
	return nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := marshal(path, DefaultSettings())
		if err != nil {
			return fmt.Errorf("failed encoding default settings: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %v", err)
		}
		return nil
	}
	return ErrSettingsExist
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Keys missing from the file keep their default values.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	s := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, &s)
	} else {
		err = toml.Unmarshal(data, &s)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %v", err)
	}
	return s, nil
}

func marshal(path string, s Settings) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(s)
	}
	return toml.Marshal(s)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Encode returns the TOML encoding of s.
func (s Settings) Encode() ([]byte, error) {
	return toml.Marshal(s)
}

// Decode decodes settings previously encoded with Encode. Keys missing from data keep their
// default values.
func Decode(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %v", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %v", err)
	}
	return s, nil
}
