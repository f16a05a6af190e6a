package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/middle-ages/pkg/middleages"
)

// Position is a 1-based board coordinate in a match file.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// EngineSpec is the command line of one engine process.
type EngineSpec struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Match describes a referee match between two engines.
type Match struct {
	BoardSize   int           `yaml:"board_size"`
	Rounds      int           `yaml:"rounds"`
	King1       Position      `yaml:"king1"`
	King2       Position      `yaml:"king2"`
	Player1     EngineSpec    `yaml:"player1"`
	Player2     EngineSpec    `yaml:"player2"`
	MoveTimeout time.Duration `yaml:"move_timeout"`
}

const (
	defaultBoardSize = 20
	defaultRounds    = 100
)

// DefaultMatch returns a match with both sides played by the configured
// engine and the kings in opposite corners.
func DefaultMatch(cfg *Config) *Match {
	return &Match{
		BoardSize:   defaultBoardSize,
		Rounds:      defaultRounds,
		King1:       Position{X: 1, Y: 1},
		King2:       Position{X: defaultBoardSize - middleages.RowWidth + 1, Y: defaultBoardSize},
		Player1:     EngineSpec{Command: cfg.Engine},
		Player2:     EngineSpec{Command: cfg.Engine},
		MoveTimeout: cfg.MoveTimeout,
	}
}

// LoadMatch reads a YAML match file. Fields missing from the file keep the
// defaults derived from cfg.
func LoadMatch(path string, cfg *Config) (*Match, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match file: %w", err)
	}
	return ParseMatch(raw, cfg)
}

// ParseMatch decodes and validates a YAML match description.
func ParseMatch(raw []byte, cfg *Config) (*Match, error) {
	m := DefaultMatch(cfg)
	if err := yaml.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("parse match file: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Setup returns the INIT parameters sent to the engine playing p.
func (m *Match) Setup(p middleages.Player) middleages.Setup {
	return middleages.Setup{
		BoardSize:  m.BoardSize,
		Rounds:     m.Rounds,
		Controlled: p,
		King1:      middleages.Point{X: m.King1.X, Y: m.King1.Y},
		King2:      middleages.Point{X: m.King2.X, Y: m.King2.Y},
	}
}

// Engine returns the command line for player p.
func (m *Match) Engine(p middleages.Player) EngineSpec {
	if p == middleages.Player2 {
		return m.Player2
	}
	return m.Player1
}

// Validate checks that the match can be started.
func (m *Match) Validate() error {
	var errs []error
	if m.Player1.Command == "" {
		errs = append(errs, errors.New("player1.command is empty"))
	}
	if m.Player2.Command == "" {
		errs = append(errs, errors.New("player2.command is empty"))
	}
	if m.MoveTimeout <= 0 {
		errs = append(errs, fmt.Errorf("move_timeout must be positive, got %s", m.MoveTimeout))
	}
	if _, err := middleages.NewGame(m.Setup(middleages.Player1)); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid match: %w", err)
	}
	return nil
}
