package game

import (
	"errors"
	"fmt"

	"snake/meta"
)

var ErrInvalidConfig = errors.New("invalid game configuration")

// Config describes a fresh game.
type Config struct {
	Width         int
	Height        int
	Seed          string
	InitialLength int
}

func DefaultConfig() Config {
	return Config{
		Width:         meta.BOARD_SIZE,
		Height:        meta.BOARD_SIZE,
		Seed:          meta.SEED,
		InitialLength: 3,
	}
}

// Validate rejects configurations that cannot produce a playable board.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: board must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.InitialLength <= 0 {
		return fmt.Errorf("%w: initial length must be positive, got %d", ErrInvalidConfig, c.InitialLength)
	}
	// The snake is laid out leftwards from the centre cell
	if c.InitialLength > c.Width/2+1 {
		return fmt.Errorf("%w: initial length %d does not fit a board of width %d", ErrInvalidConfig, c.InitialLength, c.Width)
	}
	if c.InitialLength >= c.Width*c.Height {
		return fmt.Errorf("%w: no room left for food", ErrInvalidConfig)
	}
	return nil
}
