package gamemaster

import (
	"errors"
	"fmt"

	"snake/game"
	"snake/utils"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrIllegalMove = errors.New("illegal move")
)

// UpdateGetter returns the latest unread update without blocking. state is
// nil when nothing new was played or the game has ended and been drained.
type UpdateGetter func() (move game.Position, state *game.State)

// Master owns the live game. Agents only ever see copies of its state.
type Master interface {
	Init() (*game.State, UpdateGetter)
	Play(move game.Position) error
}

var _ Master = (*LocalMaster)(nil)

type update struct {
	move  game.Position
	state *game.State
}

type LocalMaster struct {
	initial  *game.State
	state    *game.State
	updateCh chan update
	gameOver bool
}

// NewLocalMaster seeds a new game from cfg.
func NewLocalMaster(cfg game.Config) (*LocalMaster, error) {
	s, err := game.NewState(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return NewLocalMasterFrom(s), nil
}

// NewLocalMasterFrom starts the game from an existing position.
func NewLocalMasterFrom(s *game.State) *LocalMaster {
	return &LocalMaster{initial: s.Copy()}
}

// Init resets the game to its starting position and returns a copy of it.
func (m *LocalMaster) Init() (*game.State, UpdateGetter) {
	m.state = m.initial.Copy()
	m.gameOver = finished(m.state)
	m.updateCh = make(chan update, 1)
	if m.gameOver {
		close(m.updateCh)
	}

	updates := m.updateCh
	return m.state.Copy(), func() (game.Position, *game.State) {
		select {
		case u, ok := <-updates:
			if !ok {
				return game.Position{}, nil
			}
			return u.move, u.state.Copy()
		default:
			return game.Position{}, nil
		}
	}
}

// Play applies move to the live state. The update stream is closed after the
// move that ends the game.
func (m *LocalMaster) Play(move game.Position) error {
	if m.state == nil {
		panic("Play called before Init")
	}
	if m.gameOver {
		return ErrGameOver
	}

	if !utils.Contains(m.state.ValidNextPositions(), move) {
		return fmt.Errorf("%w: %v from head %v", ErrIllegalMove, move, m.state.Head())
	}

	m.state = m.state.Next(move)
	m.publish(update{move: move, state: m.state})

	if finished(m.state) {
		m.gameOver = true
		close(m.updateCh)
	}
	return nil
}

// publish keeps only the newest update when the reader falls behind.
func (m *LocalMaster) publish(u update) {
	select {
	case m.updateCh <- u:
		return
	default:
	}
	select {
	case <-m.updateCh:
	default:
	}
	m.updateCh <- u
}

// State returns a copy of the live state.
func (m *LocalMaster) State() *game.State {
	return m.state.Copy()
}

func (m *LocalMaster) IsGameOver() bool {
	return m.gameOver
}

// finished covers collisions, a cleared board and a head with no way out.
func finished(s *game.State) bool {
	return s.IsGameOver() || s.Cleared() || len(s.ValidNextPositions()) == 0
}
