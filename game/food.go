package game

import (
	"errors"
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// ErrBoardFull is returned when food cannot be placed because the snake covers
// every cell.
var ErrBoardFull = errors.New("no free cell for food")

// maxFoodDraws bounds rejection sampling before falling back to a scan of the
// free cells.
const maxFoodDraws = 64

// SeedValue converts a textual seed into the PCG seed used for food placement.
func SeedValue(seed string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return h.Sum64()
}

// foodSource is the seeded sequence owned by a single State. Copies continue
// the sequence independently of the original.
type foodSource struct {
	pcg *rand.PCGSource
	rng *rand.Rand
}

func newFoodSource(seed string) *foodSource {
	pcg := &rand.PCGSource{}
	pcg.Seed(SeedValue(seed))
	return &foodSource{pcg: pcg, rng: rand.New(pcg)}
}

func (f *foodSource) copy() *foodSource {
	pcg := *f.pcg
	return &foodSource{pcg: &pcg, rng: rand.New(&pcg)}
}

func (f *foodSource) intn(n int) int {
	return f.rng.Intn(n)
}

// GenerateFood draws a free cell for the next food from the state's seeded
// source. Occupied draws are retried up to maxFoodDraws times, after which a
// free cell is picked by index so placement always terminates.
func (s *State) GenerateFood() (Position, error) {
	for i := 0; i < maxFoodDraws; i++ {
		x := s.source.intn(s.Width)
		y := s.source.intn(s.Height)
		pos := Position{X: x, Y: y}
		if !s.Occupied(pos) {
			return pos, nil
		}
	}

	free := make([]Position, 0, max(0, s.Width*s.Height-len(s.Snake)))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			pos := Position{X: x, Y: y}
			if !s.Occupied(pos) {
				free = append(free, pos)
			}
		}
	}
	if len(free) == 0 {
		return NoFood, ErrBoardFull
	}
	return free[s.source.intn(len(free))], nil
}
