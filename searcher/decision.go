package searcher

import (
	"math"
	"sync"

	"snake/game"
)

type decision struct {
	sync.Mutex
	parent   *decision
	hash     game.StateHash
	moves    []game.Position
	children []*decision
	rewards  float64
	visits   float64
}

func newDecision(parent *decision, state *game.State) *decision {
	var moves []game.Position
	if !state.IsGameOver() {
		moves = state.ValidNextPositions()
	}
	return &decision{
		parent:   parent,
		hash:     state.Hash(),
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand descends one level. A terminal node returns itself. An
// expandable node adds the child for its next unexplored move. A fully
// expanded node selects the child with the highest UCT value. The returned
// child carries a virtual loss until it is backed up.
func (d *decision) SelectOrExpand(state *game.State) (*decision, *game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.moves) > len(d.children) { // Expandable node
		move := d.moves[len(d.children)]
		next := state.Next(move)
		child := newDecision(d, next)
		d.children = append(d.children, child)
		child.applyLoss()
		return child, next, true
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, state.Next(d.moves[ith]), false
}

// pickChild takes N as the children's total visits, virtual losses included,
// so a root without completed backups can still select.
func (d *decision) pickChild() int {
	rewards := make([]float64, len(d.children))
	visits := make([]float64, len(d.children))
	total := 0.0
	for i, child := range d.children {
		rewards[i], visits[i] = child.stats()
		total += visits[i]
	}
	policy := newUCT(CSquared, total)

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i := range d.children {
		if score := policy.evaluate(rewards[i], visits[i]); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) stats() (rewards, visits float64) {
	d.Lock()
	defer d.Unlock()

	return d.rewards, d.visits
}

// Backup records a rollout reward and returns the parent. The root never
// carries a virtual loss.
func (d *decision) Backup(reward float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil {
		d.rewards -= LOSS
		d.visits--
	}

	d.rewards += reward
	d.visits++

	return d.parent
}

// Policy maps each explored move to its visit count.
func (d *decision) Policy() map[game.Position]float64 {
	d.Lock()
	defer d.Unlock()

	policy := make(map[game.Position]float64, len(d.children))
	for i, child := range d.children {
		_, visits := child.stats()
		policy[d.moves[i]] = visits
	}
	return policy
}

// child returns the explored child reached by move, or nil.
func (d *decision) child(move game.Position) *decision {
	d.Lock()
	defer d.Unlock()

	for i, child := range d.children {
		if d.moves[i] == move {
			return child
		}
	}
	return nil
}
