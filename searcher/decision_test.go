package searcher

import (
	"testing"

	"snake/game"

	"github.com/stretchr/testify/require"
)

/**
Tests MCTS decision nodes
- expansion: expandable node -> new child for the next unexplored move + virtual loss, child state
- selection: fully expanded node -> max UCT child + virtual loss, child state
- terminal: node without moves -> same node, same state
- backup: reverse virtual loss, record reward, stop at the root
*/

func openState() *game.State {
	return game.MustState([]game.Position{{X: 2, Y: 2}, {X: 1, Y: 2}}, game.Position{X: 4, Y: 4}, 5, 5)
}

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("expanding node with unexplored moves", func(t *testing.T) {
		state := openState()
		node := newDecision(nil, state)
		require.Equal(t, []game.Position{{X: 3, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 1}}, node.moves)

		gotChild, gotState, gotExpanded := node.SelectOrExpand(state)

		require.True(t, gotExpanded, "Node should perform expansion")
		require.Len(t, node.children, 1, "Node should add a new child")
		require.Equal(t, node, gotChild.parent)
		require.Equal(t, LOSS, gotChild.rewards, "Child should apply a virtual loss")
		require.Equal(t, 1.0, gotChild.visits, "Child should apply a virtual loss")
		require.Equal(t, game.Position{X: 3, Y: 2}, gotState.Head(), "State should follow the first unexplored move")
		require.Equal(t, gotState.Hash(), gotChild.hash)
		require.Equal(t, game.Position{X: 2, Y: 2}, state.Head(), "Parent state should not change")
	})

	t.Run("selecting fully expanded node", func(t *testing.T) {
		state := openState()
		node := newDecision(nil, state)
		for range node.moves {
			child, _, _ := node.SelectOrExpand(state)
			backup(child, LOSS)
		}
		// Reward the second move
		node.children[1].rewards = 5

		gotChild, gotState, gotExpanded := node.SelectOrExpand(state)

		require.False(t, gotExpanded, "Node should perform selection")
		require.Equal(t, node.children[1], gotChild, "Node should select the child with max UCT value")
		require.Equal(t, 2.0, gotChild.visits, "Child should apply a virtual loss")
		require.Equal(t, game.Position{X: 2, Y: 3}, gotState.Head())
	})

	t.Run("terminal node returns itself", func(t *testing.T) {
		state := game.MustState([]game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, game.Position{X: 4, Y: 4}, 5, 5)
		node := newDecision(nil, state)

		gotChild, gotState, gotExpanded := node.SelectOrExpand(state)

		require.Equal(t, node, gotChild)
		require.Equal(t, state, gotState)
		require.False(t, gotExpanded)
	})
}

func TestDecisionBackup(t *testing.T) {
	t.Run("reverses virtual loss up to the root", func(t *testing.T) {
		state := openState()
		root := newDecision(nil, state)
		child, childState, _ := root.SelectOrExpand(state)
		grandChild, _, _ := child.SelectOrExpand(childState)

		backup(grandChild, WIN)

		require.Equal(t, WIN, grandChild.rewards)
		require.Equal(t, 1.0, grandChild.visits)
		require.Equal(t, WIN, child.rewards)
		require.Equal(t, 1.0, child.visits)
		require.Equal(t, WIN, root.rewards)
		require.Equal(t, 1.0, root.visits, "Root has no virtual loss to reverse")
	})

	t.Run("policy counts visits per move", func(t *testing.T) {
		state := openState()
		root := newDecision(nil, state)
		for i := 0; i < 4; i++ {
			node, _ := selectThenExpand(root, state, metricsOff())
			backup(node, SURVIVAL)
		}

		policy := root.Policy()

		require.Len(t, policy, 3)
		total := 0.0
		for _, visits := range policy {
			total += visits
		}
		require.Equal(t, 4.0, total)
		require.Equal(t, root.children[0], root.child(game.Position{X: 3, Y: 2}))
		require.Nil(t, root.child(game.Position{X: 1, Y: 2}))
	})
}
