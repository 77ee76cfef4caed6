package mcts

import (
	"math"

	"github.com/domino14/spooky/eval"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
)

// treeNode is one position in the search tree: the game state it
// represents, the turn that produced it from its parent (nil at the
// root), and UCT bookkeeping. Every treeNode's State is a fully applied,
// legal position -- expansion only ever adds children built from
// candidate turns that kernel.ApplyTurn already accepted.
type treeNode struct {
	State    *game.State
	Turn     *game.Turn
	Parent   *treeNode
	Children []*treeNode

	Visits        uint64
	ValueSum      float64 // from the mover-at-this-node's perspective
	ConfidenceSum float64 // evaluator confidence accumulated across every backprop through this node
	Prior         float64

	untried []*game.Turn
}

// maxChildren caps expansion width per spec.md sec 4.9 ("up to K=4
// children per visit").
const maxChildren = 4

func newTreeNode(state *game.State, turn *game.Turn, parent *treeNode) *treeNode {
	return &treeNode{State: state, Turn: turn, Parent: parent}
}

func (n *treeNode) isLeaf() bool {
	return len(n.Children) == 0 && len(n.untried) == 0
}

func (n *treeNode) fullyExpanded() bool {
	return len(n.untried) == 0
}

// uctValue is the standard UCT score, mixed with a confidence-interval
// pruning term (spec.md sec 4.9): a child with very few visits relative
// to its siblings is scored optimistically, but once a child's observed
// mean plus its confidence radius falls below the current best child's
// mean minus its own radius, the caller may prune it from further
// consideration (see selectChild).
func (n *treeNode) uctValue(parentVisits uint64, c float64) float64 {
	if n.Visits == 0 {
		return math.Inf(1)
	}
	mean := n.ValueSum / float64(n.Visits)
	explore := c * math.Sqrt(math.Log(float64(parentVisits))/float64(n.Visits))
	return mean + explore
}

// confidenceRadius is a 95%-normal confidence half-width around the
// node's mean value, shrunk by how confident the evaluator itself has
// been about this node (spec.md sec 4.9): the classical 1/sqrt(visits)
// term is scaled by (1 - meanConfidence), so a node backed by
// high-confidence evaluations collapses toward zero radius -- eligible
// for pruning -- long before visit count alone would justify it, while
// meanConfidence == 0 reduces exactly to the plain visit-count formula.
func (n *treeNode) confidenceRadius() float64 {
	if n.Visits < 2 {
		return math.Inf(1)
	}
	meanConfidence := n.ConfidenceSum / float64(n.Visits)
	return 1.96 * (1 - meanConfidence) / math.Sqrt(float64(n.Visits))
}

// leafValue statically evaluates a node with no children left to expand,
// from the side to move *at the parent* -- i.e. the side who chose the
// turn leading to n, matching the negated-backprop convention used
// throughout (spec.md sec 4.9, "negated scalar score... across sides").
func leafValue(state *game.State, mover side.Side) (value, confidence float64) {
	return eval.Score(state, mover)
}
