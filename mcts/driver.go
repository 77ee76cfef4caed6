// Package mcts implements the Monte Carlo tree search described in
// spec.md sec 4.9: UCT selection with confidence-interval pruning,
// expansion up to maxChildren candidates per visit, and negated-scalar
// backpropagation across sides. Its concurrency shape -- a worker pool
// racing against a shared cooperative-cancellation budget, reporting
// through atomic counters -- is grounded on montecarlo.Simmer's
// errgroup-driven simulation loop (montecarlo/montecarlo.go).
package mcts

import (
	"context"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/kernel"
	"github.com/domino14/spooky/node"
	"github.com/domino14/spooky/zobrist"
)

const defaultExploration = 1.4

// Driver owns the resources one search needs: how many worker goroutines
// to race, and how much wall-clock the per-board combat solver
// (combat.Solve, called down inside generateCandidates) gets per call.
type Driver struct {
	Threads      int
	CombatBudget time.Duration

	// Cache and Zobrist are optional; when both are set, every generated
	// candidate's combat solve consults Cache first (store.PlanCache
	// satisfies node.PlanCache without this package importing store).
	Cache   node.PlanCache
	Zobrist *zobrist.Table

	logMu     sync.Mutex
	logStream io.Writer
}

// NewDriver returns a Driver with the given worker count (clamped to at
// least 1) and combat solver budget.
func NewDriver(threads int, combatBudget time.Duration) *Driver {
	if threads < 1 {
		threads = 1
	}
	return &Driver{Threads: threads, CombatBudget: combatBudget}
}

// WithPlanCache attaches a persistent combat plan cache and the Zobrist
// table used to key it, returning d for chaining after NewDriver.
func (d *Driver) WithPlanCache(cache node.PlanCache, z *zobrist.Table) *Driver {
	d.Cache = cache
	d.Zobrist = z
	return d
}

// SetLogStream directs per-iteration search trace records to w, mirroring
// montecarlo.Simmer.SetLogStream. A nil stream (the default) disables
// tracing entirely.
func (d *Driver) SetLogStream(w io.Writer) {
	d.logMu.Lock()
	defer d.logMu.Unlock()
	d.logStream = w
}

// Search runs the tree search rooted at root until budget expires or ctx
// is cancelled, then returns the root child with the most visits (the
// spec's robust-child selection, sec 4.9). If root is already terminal or
// no candidate turn ever survives kernel.ApplyTurn, Search returns a pass
// (an all-empty Turn), which is always legal.
func (d *Driver) Search(ctx context.Context, root *game.State, budget *Budget) (*game.Turn, error) {
	rootNode := newTreeNode(root, nil, nil)

	var mu sync.Mutex
	var nodeCount atomic.Uint64
	var iterCount atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.Threads; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				if budget.Expired(nodeCount.Load()) {
					return nil
				}
				d.iterate(rootNode, &mu, &nodeCount)
				n := iterCount.Add(1)
				d.traceIteration(n, rootNode)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	if len(rootNode.Children) == 0 {
		return game.NewTurn(len(root.Boards)), nil
	}
	best := rootNode.Children[0]
	for _, c := range rootNode.Children[1:] {
		if c.Visits > best.Visits {
			best = c
		}
	}
	return best.Turn, nil
}

// iterate runs one selection/expansion/evaluation/backprop cycle starting
// at root. The whole cycle holds mu: kernel.ApplyTurn and the combat/spawn
// heuristics behind generateCandidates are pure functions over cloned
// state, but the tree itself (Children, Visits, ValueSum, untried) is
// shared across worker goroutines and is not otherwise synchronized.
func (d *Driver) iterate(root *treeNode, mu *sync.Mutex, nodeCount *atomic.Uint64) {
	mu.Lock()
	defer mu.Unlock()

	node := root
	path := []*treeNode{node}

	for {
		if node.untried == nil {
			if _, over := node.State.Winner(); over {
				break
			}
			node.untried = generateCandidates(node.State, d.CombatBudget, d.Cache, d.Zobrist)
			if node.untried == nil {
				node.untried = []*game.Turn{}
			}
		}

		if len(node.untried) > 0 {
			turn := node.untried[len(node.untried)-1]
			node.untried = node.untried[:len(node.untried)-1]
			newState, err := kernel.ApplyTurn(node.State, turn)
			if err != nil {
				continue
			}
			child := newTreeNode(newState, turn, node)
			node.Children = append(node.Children, child)
			nodeCount.Add(1)
			node = child
			path = append(path, node)
			break
		}

		if len(node.Children) == 0 {
			break
		}
		node = selectChild(node)
		path = append(path, node)
	}

	mover := node.State.SideToMove.Other()
	value, confidence := leafValue(node.State, mover)
	backprop(path, value, confidence)
}

// backprop credits value to the last node in path and every ancestor,
// negating at each step up since consecutive tree levels alternate which
// side chose the turn (spec.md sec 4.9, "negated scalar score...across
// sides"). confidence is the evaluator's own confidence in that value
// (spec.md sec 4.2); unlike value it is not side-relative, so it
// accumulates unchanged at every level for confidenceRadius to average
// over.
func backprop(path []*treeNode, value, confidence float64) {
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		n.Visits++
		n.ValueSum += value
		n.ConfidenceSum += confidence
		value = -value
	}
}

// selectChild descends one ply via UCT, first discarding any child whose
// optimistic upper confidence bound falls below another child's
// pessimistic lower bound -- the confidence-interval pruning of spec.md
// sec 4.9.
func selectChild(n *treeNode) *treeNode {
	maxLower := math.Inf(-1)
	for _, c := range n.Children {
		if c.Visits == 0 {
			continue
		}
		lower := c.ValueSum/float64(c.Visits) - c.confidenceRadius()
		if lower > maxLower {
			maxLower = lower
		}
	}

	var best *treeNode
	bestScore := math.Inf(-1)
	for _, c := range n.Children {
		if c.Visits > 0 {
			upper := c.ValueSum/float64(c.Visits) + c.confidenceRadius()
			if upper < maxLower {
				continue
			}
		}
		score := c.uctValue(n.Visits, defaultExploration)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if best == nil {
		best = n.Children[0]
	}
	return best
}
