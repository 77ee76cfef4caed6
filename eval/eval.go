// Package eval implements the static position evaluator of spec.md sec
// 4.2: a hand-tuned linear combination of board, tech, economic, and
// zone-defensibility terms squashed through tanh into a bounded,
// side-symmetric score.
package eval

import (
	"math"

	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// Constants default to the values named in spec.md sec 4.2. c_t scales
// with the number of boards (4n) so a multi-board game's tech race is
// weighted comparably to a single-board one. techDecay is gamma, the
// per-index falloff applied to how much an Acquired card contributes the
// further behind it sits from the side's furthest acquisition.
const (
	CWinsToGo = 25.0
	CTechUnit = 4.0
	CMoney    = 1.0
	CBoard    = 1.0
	CDamp     = 0.05
	techDecay = 0.98
)

// techScore returns (t_s, a_s) for one side's tech status, per spec.md
// sec 4.2: a_s is the furthest Acquired card index (0 if the side has
// acquired nothing), and t_s = sum over every Acquired card u of
// techDecay^(a_s-u) -- the furthest acquisition contributes exactly 1,
// and each card further back contributes exponentially less.
func techScore(status []tech.Status) (t, a float64) {
	aMax := -1
	for i, st := range status {
		if st == tech.Acquired {
			aMax = i
		}
	}
	if aMax < 0 {
		return 0, 0
	}
	for u, st := range status {
		if st == tech.Acquired {
			t += math.Pow(techDecay, float64(aMax-u))
		}
	}
	return t, float64(aMax)
}

// boardValue sums unit_value(label) over every living piece of s on
// every board of gs,
// the term the combat solver's own objective (spec.md sec 4.3.4) also
// draws from.
func boardValue(gs *game.State, s side.Side) float64 {
	total := 0.0
	for _, b := range gs.Boards {
		for _, p := range b.PiecesOf(s) {
			total += float64(unit.Value(p.Label))
		}
	}
	return total
}

func winsToGo(gs *game.State, s side.Side) float64 {
	target := game.WinTarget(len(gs.Boards))
	return float64(target - gs.BoardPoints.Get(s))
}

// D computes the raw (unsquashed) evaluation differential from s's
// perspective: positive favors s.
func D(gs *game.State, s side.Side) float64 {
	opp := s.Other()
	wDiff := winsToGo(gs, opp) - winsToGo(gs, s)

	t0, a0 := techScore(gs.TechStatus.Get(s))
	t1, a1 := techScore(gs.TechStatus.Get(opp))
	tDiff := (t0 - t1) + (a0 - a1)

	mDiff := float64(gs.Money.Get(s) - gs.Money.Get(opp))
	bDiff := boardValue(gs, s) - boardValue(gs, opp)

	zDiff := 0.0
	for _, b := range gs.Boards {
		zDiff += zoneValue(b, s)
	}

	ct := CTechUnit * float64(len(gs.Boards))
	return CWinsToGo*wDiff + ct*tDiff + CMoney*mDiff + CBoard*bDiff + zDiff
}

// Score returns the bounded static evaluation of gs from s's point of
// view -- tanh(c_d * D), in [-1, 1], reaching exactly +-1 once D is large
// enough for tanh to round to 1 in float64 -- together with a confidence
// in [0, 1] that the search should place in that score. Confidence is the
// score's own magnitude: tanh saturates near its tails exactly where the
// underlying differential is most one-sided, so |score| doubles as how
// much weight backprop should give it (spec.md sec 4.2, sec 4.9). By
// construction D(gs, s.Other()) == -D(gs, s) exactly (every term is a
// symmetric difference), so Score(gs, s) == -Score(gs, s.Other()) to
// full floating-point precision, satisfying the evaluator's
// side-symmetry invariant (spec.md sec 8); confidence, being unsigned,
// agrees for both sides.
func Score(gs *game.State, s side.Side) (score, confidence float64) {
	score = math.Tanh(CDamp * D(gs, s))
	return score, math.Abs(score)
}
