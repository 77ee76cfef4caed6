// Package combat implements the per-board attack planner of spec.md sec
// 4.3: given a board and a side to move, it searches for a high-value
// set of attacks and movements by running repeated randomized greedy
// passes within a wall-clock budget and keeping the best plan found --
// the empty plan if none is profitable.
package combat

import (
	"context"
	"errors"
	"time"

	retry "github.com/avast/retry-go/v4"
	"lukechampine.com/frand"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/kernel"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

// Plan is a proposed attack-phase action list plus the score the solver
// found for it, evaluated purely in terms of unit-value traded (spec.md
// sec 4.3.4's objective).
type Plan struct {
	Actions []game.AttackAction
	Score   float64
}

var errKeepSearching = errors.New("combat: continue searching")

// maxRestarts bounds how many randomized greedy passes Solve will try
// before giving up and returning its best plan so far, independent of
// the wall-clock budget -- a backstop against a budget so generous the
// loop would otherwise never terminate.
const maxRestarts = 64

// Solve searches for the best attack-phase plan available to s on b
// within budget. It always returns a legal plan, even if that plan is
// empty (spec.md sec 4.3.5, "the empty plan is always legal").
func Solve(b *board.Board, s side.Side, budget time.Duration) (*Plan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	var best *Plan
	err := retry.Do(
		func() error {
			p := greedyPass(b, s)
			if best == nil || p.Score > best.Score {
				best = p
			}
			select {
			case <-ctx.Done():
				return nil
			default:
				return errKeepSearching
			}
		},
		retry.Attempts(maxRestarts),
		retry.Context(ctx),
		retry.Delay(0),
		retry.LastErrorOnly(true),
	)
	if err != nil && !errors.Is(err, errKeepSearching) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if best == nil {
		return &Plan{}, nil
	}
	return best, nil
}

// greedyPass runs one randomized greedy sweep: repeatedly pick the
// highest-value legal attack available (moving into range first if
// needed), apply it to a scratch clone, and repeat until no attacker has
// a beneficial move left. Randomizing candidate order across passes
// gives Solve's retry loop restart diversity without needing a seeded
// RNG (spec.md sec 4.3.5's "branch-and-bound... time-bounded" search,
// approximated here as randomized-restart greedy).
func greedyPass(b *board.Board, s side.Side) *Plan {
	work := b.Copy()
	plan := &Plan{}

	for {
		cands := kernel.LegalAttacks(work, s)
		cands = filterUsable(work, cands)
		if len(cands) == 0 {
			break
		}
		frand.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })

		bestIdx := -1
		bestGain := 0.0
		for i, c := range cands {
			gain := simulateGain(work, s, c)
			if gain > bestGain {
				bestGain = gain
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		chosen := cands[bestIdx]
		if chosen.AttackHex != chosen.Attacker {
			if err := kernel.ApplyMove(work, s, chosen.Attacker, chosen.AttackHex); err != nil {
				continue
			}
			plan.Actions = append(plan.Actions, game.AttackAction{Kind: game.Move, From: chosen.Attacker, To: chosen.AttackHex})
		}
		if err := kernel.ApplyElementaryAttack(work, s, chosen.AttackHex, chosen.Target); err != nil {
			continue
		}
		plan.Actions = append(plan.Actions, game.AttackAction{Kind: game.Attack, Attacker: chosen.AttackHex, Target: chosen.Target})
		plan.Score += bestGain
	}
	return plan
}

// filterUsable drops candidates whose attacker has already exhausted its
// attacks-per-turn allowance (spec.md sec 4.3.3's per-attacker budget),
// counted rather than a single used/unused flag so a Wight or Shrieker
// keeps offering candidates across all of its NumAttacks.
func filterUsable(b *board.Board, cands []kernel.LegalAttack) []kernel.LegalAttack {
	out := cands[:0:0]
	for _, c := range cands {
		p := b.PieceAt(c.Attacker)
		if p == nil {
			continue
		}
		if p.Modifiers.AttacksUsed >= p.Def().NumAttacks {
			continue
		}
		out = append(out, c)
	}
	return out
}

// simulateGain applies c to a throwaway clone and returns the resulting
// net unit-value swing in s's favor: enemy value destroyed minus friendly
// value lost, the combat objective of spec.md sec 4.3.4.
func simulateGain(b *board.Board, s side.Side, c kernel.LegalAttack) float64 {
	scratch := b.Copy()
	before := sideValue(scratch, s.Other()) - sideValue(scratch, s)

	if c.AttackHex != c.Attacker {
		if err := kernel.ApplyMove(scratch, s, c.Attacker, c.AttackHex); err != nil {
			return 0
		}
	}
	if err := kernel.ApplyElementaryAttack(scratch, s, c.AttackHex, c.Target); err != nil {
		return 0
	}
	after := sideValue(scratch, s.Other()) - sideValue(scratch, s)
	return before - after
}

func sideValue(b *board.Board, s side.Side) float64 {
	total := 0.0
	for _, p := range b.PiecesOf(s) {
		total += float64(unit.Value(p.Label))
	}
	return total
}
