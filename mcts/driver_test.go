package mcts

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/zobrist"
)

func newTestState() *game.State {
	cfg := game.NewDefaultConfig(2)
	return game.NewInitial(cfg, 20)
}

func TestSearchReturnsLegalTurn(t *testing.T) {
	is := is.New(t)
	gs := newTestState()

	d := NewDriver(2, 50*time.Millisecond)
	budget := NewBudget(150*time.Millisecond, 0)

	turn, err := d.Search(context.Background(), gs, budget)
	is.NoErr(err)
	is.True(turn != nil)
	is.Equal(len(turn.BoardTurns), len(gs.Boards))
}

func TestSearchRespectsMaxNodes(t *testing.T) {
	is := is.New(t)
	gs := newTestState()

	d := NewDriver(1, 20*time.Millisecond)
	budget := NewBudget(5*time.Second, 3)

	turn, err := d.Search(context.Background(), gs, budget)
	is.NoErr(err)
	is.True(turn != nil)
}

func TestSearchHonorsStopFlag(t *testing.T) {
	is := is.New(t)
	gs := newTestState()

	d := NewDriver(1, 20*time.Millisecond)
	budget := NewBudget(5*time.Second, 0)
	budget.Stop.Store(true)

	start := time.Now()
	_, err := d.Search(context.Background(), gs, budget)
	is.NoErr(err)
	is.True(time.Since(start) < time.Second)
}

func TestSearchHonorsContextCancellation(t *testing.T) {
	is := is.New(t)
	gs := newTestState()

	d := NewDriver(2, 20*time.Millisecond)
	budget := NewBudget(5*time.Second, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Search(ctx, gs, budget)
	is.NoErr(err)
}

func TestSearchWithPlanCacheReturnsLegalTurn(t *testing.T) {
	is := is.New(t)
	gs := newTestState()

	z := &zobrist.Table{}
	z.Initialize(len(gs.Boards), gs.Config.Techline.Len())
	cache := &fakePlanCache{}

	d := NewDriver(1, 20*time.Millisecond).WithPlanCache(cache, z)
	budget := NewBudget(150*time.Millisecond, 0)

	turn, err := d.Search(context.Background(), gs, budget)
	is.NoErr(err)
	is.True(turn != nil)
	is.True(cache.lookedUp > 0)
}
