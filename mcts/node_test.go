package mcts

import (
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spooky/side"
)

func TestUctValueUnvisitedIsInfinite(t *testing.T) {
	is := is.New(t)
	n := newTreeNode(newTestState(), nil, nil)
	is.True(math.IsInf(n.uctValue(10, 1.4), 1))
}

func TestUctValuePrefersHigherMean(t *testing.T) {
	is := is.New(t)
	a := newTreeNode(newTestState(), nil, nil)
	a.Visits = 10
	a.ValueSum = 5

	b := newTreeNode(newTestState(), nil, nil)
	b.Visits = 10
	b.ValueSum = -5

	is.True(a.uctValue(20, 0) > b.uctValue(20, 0))
}

func TestConfidenceRadiusShrinksWithVisits(t *testing.T) {
	is := is.New(t)
	n := newTreeNode(newTestState(), nil, nil)
	n.Visits = 1
	is.True(math.IsInf(n.confidenceRadius(), 1))

	n.Visits = 100
	r100 := n.confidenceRadius()
	n.Visits = 10000
	r10000 := n.confidenceRadius()
	is.True(r10000 < r100)
}

func TestConfidenceRadiusShrinksFasterWithHigherEvaluatorConfidence(t *testing.T) {
	is := is.New(t)
	unsure := newTreeNode(newTestState(), nil, nil)
	unsure.Visits = 100

	sure := newTreeNode(newTestState(), nil, nil)
	sure.Visits = 100
	sure.ConfidenceSum = 90 // mean confidence 0.9

	is.True(sure.confidenceRadius() < unsure.confidenceRadius())
}

func TestLeafValueMatchesEvalScore(t *testing.T) {
	is := is.New(t)
	gs := newTestState()
	v0, _ := leafValue(gs, side.S0)
	v1, _ := leafValue(gs, side.S1)
	is.True(math.Abs(v0+v1) < 1e-9)
}
