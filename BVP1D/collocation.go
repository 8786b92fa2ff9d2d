package BVP1D

import (
	"math"

	"github.com/notargets/filmbvp/utils"
)

/*
colSystem is the working state of one mesh iteration. The state y, the RHS
f, the interval midpoint state yMid with its RHS fMid, and the collocation
residuals colRes are kept consistent by collocate, so the Newton driver and
the residual estimator share one evaluation.

Unknowns are ordered node major, y[j][i] is variable i at node j. The
global residual rows are ordered [left BCs; interval blocks; right BCs],
which keeps every Jacobian entry inside the band kl = n+a-1, ku = 2n-1-a.
*/
type colSystem struct {
	n, m, a, b int
	x, h       []float64
	y          [][]float64
	f          [][]float64
	yMid, fMid [][]float64
	colRes     [][]float64
	bcRes      []float64 // Left conditions first, then right
}

func newColSystem(n, a int, x []float64, y [][]float64) (cs *colSystem) {
	var (
		m = len(x)
	)
	cs = &colSystem{
		n:      n,
		m:      m,
		a:      a,
		b:      n - a,
		x:      x,
		h:      utils.Diff(x),
		y:      y,
		f:      alloc2D(m, n),
		yMid:   alloc2D(m-1, n),
		fMid:   alloc2D(m-1, n),
		colRes: alloc2D(m-1, n),
		bcRes:  make([]float64, n),
	}
	return
}

func alloc2D(m, n int) (a [][]float64) {
	a = make([][]float64, m)
	for j := range a {
		a[j] = make([]float64, n)
	}
	return
}

/*
collocate evaluates the 3-stage Lobatto IIIA collocation residual of the
current state on every interval:

	yMid = (y0+y1)/2 - h/8*(f1-f0)          at x0 + h/2
	col  = y1 - y0 - h/6*(f0 + 4*fMid + f1)

A state satisfying col = 0 on every interval solves the ODE to 4th order.
*/
func (cs *colSystem) collocate(prob Problem) {
	for j := 0; j < cs.m; j++ {
		prob.RHS(cs.x[j], cs.y[j], cs.f[j])
	}
	for j := 0; j < cs.m-1; j++ {
		h := cs.h[j]
		for i := 0; i < cs.n; i++ {
			cs.yMid[j][i] = 0.5*(cs.y[j][i]+cs.y[j+1][i]) - 0.125*h*(cs.f[j+1][i]-cs.f[j][i])
		}
		prob.RHS(cs.x[j]+0.5*h, cs.yMid[j], cs.fMid[j])
		for i := 0; i < cs.n; i++ {
			cs.colRes[j][i] = cs.y[j+1][i] - cs.y[j][i] - h/6.*(cs.f[j][i]+4.*cs.fMid[j][i]+cs.f[j+1][i])
		}
	}
}

func (cs *colSystem) evalBC(prob Problem) {
	prob.BCLeft(cs.y[0], cs.bcRes[:cs.a])
	prob.BCRight(cs.y[cs.m-1], cs.bcRes[cs.a:])
}

// assembleRes stacks the residual rows in the banded equation order.
func (cs *colSystem) assembleRes(res []float64) {
	var k int
	for r := 0; r < cs.a; r++ {
		res[k] = cs.bcRes[r]
		k++
	}
	for j := 0; j < cs.m-1; j++ {
		for i := 0; i < cs.n; i++ {
			res[k] = cs.colRes[j][i]
			k++
		}
	}
	for r := cs.a; r < cs.n; r++ {
		res[k] = cs.bcRes[r]
		k++
	}
}

func (cs *colSystem) maxBCRes() (maxBC float64) {
	for _, r := range cs.bcRes {
		if a := math.Abs(r); a > maxBC {
			maxBC = a
		}
	}
	return
}

/*
estimateRMS measures the normalized true residual r = (S' - f(x, S))/(1+|f|)
of the interpolant on each interval with a 5 point Lobatto rule. The
midpoint sample falls out of the collocation residual as 1.5*col/h, the two
interior samples sit at the Lobatto abscissae +-h/2*sqrt(3/7).
*/
func (cs *colSystem) estimateRMS(prob Problem, s *spline) (rms []float64) {
	var (
		n       = cs.n
		yq      = make([]float64, n)
		ypq     = make([]float64, n)
		fq      = make([]float64, n)
		lobatto = math.Sqrt(3. / 7.)
	)
	rms = make([]float64, cs.m-1)
	sample := func(xq float64) (rsq float64) {
		s.At(xq, yq)
		s.Deriv(xq, ypq)
		prob.RHS(xq, yq, fq)
		for i := 0; i < n; i++ {
			r := (ypq[i] - fq[i]) / (1. + math.Abs(fq[i]))
			rsq += r * r
		}
		return
	}
	for j := 0; j < cs.m-1; j++ {
		var (
			h    = cs.h[j]
			xm   = cs.x[j] + 0.5*h
			off  = 0.5 * h * lobatto
			rmsq float64
		)
		for i := 0; i < n; i++ {
			r := (1.5 * cs.colRes[j][i] / h) / (1. + math.Abs(cs.fMid[j][i]))
			rmsq += r * r
		}
		r1sq := sample(xm + off)
		r2sq := sample(xm - off)
		rms[j] = math.Sqrt(0.5 * (32./45.*rmsq + 49./90.*(r1sq+r2sq)))
	}
	return
}
