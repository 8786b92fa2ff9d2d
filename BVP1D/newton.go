package BVP1D

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/filmbvp/utils"
)

/*
solveNewton drives a damped Newton iteration on the global system
[left BCs; collocation blocks; right BCs] for the current mesh. The
factored band matrix is reused across backtracking trials and, after a
full step, into the next iteration; the Jacobian is refreshed at most
maxNjev times. Backtracking shrinks the step by tau until the solved cost
drops below (1 - 2*alpha*sigma) of the current cost, and the last trial
state is kept even when no trial meets the decrease test.
*/
func (cs *colSystem) solveNewton(prob Problem, prm Params) (singular bool) {
	const (
		maxNjev = 4
		maxIter = 8
		sigma   = 0.2
		tau     = 0.5
		nTrial  = 4
	)
	var (
		n, m         = cs.n, cs.m
		nSys         = n * m
		res          = make([]float64, nSys)
		tolR         = make([]float64, m-1)
		yTrial       = alloc2D(m, n)
		bm           utils.BandedMatrix
		step         []float64
		cost         float64
		recomputeJac = true
		njev         int
	)
	for j := range tolR {
		tolR[j] = 2. / 3. * cs.h[j] * 5.e-2 * prm.Tol
	}
	cs.collocate(prob)
	cs.evalBC(prob)
	cs.assembleRes(res)
	for iteration := 0; iteration < maxIter; iteration++ {
		if recomputeJac {
			bm = cs.assembleJac(prob)
			njev++
			if err := bm.LUFactor(); err != nil {
				singular = true
				return
			}
			step = bm.LUSolve(res)
			cost = floats.Dot(step, step)
		}
		var (
			alpha   = 1.
			stepNew []float64
			costNew float64
			yBase   = cs.y
		)
		for trial := 0; trial <= nTrial; trial++ {
			for j := 0; j < m; j++ {
				for i := 0; i < n; i++ {
					yTrial[j][i] = yBase[j][i] - alpha*step[j*n+i]
				}
			}
			cs.y = yTrial
			cs.collocate(prob)
			cs.evalBC(prob)
			cs.assembleRes(res)
			stepNew = bm.LUSolve(res)
			costNew = floats.Dot(stepNew, stepNew)
			if costNew < (1.-2.*alpha*sigma)*cost {
				break
			}
			if trial < nTrial {
				alpha *= tau
			}
		}
		yTrial = yBase // Old buffers recycle, cs.y keeps the trial state
		if njev == maxNjev {
			break
		}
		if cs.convergedNewton(tolR, prm.BCTol) {
			break
		}
		if alpha == 1. {
			step = stepNew
			cost = costNew
			recomputeJac = false
		} else {
			recomputeJac = true
		}
	}
	return
}

// Collocation residuals are compared per interval against
// (2/3)*h*5e-2*tol, relative to 1+|f| at the midpoint, boundary residuals
// against bcTol.
func (cs *colSystem) convergedNewton(tolR []float64, bcTol float64) bool {
	for j := 0; j < cs.m-1; j++ {
		for i := 0; i < cs.n; i++ {
			if math.Abs(cs.colRes[j][i]) >= tolR[j]*(1.+math.Abs(cs.fMid[j][i])) {
				return false
			}
		}
	}
	for _, r := range cs.bcRes {
		if math.Abs(r) >= bcTol {
			return false
		}
	}
	return true
}
