package BVP1D

import (
	"math"

	"github.com/notargets/filmbvp/utils"
)

/*
rhsJacFD estimates the n x n Jacobian of the RHS at one point by forward
differences with step sqrt(eps)*(1+|y|), recomputing the actually
representable step. f holds the unperturbed RHS, J is written row major.
*/
func rhsJacFD(prob Problem, x float64, y, f, J, yTmp, fTmp []float64) {
	var (
		n = prob.NVars
	)
	copy(yTmp, y)
	for c := 0; c < n; c++ {
		hc := utils.SQRTEPS * (1. + math.Abs(y[c]))
		yTmp[c] = y[c] + hc
		hc = yTmp[c] - y[c]
		prob.RHS(x, yTmp, fTmp)
		for r := 0; r < n; r++ {
			J[r*n+c] = (fTmp[r] - f[r]) / hc
		}
		yTmp[c] = y[c]
	}
}

// bcJacFD estimates the nr x n Jacobian of a boundary writer the same way.
func bcJacFD(bc func(y, r []float64) int, nr, n int, y, r0, J, yTmp, rTmp []float64) {
	copy(yTmp, y)
	for c := 0; c < n; c++ {
		hc := utils.SQRTEPS * (1. + math.Abs(y[c]))
		yTmp[c] = y[c] + hc
		hc = yTmp[c] - y[c]
		bc(yTmp, rTmp[:nr])
		for r := 0; r < nr; r++ {
			J[r*n+c] = (rTmp[r] - r0[r]) / hc
		}
		yTmp[c] = y[c]
	}
}

/*
assembleJac builds the banded Newton matrix of the collocation system.
Differentiating the residual of one interval against its endpoint states
gives the dense blocks

	dPhi/dy0 = -I - h/6*(J0 + 2*Jm) - h^2/12*Jm*J0
	dPhi/dy1 =  I - h/6*(J1 + 2*Jm) + h^2/12*Jm*J1

with J0, J1, Jm the RHS Jacobians at the two endpoints and the midpoint.
The blocks and the boundary rows are gathered in a DOK, then rewritten into
band storage for the factorization. Jacobians at interior nodes are shared
by their two intervals, so each node is differentiated once.
*/
func (cs *colSystem) assembleJac(prob Problem) (bm utils.BandedMatrix) {
	var (
		n, m, a, b = cs.n, cs.m, cs.a, cs.b
		nSys       = n * m
		kl, ku     = n + a - 1, 2*n - 1 - a
		D          = utils.NewDOK(nSys, nSys)
		Jcur       = make([]float64, n*n)
		Jnext      = make([]float64, n*n)
		Jmid       = make([]float64, n*n)
		JBC        = make([]float64, n*n)
		yTmp       = make([]float64, n)
		fTmp       = make([]float64, n)
		rTmp       = make([]float64, n)
	)
	bcJacFD(prob.BCLeft, a, n, cs.y[0], cs.bcRes[:a], JBC, yTmp, rTmp)
	for r := 0; r < a; r++ {
		for c := 0; c < n; c++ {
			D.Set(r, c, JBC[r*n+c])
		}
	}
	rhsJacFD(prob, cs.x[0], cs.y[0], cs.f[0], Jcur, yTmp, fTmp)
	for j := 0; j < m-1; j++ {
		h := cs.h[j]
		rhsJacFD(prob, cs.x[j+1], cs.y[j+1], cs.f[j+1], Jnext, yTmp, fTmp)
		rhsJacFD(prob, cs.x[j]+0.5*h, cs.yMid[j], cs.fMid[j], Jmid, yTmp, fTmp)
		row := a + j*n
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				var acc0, acc1 float64
				for t := 0; t < n; t++ {
					acc0 += Jmid[r*n+t] * Jcur[t*n+c]
					acc1 += Jmid[r*n+t] * Jnext[t*n+c]
				}
				d0 := -h/6.*(Jcur[r*n+c]+2.*Jmid[r*n+c]) - h*h/12.*acc0
				d1 := -h/6.*(Jnext[r*n+c]+2.*Jmid[r*n+c]) + h*h/12.*acc1
				if r == c {
					d0 -= 1.
					d1 += 1.
				}
				D.Set(row+r, j*n+c, d0)
				D.Set(row+r, (j+1)*n+c, d1)
			}
		}
		Jcur, Jnext = Jnext, Jcur
	}
	bcJacFD(prob.BCRight, b, n, cs.y[m-1], cs.bcRes[a:], JBC, yTmp, rTmp)
	for r := 0; r < b; r++ {
		for c := 0; c < n; c++ {
			D.Set(a+n*(m-1)+r, (m-1)*n+c, JBC[r*n+c])
		}
	}
	bm = D.ToBanded(kl, ku)
	return
}
