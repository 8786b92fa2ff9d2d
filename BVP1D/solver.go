package BVP1D

import (
	"fmt"

	"github.com/notargets/filmbvp/utils"
)

/*
Solve runs the adaptive collocation algorithm: solve the nonlinear
collocation system on the current mesh by damped Newton, estimate the
normalized RMS residual of the resulting interpolant on every interval,
insert nodes where the estimate exceeds Tol (one midpoint, or two points
at the thirds when the estimate is 100x over), and repeat. Terminates with
a status on the Solution, never an error, once the residuals converge, the
node budget or iteration cap is exhausted, or a Newton matrix factors
singular.

The guess y has one row per variable and one column per node of x.
Configuration problems are returned as errors before any work starts.
*/
func Solve(prob Problem, x utils.Vector, y utils.Matrix, prm Params) (sol *Solution, err error) {
	var (
		a, b int
	)
	if a, b, err = validate(prob, x, y, &prm); err != nil {
		return
	}
	var (
		n     = prob.NVars
		xData = make([]float64, x.Len())
		yData = alloc2D(x.Len(), n)
	)
	copy(xData, x.DataP())
	for j := 0; j < x.Len(); j++ {
		for i := 0; i < n; i++ {
			yData[j][i] = y.At(i, j)
		}
	}
	if prm.Verbose {
		fmt.Printf("Solving %d equation BVP on [%v, %v]: %d nodes, %d left / %d right BCs, tol = %v, bc tol = %v, band (kl, ku) = (%d, %d)\n",
			n, xData[0], xData[len(xData)-1], len(xData), a, b, prm.Tol, prm.BCTol, n+a-1, 2*n-1-a)
	}
	var (
		status    SolveStatus
		iteration int
		cs        *colSystem
		s         *spline
		rms       []float64
	)
	for {
		m := len(xData)
		cs = newColSystem(n, a, xData, yData)
		singular := cs.solveNewton(prob, prm)
		iteration++
		// cs holds the final Newton iterate; carry it forward so a repeat
		// pass on an unchanged mesh resumes from it
		yData = cs.y
		maxBC := cs.maxBCRes()
		s = newSpline(n, cs.x, cs.y, cs.f)
		rms = cs.estimateRMS(prob, s)
		if singular {
			status = SingularJacobian
			break
		}
		var (
			insert1, insert2 utils.Index
			maxRMS           float64
		)
		for j, r := range rms {
			if r > maxRMS {
				maxRMS = r
			}
			if r > prm.Tol && r < 100*prm.Tol {
				insert1 = append(insert1, j)
			} else if r >= 100*prm.Tol {
				insert2 = append(insert2, j)
			}
		}
		nodesAdded := len(insert1) + 2*len(insert2)
		if m+nodesAdded > prm.MaxNodes {
			status = MaxNodesExceeded
			if prm.Verbose {
				fmt.Printf("iteration %4d: max rms residual = %10.2e, max bc residual = %10.2e, nodes = %6d, budget blocks adding %d\n",
					iteration, maxRMS, maxBC, m, nodesAdded)
			}
			break
		}
		if prm.Verbose {
			fmt.Printf("iteration %4d: max rms residual = %10.2e, max bc residual = %10.2e, nodes = %6d, added = %5d\n",
				iteration, maxRMS, maxBC, m, nodesAdded)
		}
		if nodesAdded > 0 {
			xData = modifyMesh(xData, insert1, insert2)
			yData = resample(s, n, xData)
		} else if maxBC <= prm.BCTol {
			status = Converged
			break
		} else if iteration >= prm.MaxIter {
			status = BCNotSatisfied
			break
		}
	}
	if prm.Verbose {
		if status == Converged {
			fmt.Printf("Solved in %d iterations with %d nodes\n", iteration, len(cs.x))
		} else {
			fmt.Printf("Stopped after %d iterations with %d nodes: %s\n", iteration, len(cs.x), statusMessages[status])
		}
	}
	sol = &Solution{
		X:            utils.NewVector(len(cs.x), cs.x),
		Y:            stateMatrix(n, cs.y),
		F:            stateMatrix(n, cs.f),
		RMSResiduals: utils.NewVector(len(rms), rms),
		Niter:        iteration,
		Status:       status,
		Message:      statusMessages[status],
		interp:       s,
	}
	return
}

/*
modifyMesh inserts one midpoint into every interval listed in insert1 and
two points at the thirds into every interval listed in insert2. The lists
are ascending and disjoint, so the refined mesh is built in one ordered
pass.
*/
func modifyMesh(x []float64, insert1, insert2 utils.Index) (xNew []float64) {
	var (
		i1, i2 int
	)
	xNew = make([]float64, 0, len(x)+len(insert1)+2*len(insert2))
	for j := 0; j < len(x)-1; j++ {
		xNew = append(xNew, x[j])
		switch {
		case i1 < len(insert1) && insert1[i1] == j:
			xNew = append(xNew, 0.5*(x[j]+x[j+1]))
			i1++
		case i2 < len(insert2) && insert2[i2] == j:
			xNew = append(xNew, (2.*x[j]+x[j+1])/3., (x[j]+2.*x[j+1])/3.)
			i2++
		}
	}
	xNew = append(xNew, x[len(x)-1])
	return
}

// resample evaluates the interpolant on a refined mesh as the next guess.
func resample(s *spline, n int, x []float64) (y [][]float64) {
	y = alloc2D(len(x), n)
	for j := range x {
		s.At(x[j], y[j])
	}
	return
}

func stateMatrix(n int, y [][]float64) (Y utils.Matrix) {
	var (
		m    = len(y)
		data = make([]float64, n*m)
	)
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			data[i*m+j] = y[j][i]
		}
	}
	Y = utils.NewMatrix(n, m, data)
	return
}
