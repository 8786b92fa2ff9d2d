package BVP1D

import (
	"errors"
	"fmt"

	"github.com/notargets/filmbvp/utils"
)

/*
Problem is a first order ODE system y' = f(x, y) on an interval, closed by
separated two point boundary conditions. The left and right condition
writers fill r with their residuals and return the count written; together
they must supply exactly NVars conditions.
*/
type Problem struct {
	NVars   int
	RHS     func(x float64, y, f []float64)
	BCLeft  func(ya, r []float64) int
	BCRight func(yb, r []float64) int
}

type Params struct {
	Tol      float64 // Collocation residual tolerance
	BCTol    float64 // Boundary residual tolerance, zero means Tol
	MaxNodes int     // Mesh growth budget
	MaxIter  int     // Mesh refinement iteration cap
	Verbose  bool
}

func NewParams() Params {
	return Params{
		Tol:      1.e-3,
		MaxNodes: 1000,
		MaxIter:  10,
	}
}

var (
	ErrInvalidSystem = errors.New("invalid problem system")
	ErrInvalidMesh   = errors.New("invalid mesh")
	ErrInvalidGuess  = errors.New("invalid guess")
	ErrInvalidParam  = errors.New("invalid parameter")
)

// validate rejects a malformed configuration before any work starts and
// normalizes the tolerances. The BC writers are probed once on the guess
// endpoints to count the separated conditions.
func validate(prob Problem, x utils.Vector, y utils.Matrix, prm *Params) (a, b int, err error) {
	if prob.NVars < 1 {
		err = fmt.Errorf("%w: NVars = %d", ErrInvalidSystem, prob.NVars)
		return
	}
	if prob.RHS == nil || prob.BCLeft == nil || prob.BCRight == nil {
		err = fmt.Errorf("%w: RHS and both BC writers are required", ErrInvalidSystem)
		return
	}
	var (
		n = prob.NVars
		m = x.Len()
	)
	if m < 2 {
		err = fmt.Errorf("%w: need at least 2 mesh nodes, have %d", ErrInvalidMesh, m)
		return
	}
	if bad := utils.NewVector(m-1, utils.Diff(x.DataP())).Find(utils.LessOrEqual, 0, false); len(bad) != 0 {
		err = fmt.Errorf("%w: mesh must be strictly increasing, first violation at interval %d", ErrInvalidMesh, bad[0])
		return
	}
	if nr, nc := y.Dims(); nr != n || nc != m {
		err = fmt.Errorf("%w: guess shape %d x %d, want %d x %d", ErrInvalidGuess, nr, nc, n, m)
		return
	}
	if prm.Tol <= 0 {
		err = fmt.Errorf("%w: Tol = %v", ErrInvalidParam, prm.Tol)
		return
	}
	if prm.BCTol < 0 {
		err = fmt.Errorf("%w: BCTol = %v", ErrInvalidParam, prm.BCTol)
		return
	}
	if prm.MaxNodes < m {
		err = fmt.Errorf("%w: MaxNodes = %d is below the starting mesh size %d", ErrInvalidParam, prm.MaxNodes, m)
		return
	}
	if prm.MaxIter < 1 {
		err = fmt.Errorf("%w: MaxIter = %d", ErrInvalidParam, prm.MaxIter)
		return
	}
	if prm.Tol < 100*utils.EPS {
		prm.Tol = 100 * utils.EPS
		if prm.Verbose {
			fmt.Printf("Tolerance raised to %v, the smallest the residual estimate supports\n", prm.Tol)
		}
	}
	if prm.BCTol == 0 {
		prm.BCTol = prm.Tol
	}
	rTmp := make([]float64, n)
	a = prob.BCLeft(y.Col(0).DataP(), rTmp)
	b = prob.BCRight(y.Col(-1).DataP(), rTmp)
	if a < 0 || b < 0 || a+b != n {
		err = fmt.Errorf("%w: %d left and %d right boundary conditions for %d variables", ErrInvalidSystem, a, b, n)
		return
	}
	return
}
