package BVP1D

import (
	"sort"

	"github.com/notargets/filmbvp/utils"
)

type SolveStatus int

const (
	Converged SolveStatus = iota
	MaxNodesExceeded
	SingularJacobian
	BCNotSatisfied
)

var (
	statusNames = []string{
		"Converged",
		"MaxNodesExceeded",
		"SingularJacobian",
		"BCNotSatisfied",
	}
	statusMessages = []string{
		"converged to the requested tolerances",
		"mesh growth exceeded the node budget",
		"singular Jacobian encountered in the collocation system",
		"boundary condition residuals failed to meet tolerance",
	}
)

func (ss SolveStatus) String() string {
	if ss < 0 || int(ss) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[ss]
}

/*
Solution is the result of one collocation solve: the final mesh, the state
and its derivative at the mesh nodes, and the piecewise cubic interpolant
matching them. Non convergence is reported through Status, never an error,
so callers always receive the best available profile.
*/
type Solution struct {
	X            utils.Vector // Final mesh, strictly increasing
	Y            utils.Matrix // Row i holds variable i over the mesh
	F            utils.Matrix // RHS values matching Y node for node
	RMSResiduals utils.Vector // Normalized residual estimate per interval
	Niter        int          // Mesh refinement iterations performed
	Status       SolveStatus
	Message      string
	interp       *spline
}

func (sol *Solution) Success() bool {
	return sol.Status == Converged
}

// At evaluates the interpolated state at a point, extrapolating with the
// boundary cubics outside the mesh.
func (sol *Solution) At(x float64) (y []float64) {
	y = make([]float64, sol.interp.n)
	sol.interp.At(x, y)
	return
}

// Deriv evaluates the first derivative of the interpolant at a point.
func (sol *Solution) Deriv(x float64) (yp []float64) {
	yp = make([]float64, sol.interp.n)
	sol.interp.Deriv(x, yp)
	return
}

// Eval samples the interpolated state on a grid, one row per variable.
func (sol *Solution) Eval(xs []float64) (Y utils.Matrix) {
	var (
		n    = sol.interp.n
		y    = make([]float64, n)
		data = make([]float64, n*len(xs))
	)
	for j, x := range xs {
		sol.interp.At(x, y)
		for i := 0; i < n; i++ {
			data[i*len(xs)+j] = y[i]
		}
	}
	Y = utils.NewMatrix(n, len(xs), data)
	return
}

// EvalDeriv samples the first derivative of the interpolant on a grid.
func (sol *Solution) EvalDeriv(xs []float64) (Yp utils.Matrix) {
	var (
		n    = sol.interp.n
		yp   = make([]float64, n)
		data = make([]float64, n*len(xs))
	)
	for j, x := range xs {
		sol.interp.Deriv(x, yp)
		for i := 0; i < n; i++ {
			data[i*len(xs)+j] = yp[i]
		}
	}
	Yp = utils.NewMatrix(n, len(xs), data)
	return
}

/*
spline is the C1 piecewise cubic matching the node values y and node
derivatives f of every variable, the interpolant whose residual drives mesh
refinement. Coefficients are stored per interval in the local offset
d = x - x[j]:

	S(x[j]+d) = ((c0*d + c1)*d + c2)*d + c3
*/
type spline struct {
	n              int
	x              []float64
	c0, c1, c2, c3 [][]float64
}

func newSpline(n int, x []float64, y, f [][]float64) (s *spline) {
	var (
		m = len(x)
	)
	s = &spline{
		n:  n,
		x:  x,
		c0: make([][]float64, m-1),
		c1: make([][]float64, m-1),
		c2: make([][]float64, m-1),
		c3: make([][]float64, m-1),
	}
	for j := 0; j < m-1; j++ {
		h := x[j+1] - x[j]
		s.c0[j] = make([]float64, n)
		s.c1[j] = make([]float64, n)
		s.c2[j] = make([]float64, n)
		s.c3[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			slope := (y[j+1][i] - y[j][i]) / h
			t := (f[j][i] + f[j+1][i] - 2.*slope) / h
			s.c0[j][i] = t / h
			s.c1[j][i] = (slope - f[j][i]) / h - t
			s.c2[j][i] = f[j][i]
			s.c3[j][i] = y[j][i]
		}
	}
	return
}

// findInterval locates the interval containing x, clamped to the boundary
// intervals so that queries outside the mesh extrapolate.
func (s *spline) findInterval(x float64) (j int) {
	j = sort.SearchFloat64s(s.x, x) - 1
	if j < 0 {
		j = 0
	}
	if j > len(s.x)-2 {
		j = len(s.x) - 2
	}
	return
}

func (s *spline) At(x float64, y []float64) {
	var (
		j = s.findInterval(x)
		d = x - s.x[j]
	)
	for i := 0; i < s.n; i++ {
		y[i] = ((s.c0[j][i]*d+s.c1[j][i])*d+s.c2[j][i])*d + s.c3[j][i]
	}
}

func (s *spline) Deriv(x float64, yp []float64) {
	var (
		j = s.findInterval(x)
		d = x - s.x[j]
	)
	for i := 0; i < s.n; i++ {
		yp[i] = (3.*s.c0[j][i]*d+2.*s.c1[j][i])*d + s.c2[j][i]
	}
}
