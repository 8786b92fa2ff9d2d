package ThinFilm1D

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/filmbvp/BVP1D"
	"github.com/notargets/filmbvp/InputParameters"
	"github.com/notargets/filmbvp/utils"
)

// Baseline spreading profile on [0, 50]: the run the studies branch from.
func TestFilmProfile(t *testing.T) {
	var (
		tf  = New(0.01, 1.e-6)
		prm = BVP1D.NewParams()
	)
	prm.Tol = 1.e-4
	prm.MaxNodes = 10000
	res, err := tf.Solve(50, 500, LinearGuess, prm)
	assert.NoError(t, err)
	assert.Equal(t, BVP1D.Converged, res.Status)
	assert.True(t, res.Successful())
	assert.True(t, res.TruncationAdequate)
	assert.True(t, res.FarFieldResidual <= prm.Tol)
	// Boundary conditions carried onto the profile
	y0 := res.At(0)
	assert.True(t, near(0, y0[0], 1.e-6))
	assert.True(t, near(1, y0[1], 1.e-6))
	assert.True(t, near(0, res.At(50)[2], 1.e-6))
	// Slope grows monotonically toward the far field
	hp := res.Y.Row(1)
	dhp := utils.NewVector(hp.Len()-1, utils.Diff(hp.DataP()))
	assert.Empty(t, dhp.Find(utils.Less, -1.e-5, false))
	assert.True(t, res.At(50)[1] > res.At(25)[1] && res.At(25)[1] > res.At(1)[1])
	// The contact line pins the denominator at its floor without crossing
	assert.False(t, res.SingularityRisk)
	assert.True(t, res.DenomFloor < 1.e-5)
	// Away from the contact line the slope follows the Cox Voinov law
	cv := CoxVoinov{K: tf.K}
	xs := utils.NewVectorLinspace(10, 40, 100).DataP()
	assert.True(t, cv.Compare(res.Solution, xs).Max() < 0.05)
	assert.True(t, res.NodesFinal >= res.NInitial && res.NodesFinal <= prm.MaxNodes)
	assert.True(t, res.Niter >= 1)
}

// Cutting at L=0.01 leaves the forcing order one at the boundary. The
// run must report the truncation as inadequate whether or not the
// collocation converged on the short domain.
func TestFilmTruncationTooShort(t *testing.T) {
	var (
		tf  = New(0.01, 1.e-6)
		prm = BVP1D.NewParams()
	)
	prm.Tol = 1.e-4
	prm.MaxNodes = 500
	res, err := tf.Solve(0.01, 50, LinearGuess, prm)
	assert.NoError(t, err)
	assert.False(t, res.Successful())
	assert.False(t, res.TruncationAdequate)
	assert.True(t, res.FarFieldResidual > 0.3)
}

// Anchoring the curvature at the origin instead of the far field turns
// the problem into a marching one: all conditions on the left, slope
// decaying downstream.
func TestFilmOriginCurvature(t *testing.T) {
	var (
		tf  = New(0.01, 1.e-6, OriginCurvature)
		prm = BVP1D.NewParams()
	)
	prm.Tol = 1.e-4
	prm.MaxNodes = 10000
	res, err := tf.Solve(1, 100, LinearGuess, prm)
	assert.NoError(t, err)
	assert.Equal(t, BVP1D.Converged, res.Status)
	assert.True(t, res.Successful()) // no far field condition to carry
	y0 := res.At(0)
	assert.True(t, near(0, y0[0], 1.e-6))
	assert.True(t, near(1, y0[1], 1.e-6))
	assert.True(t, near(0, y0[2], 1.e-6))
	y1 := res.At(1)
	assert.True(t, y1[1] > 0.8 && y1[1] < 0.95)
	assert.True(t, y1[2] < 0)
	assert.False(t, res.SingularityRisk)
}

// A larger eps damps the forcing strictly, most visibly where the film
// is thin. eps <= 0 would reintroduce the h = 0 singularity and is
// rejected before any solve.
func TestFilmRegularization(t *testing.T) {
	var (
		weak   = New(0.01, 1.e-4)
		strong = New(0.01, 1.e-2)
		f1     = make([]float64, 3)
		f2     = make([]float64, 3)
	)
	for _, h := range []float64{0, 1.e-8, 1.e-6, 1.e-4, 1.e-2, 0.5} {
		y := []float64{h, 1, 0}
		weak.RHS(0, y, f1)
		strong.RHS(0, y, f2)
		assert.True(t, math.Abs(f2[2]) < math.Abs(f1[2]))
		assert.Equal(t, -0.01/weak.Denominator(h), f1[2])
		assert.Equal(t, 1., f1[0])
		assert.Equal(t, 0., f1[1])
	}
	for _, eps := range []float64{0, -1.e-6} {
		_, err := New(0.01, eps).Solve(1, 20, LinearGuess, BVP1D.NewParams())
		assert.True(t, errors.Is(err, InputParameters.ErrParamOutOfRange))
	}
}

// Two identical solves share no state: the results match bit for bit and
// the caller's guess comes back untouched.
func TestFilmSolveIdempotent(t *testing.T) {
	var (
		tf  = New(0.01, 1.e-6)
		prm = BVP1D.NewParams()
	)
	prm.Tol = 1.e-4
	prm.MaxNodes = 10000
	x, y := BuildGuess(LinearGuess, 5, 80)
	yIn := append([]float64{}, y.DataP()...)
	r1, err := tf.SolveGuess(x, y, prm)
	assert.NoError(t, err)
	r2, err := tf.SolveGuess(x, y, prm)
	assert.NoError(t, err)
	assert.Equal(t, yIn, y.DataP())
	assert.Equal(t, r1.Status, r2.Status)
	assert.Equal(t, r1.Niter, r2.Niter)
	assert.Equal(t, r1.X.DataP(), r2.X.DataP())
	assert.Equal(t, r1.Y.DataP(), r2.Y.DataP())
	assert.Equal(t, r1.DenomFloor, r2.DenomFloor)
	assert.Equal(t, r1.FarFieldResidual, r2.FarFieldResidual)
}

func TestFilmGuesses(t *testing.T) {
	// Linear: a straight wedge at the inlet slope
	{
		x, y := BuildGuess(LinearGuess, 50, 11)
		assert.Equal(t, 11, x.Len())
		assert.True(t, nearVec(x.DataP(), y.Row(0).DataP(), 1.e-12))
		assert.True(t, near(1, y.At(1, 5), 1.e-12))
		assert.True(t, near(0, y.At(2, 5), 1.e-12))
	}
	// Shaped: h = x - (x/L)^3 with numerically consistent derivatives
	{
		L := 50.
		x, y := BuildGuess(ShapedGuess, L, 101)
		assert.True(t, near(0, y.At(0, 0), 1.e-12))
		assert.True(t, near(L-1, y.At(0, 100), 1.e-12))
		xq := x.AtVec(50)
		assert.True(t, near(1-3*xq*xq/(L*L*L), y.At(1, 50), 1.e-3))
		assert.True(t, near(-6*xq/(L*L*L), y.At(2, 50), 1.e-4))
	}
	// An existing nonuniform mesh: the builder reads L off the last node
	{
		x := utils.NewVector(5, []float64{0, 0.5, 2, 10, 40})
		y := GuessOnMesh(LinearGuess, x)
		assert.True(t, nearVec(x.DataP(), y.Row(0).DataP(), 1.e-12))
		assert.True(t, near(1, y.At(1, 3), 1.e-12))
		y = GuessOnMesh(ShapedGuess, x)
		assert.True(t, near(0, y.At(0, 0), 1.e-12))
		assert.True(t, near(39, y.At(0, 4), 1.e-12))
	}
	// Warm start: prior profile resampled, then continued at its
	// terminal slope with zero curvature
	{
		tf := New(0.01, 1.e-6)
		prm := BVP1D.NewParams()
		prm.MaxNodes = 10000
		res, err := tf.Solve(2, 50, LinearGuess, prm)
		assert.NoError(t, err)
		assert.Equal(t, BVP1D.Converged, res.Status)
		x, y := WarmGuess(res, 4, 60)
		assert.Equal(t, 60, x.Len())
		assert.True(t, near(4, x.AtVec(59), 1.e-12))
		yb := res.At(2)
		assert.True(t, near(yb[0]+2*yb[1], y.At(0, 59), 1.e-12))
		assert.True(t, near(yb[1], y.At(1, 59), 1.e-12))
		assert.True(t, near(0, y.At(2, 59), 1.e-12))
		j := 20 // inside the prior domain
		assert.True(t, nearVec(res.At(x.AtVec(j)), y.Col(j).DataP(), 1.e-12))
	}
}

func TestCoxVoinovClosedForm(t *testing.T) {
	cv := CoxVoinov{K: 0.01}
	assert.True(t, near(1.03, cv.ThetaCubed(1), 1.e-12))
	assert.True(t, near(1, cv.Theta(1/math.E), 1.e-12))
	theta := cv.Theta(1)
	assert.True(t, near(0.01/(theta*theta), cv.DThetaDX(1), 1.e-12))
	// The asymptote grows without bound, but slowly
	assert.True(t, cv.Theta(5000) > cv.Theta(50))
	assert.True(t, cv.Theta(5000) < 1.2)
}

func TestFilmFromParameters(t *testing.T) {
	ip := InputParameters.Defaults()
	ip.BCVariant = "origin"
	ip.FarFieldTol = 1.e-3
	tf, err := NewFromParameters(ip)
	assert.NoError(t, err)
	assert.Equal(t, OriginCurvature, tf.Variant)
	assert.Equal(t, 1.e-3, tf.FarFieldTol)
	assert.Equal(t, 0.01, tf.K)
	ip.Guess = "bogus"
	_, err = NewFromParameters(ip)
	assert.True(t, errors.Is(err, InputParameters.ErrUnknownOption))

	// Knob mapping onto the solver
	ip = InputParameters.Defaults()
	ip.Tol = 1.e-5
	ip.BCTol = 1.e-7
	ip.MaxNodes = 777
	ip.MaxIterations = 3
	prm := SolverParams(ip)
	assert.Equal(t, 1.e-5, prm.Tol)
	assert.Equal(t, 1.e-7, prm.BCTol)
	assert.Equal(t, 777, prm.MaxNodes)
	assert.Equal(t, 3, prm.MaxIter)
	kind, err := GuessKindOf("shaped")
	assert.NoError(t, err)
	assert.Equal(t, ShapedGuess, kind)
	_, err = GuessKindOf("cubic")
	assert.True(t, errors.Is(err, InputParameters.ErrUnknownOption))
}

// One configured run end to end: parse nothing, just the defaults with a
// shorter domain.
func TestFilmSolveFromParameters(t *testing.T) {
	ip := InputParameters.Defaults()
	ip.L = 20
	ip.N = 200
	ip.Guess = "shaped"
	res, err := SolveFromParameters(ip)
	assert.NoError(t, err)
	assert.True(t, res.Successful())
	assert.True(t, near(0, res.At(0)[0], 1.e-6))
	assert.True(t, near(1, res.At(0)[1], 1.e-6))
	assert.True(t, near(0, res.At(20)[2], 1.e-6))

	ip.N = 1 // rejected before any work
	_, err = SolveFromParameters(ip)
	assert.True(t, errors.Is(err, InputParameters.ErrParamOutOfRange))
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			fmt.Printf("Diff = %v, Left[%d] = %v, Right[%d] = %v\n", math.Abs(val-b[i]), i, val, i, b[i])
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
