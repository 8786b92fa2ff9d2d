package ThinFilm1D

import (
	"fmt"
	"math"

	"github.com/notargets/filmbvp/BVP1D"
	"github.com/notargets/filmbvp/InputParameters"
	"github.com/notargets/filmbvp/utils"
)

type BCVariant uint8

const (
	FarFieldCurvature BCVariant = iota // h(0)=0, h'(0)=1, h''(L)=0
	OriginCurvature                    // h(0)=0, h'(0)=1, h''(0)=0
)

func (bv BCVariant) String() string {
	switch bv {
	case FarFieldCurvature:
		return "farfield"
	case OriginCurvature:
		return "origin"
	}
	return "unknown"
}

/*
ThinFilm is the stationary spreading film profile equation

	h''' = -k / (h*h + h + eps)

reduced to the first order system y0=h, y1=h', y2=h''. The denominator
vanishes as h -> 0, so eps keeps the forcing finite at the contact line
and the solver tracks how close a profile comes to that floor.
*/
type ThinFilm struct {
	K, Epsilon  float64
	Variant     BCVariant
	FarFieldTol float64 // 0 means use the solver tolerance
}

func New(k, eps float64, variantO ...BCVariant) (tf *ThinFilm) {
	tf = &ThinFilm{
		K:       k,
		Epsilon: eps,
	}
	if len(variantO) > 0 {
		tf.Variant = variantO[0]
	}
	return
}

func NewFromParameters(ip InputParameters.Parameters) (tf *ThinFilm, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	tf = New(ip.K, ip.Epsilon)
	if ip.BCVariant == "origin" {
		tf.Variant = OriginCurvature
	}
	tf.FarFieldTol = ip.FarFieldTol
	return
}

// SolverParams maps the collocation knobs of a parsed configuration onto
// solver parameters.
func SolverParams(ip InputParameters.Parameters) (prm BVP1D.Params) {
	prm = BVP1D.Params{
		Tol:      ip.Tol,
		BCTol:    ip.BCTol,
		MaxNodes: ip.MaxNodes,
		MaxIter:  ip.MaxIterations,
		Verbose:  ip.Verbose,
	}
	return
}

// SolveFromParameters runs one solve with the film, guess and solver knobs
// taken from the parsed configuration.
func SolveFromParameters(ip InputParameters.Parameters) (res *Result, err error) {
	tf, err := NewFromParameters(ip)
	if err != nil {
		return
	}
	kind, err := GuessKindOf(ip.Guess)
	if err != nil {
		return
	}
	return tf.Solve(ip.L, ip.N, kind, SolverParams(ip))
}

func (tf *ThinFilm) RHS(x float64, y, f []float64) {
	f[0] = y[1]
	f[1] = y[2]
	f[2] = -tf.K / tf.Denominator(y[0])
}

func (tf *ThinFilm) Denominator(h float64) float64 {
	return h*h + h + tf.Epsilon
}

// Problem binds the film system and its boundary conditions to the
// collocation solver interface.
func (tf *ThinFilm) Problem() (prob BVP1D.Problem) {
	prob = BVP1D.Problem{
		NVars: 3,
		RHS:   tf.RHS,
	}
	switch tf.Variant {
	case OriginCurvature:
		prob.BCLeft = func(ya, r []float64) int {
			r[0] = ya[0]
			r[1] = ya[1] - 1.
			r[2] = ya[2]
			return 3
		}
		prob.BCRight = func(yb, r []float64) int {
			return 0
		}
	default:
		prob.BCLeft = func(ya, r []float64) int {
			r[0] = ya[0]
			r[1] = ya[1] - 1.
			return 2
		}
		prob.BCRight = func(yb, r []float64) int {
			r[0] = yb[2]
			return 1
		}
	}
	return
}

/*
Result couples a collocation solution with the film diagnostics: how close
the profile came to the singular denominator, and whether the truncated
domain actually carried the far field condition. A run that converged on a
domain too short to flatten out is not usable for studies.
*/
type Result struct {
	*BVP1D.Solution
	Variant            BCVariant
	L                  float64
	NInitial           int
	NodesFinal         int
	DenomFloor         float64 // min of h*h+h+eps over the final mesh
	SingularityRisk    bool    // floor dipped below eps/2
	FarFieldResidual   float64 // |h'''(L)| left unresolved by truncation
	TruncationAdequate bool
}

// Successful reports a run whose profile a study may use. The origin
// variant imposes nothing at L, so only the far field variant is held to
// the truncation check.
func (r *Result) Successful() bool {
	if r.Status != BVP1D.Converged {
		return false
	}
	return r.TruncationAdequate || r.Variant == OriginCurvature
}

// Solve lays down a fresh guess of the given kind on [0, L] with N nodes
// and runs the collocation solver.
func (tf *ThinFilm) Solve(L float64, N int, kind GuessKind, prm BVP1D.Params) (res *Result, err error) {
	x, y := BuildGuess(kind, L, N)
	return tf.SolveGuess(x, y, prm)
}

// SolveGuess runs the collocation solver from an explicit guess, e.g. a
// warm start resampled from a previous run. Epsilon = 0 reintroduces the
// h = 0 singularity, so a non positive Epsilon is rejected up front.
func (tf *ThinFilm) SolveGuess(x utils.Vector, y utils.Matrix, prm BVP1D.Params) (res *Result, err error) {
	if tf.Epsilon <= 0 {
		err = fmt.Errorf("Epsilon = %v: %w", tf.Epsilon, InputParameters.ErrParamOutOfRange)
		return
	}
	sol, err := BVP1D.Solve(tf.Problem(), x, y, prm)
	if err != nil {
		return
	}
	var (
		m     = sol.X.Len()
		floor = math.Inf(1)
	)
	for i := 0; i < m; i++ {
		if d := tf.Denominator(sol.Y.At(0, i)); d < floor {
			floor = d
		}
	}
	ffTol := tf.FarFieldTol
	if ffTol == 0 {
		ffTol = prm.Tol
	}
	res = &Result{
		Solution:         sol,
		Variant:          tf.Variant,
		L:                x.AtVec(x.Len() - 1),
		NInitial:         x.Len(),
		NodesFinal:       m,
		DenomFloor:       floor,
		SingularityRisk:  floor < 0.5*tf.Epsilon,
		FarFieldResidual: math.Abs(tf.K / tf.Denominator(sol.Y.At(0, m-1))),
	}
	res.TruncationAdequate = res.FarFieldResidual <= ffTol
	return
}
