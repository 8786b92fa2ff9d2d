package ThinFilm1D

import (
	"fmt"

	"github.com/notargets/filmbvp/InputParameters"
	"github.com/notargets/filmbvp/utils"
)

type GuessKind uint8

const (
	LinearGuess GuessKind = iota // h = x, the inlet wedge continued
	ShapedGuess                  // h = x - (x/L)^3, curvature dying toward L
)

func (g GuessKind) String() string {
	switch g {
	case LinearGuess:
		return "linear"
	case ShapedGuess:
		return "shaped"
	}
	return "unknown"
}

// GuessKindOf maps a configured guess name onto its kind.
func GuessKindOf(name string) (kind GuessKind, err error) {
	switch name {
	case "linear":
		kind = LinearGuess
	case "shaped":
		kind = ShapedGuess
	default:
		err = fmt.Errorf("Guess = %q: %w", name, InputParameters.ErrUnknownOption)
	}
	return
}

// GuessOnMesh fills the three state rows h, h', h'' on an existing mesh,
// reading the domain length off its last node. The shaped guess
// differentiates its profile numerically so the rows stay consistent on
// the discrete mesh, uniform or not.
func GuessOnMesh(kind GuessKind, x utils.Vector) (y utils.Matrix) {
	var (
		N = x.Len()
		L = x.AtVec(N - 1)
	)
	y = utils.NewMatrix(3, N)
	switch kind {
	case ShapedGuess:
		h := x.Copy().Apply(func(xq float64) float64 {
			s := xq / L
			return xq - s*s*s
		})
		hp := utils.Gradient(h, x)
		hpp := utils.Gradient(hp, x)
		y.SetRow(0, h.DataP())
		y.SetRow(1, hp.DataP())
		y.SetRow(2, hpp.DataP())
	default:
		y.SetRow(0, x.DataP())
		y.SetRow(1, utils.ConstArray(N, 1))
	}
	return
}

// BuildGuess lays a uniform N node mesh on [0, L] and fills the state rows.
func BuildGuess(kind GuessKind, L float64, N int) (x utils.Vector, y utils.Matrix) {
	x = utils.NewVectorLinspace(0, L, N)
	y = GuessOnMesh(kind, x)
	return
}

// WarmGuess resamples a prior solution onto a fresh uniform mesh on
// [0, L]. Beyond the prior domain the film continues at its terminal
// slope with zero curvature, which is exactly the far field shape the
// longer run is after.
func WarmGuess(prior *Result, L float64, N int) (x utils.Vector, y utils.Matrix) {
	var (
		xOld = prior.X.DataP()
		LOld = xOld[len(xOld)-1]
	)
	x = utils.NewVectorLinspace(0, L, N)
	y = utils.NewMatrix(3, N)
	yb := prior.At(LOld)
	for j, xq := range x.DataP() {
		if xq <= LOld {
			yq := prior.At(xq)
			y.Set(0, j, yq[0]).Set(1, j, yq[1]).Set(2, j, yq[2])
		} else {
			y.Set(0, j, yb[0]+yb[1]*(xq-LOld)).Set(1, j, yb[1])
		}
	}
	return
}
