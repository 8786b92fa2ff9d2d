package ThinFilm1D

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/notargets/filmbvp/BVP1D"
	"github.com/notargets/filmbvp/utils"
)

/*
CoxVoinov is the closed form slope asymptote for the spreading film,

	theta(x)^3 = 1 + 3k ln(e x)

valid away from the contact line where the profile is nearly a wedge of
slowly varying slope. No derivation here, just evaluation against the
computed profile.
*/
type CoxVoinov struct {
	K float64
}

func (cv CoxVoinov) ThetaCubed(x float64) float64 {
	return 1. + 3.*cv.K*math.Log(math.E*x)
}

func (cv CoxVoinov) Theta(x float64) float64 {
	return math.Cbrt(cv.ThetaCubed(x))
}

func (cv CoxVoinov) DThetaDX(x float64) float64 {
	theta := cv.Theta(x)
	return cv.K / (x * theta * theta)
}

// Compare returns the pointwise |h'(x) - theta(x)| over xs.
func (cv CoxVoinov) Compare(sol *BVP1D.Solution, xs []float64) (dev utils.Vector) {
	dev = utils.NewVector(len(xs))
	d := dev.DataP()
	for j, xq := range xs {
		d[j] = math.Abs(sol.At(xq)[1] - cv.Theta(xq))
	}
	return
}

// DecayFit regresses log|h''| against log x on [xlo, xhi] and returns
// the fitted exponent. On an intermediate window 1 << x << L the film
// curvature decays like k/x, so the exponent sits near -1. Points where
// the curvature has already crossed zero are skipped.
func DecayFit(sol *BVP1D.Solution, xlo, xhi float64, npts int) (slope float64) {
	var (
		lx, ly []float64
	)
	for _, xq := range utils.NewVectorLinspace(xlo, xhi, npts).DataP() {
		hpp := math.Abs(sol.At(xq)[2])
		if hpp == 0 {
			continue
		}
		lx = append(lx, math.Log(xq))
		ly = append(ly, math.Log(hpp))
	}
	_, slope = stat.LinearRegression(lx, ly, nil, false)
	return
}
