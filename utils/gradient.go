package utils

import "fmt"

/*
Gradient estimates dF/dX on a possibly nonuniform mesh using second order
central differences in the interior and first order one sided differences at
the two ends. For interior node i with backward spacing hs and forward
spacing hd:

	F'_i = (hs^2*F_{i+1} + (hd^2-hs^2)*F_i - hd^2*F_{i-1}) / (hs*hd*(hd+hs))
*/
func Gradient(F, X Vector) (D Vector) {
	var (
		n  = F.Len()
		f  = F.DataP()
		x  = X.DataP()
		df = make([]float64, n)
	)
	if X.Len() != n || n < 2 {
		err := fmt.Errorf("gradient needs two matching coordinate and value vectors, got %v and %v", n, X.Len())
		panic(err)
	}
	df[0] = (f[1] - f[0]) / (x[1] - x[0])
	df[n-1] = (f[n-1] - f[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		hs := x[i] - x[i-1]
		hd := x[i+1] - x[i]
		df[i] = (hs*hs*f[i+1] + (hd*hd-hs*hs)*f[i] - hd*hd*f[i-1]) / (hs * hd * (hd + hs))
	}
	D = NewVector(n, df)
	return
}
