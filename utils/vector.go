package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (V Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	V = Vector{v}
	return
}

func NewVectorConstant(n int, val float64) (V Vector) {
	return NewVector(n, ConstArray(n, val))
}

func NewVectorLinspace(xmin, xmax float64, n int) (V Vector) {
	var (
		x = make([]float64, n)
	)
	floats.Span(x, xmin, xmax)
	V = NewVector(n, x)
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

func (v Vector) DataP() []float64 { return v.V.RawVector().Data }

func (v Vector) Copy() (R Vector) { // Does not change receiver
	var (
		data  = v.DataP()
		dataR = make([]float64, v.Len())
	)
	copy(dataR, data)
	R = NewVector(v.Len(), dataR)
	return
}

// Chainable (extended) methods
func (v Vector) Set(val float64) Vector { // Changes receiver
	var (
		data = v.DataP()
	)
	for i := range data {
		data[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	var (
		data = v.DataP()
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	var (
		data = v.DataP()
	)
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	var (
		data  = v.DataP()
		dataA = a.DataP()
	)
	for i := range data {
		data[i] += dataA[i]
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	var (
		data  = v.DataP()
		dataA = a.DataP()
	)
	for i := range data {
		data[i] -= dataA[i]
	}
	return v
}

func (v Vector) ElMul(a Vector) Vector { // Changes receiver
	var (
		data  = v.DataP()
		dataA = a.DataP()
	)
	for i := range data {
		data[i] *= dataA[i]
	}
	return v
}

func (v Vector) ElDiv(a Vector) Vector { // Changes receiver
	var (
		data  = v.DataP()
		dataA = a.DataP()
	)
	for i := range data {
		data[i] /= dataA[i]
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	var (
		data = v.DataP()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector { // Changes receiver
	var (
		data = v.DataP()
	)
	for i, val := range data {
		data[i] = POW(val, p)
	}
	return v
}

func (v Vector) Min() (min float64) {
	var (
		data = v.DataP()
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.DataP()
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Find(op EvalOp, target float64, abs bool) (I Index) {
	var (
		data = v.DataP()
	)
	for i, val := range data {
		if abs {
			val = math.Abs(val)
		}
		switch op {
		case Equal:
			if val == target {
				I = append(I, i)
			}
		case Less:
			if val < target {
				I = append(I, i)
			}
		case Greater:
			if val > target {
				I = append(I, i)
			}
		case LessOrEqual:
			if val <= target {
				I = append(I, i)
			}
		case GreaterOrEqual:
			if val >= target {
				I = append(I, i)
			}
		}
	}
	return
}
