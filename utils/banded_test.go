package utils

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandedMatrix(t *testing.T) {
	// Band storage addressing
	{
		bm := NewBandedMatrix(4, 1, 1)
		bm.Set(0, 0, 1).Set(0, 1, 2).Set(1, 0, 3)
		assert.Equal(t, 1., bm.At(0, 0))
		assert.Equal(t, 2., bm.At(0, 1))
		assert.Equal(t, 3., bm.At(1, 0))
		assert.Equal(t, 0., bm.At(0, 3)) // Outside the band
		assert.True(t, bm.InBand(2, 1))
		assert.False(t, bm.InBand(0, 2))
		assert.Panics(t, func() { bm.Set(0, 2, 1) })
		assert.Panics(t, func() { NewBandedMatrix(2, 2, 0) })
	}
	// Dense expansion
	{
		bm := NewBandedMatrix(3, 1, 0)
		bm.Set(0, 0, 1).Set(1, 1, 2).Set(2, 2, 3).Set(1, 0, 4).Set(2, 1, 5)
		D := bm.Dense()
		assert.Equal(t, []float64{1, 0, 0, 4, 2, 0, 0, 5, 3}, D.DataP())
	}
	// Factor and solve a tridiagonal system against the dense inverse
	{
		n := 8
		bm := NewBandedMatrix(n, 1, 1)
		D := NewMatrix(n, n)
		for i := 0; i < n; i++ {
			bm.Set(i, i, 4)
			D.Set(i, i, 4)
			if i > 0 {
				bm.Set(i, i-1, 1)
				D.Set(i, i-1, 1)
			}
			if i < n-1 {
				bm.Set(i, i+1, 2)
				D.Set(i, i+1, 2)
			}
		}
		b := make([]float64, n)
		for i := range b {
			b[i] = float64(i + 1)
		}
		assert.NoError(t, bm.LUFactor())
		x := bm.LUSolve(b)
		DInv, err := D.Inverse()
		assert.NoError(t, err)
		xD := DInv.Mul(NewMatrix(n, 1, b))
		assert.True(t, nearVec(xD.DataP(), x, 1.e-12))
	}
	// Pivoting kicks in when the leading diagonal entry vanishes
	{
		bm := NewBandedMatrix(2, 1, 1)
		bm.Set(0, 0, 0).Set(0, 1, 1).Set(1, 0, 1).Set(1, 1, 1)
		assert.NoError(t, bm.LUFactor())
		x := bm.LUSolve([]float64{1, 3})
		assert.True(t, nearVec([]float64{2, 1}, x, 1.e-14))
	}
	// Singular matrices are reported, and refactoring is refused
	{
		bm := NewBandedMatrix(2, 0, 0)
		bm.Set(0, 0, 1) // Leaves the second diagonal entry zero
		assert.Error(t, bm.LUFactor())

		bm2 := NewBandedMatrix(2, 0, 0)
		bm2.Set(0, 0, 1).Set(1, 1, 1)
		assert.NoError(t, bm2.LUFactor())
		assert.Error(t, bm2.LUFactor())
		assert.Panics(t, func() { NewBandedMatrix(2, 0, 0).LUSolve([]float64{1, 1}) })
		assert.Panics(t, func() { bm2.LUSolve([]float64{1}) })
	}
	// Wide band with fill-in reproduces the dense solution
	{
		n, kl, ku := 12, 4, 3
		rnd := rand.New(rand.NewSource(42))
		bm := NewBandedMatrix(n, kl, ku)
		D := NewMatrix(n, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if bm.InBand(i, j) {
					v := rnd.Float64() - 0.5
					if i == j {
						v += 4 // Diagonal dominance keeps the system well conditioned
					}
					bm.Set(i, j, v)
					D.Set(i, j, v)
				}
			}
		}
		b := make([]float64, n)
		for i := range b {
			b[i] = rnd.Float64()
		}
		assert.NoError(t, bm.LUFactor())
		x := bm.LUSolve(b)
		DInv, err := D.Inverse()
		assert.NoError(t, err)
		xD := DInv.Mul(NewMatrix(n, 1, b))
		assert.True(t, nearVec(xD.DataP(), x, 1.e-10))
	}
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
