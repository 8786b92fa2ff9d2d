package utils

import (
	"fmt"
	"math"
)

/*
BandedMatrix stores a square matrix with KL subdiagonals and KU superdiagonals
in the LAPACK general band layout: element (i,j) of the matrix lives at row
KL+KU+i-j, column j of the storage array AB. The top KL rows of AB hold the
fill-in that row pivoting produces during factorization, so the storage is
(2*KL+KU+1) x N.
*/
type BandedMatrix struct {
	N, KL, KU int
	AB        Matrix
	P         []int // Row pivots, created during LUFactor, otherwise nil
}

func NewBandedMatrix(n, kl, ku int) (R BandedMatrix) {
	if n < 1 || kl < 0 || ku < 0 || kl > n-1 || ku > n-1 {
		err := fmt.Errorf("invalid band dimensions: n, kl, ku = %v, %v, %v", n, kl, ku)
		panic(err)
	}
	R = BandedMatrix{
		N:  n,
		KL: kl,
		KU: ku,
		AB: NewMatrix(2*kl+ku+1, n),
	}
	return
}

func (bm BandedMatrix) InBand(i, j int) bool {
	return i-j <= bm.KL && j-i <= bm.KU && i >= 0 && j >= 0 && i < bm.N && j < bm.N
}

func (bm BandedMatrix) Set(i, j int, val float64) BandedMatrix { // Changes receiver
	if !bm.InBand(i, j) {
		err := fmt.Errorf("entry (%d,%d) outside band: n, kl, ku = %d, %d, %d", i, j, bm.N, bm.KL, bm.KU)
		panic(err)
	}
	bm.AB.Set(bm.KL+bm.KU+i-j, j, val)
	return bm
}

// At reads entries of the unfactored matrix. After LUFactor the storage holds
// the L and U factors instead.
func (bm BandedMatrix) At(i, j int) float64 {
	if !bm.InBand(i, j) {
		return 0
	}
	return bm.AB.At(bm.KL+bm.KU+i-j, j)
}

// Dense expands the band into a full matrix, mainly for tests and debugging.
func (bm BandedMatrix) Dense() (R Matrix) {
	R = NewMatrix(bm.N, bm.N)
	for i := 0; i < bm.N; i++ {
		jmin, jmax := i-bm.KL, i+bm.KU
		if jmin < 0 {
			jmin = 0
		}
		if jmax > bm.N-1 {
			jmax = bm.N - 1
		}
		for j := jmin; j <= jmax; j++ {
			R.Set(i, j, bm.At(i, j))
		}
	}
	return
}

func (bm *BandedMatrix) LUFactor() (err error) {
	/*
	   Factors the matrix in place into a lower [L] and upper [U] pair such that
	   P * [M] = L * U, using Gaussian elimination with partial pivoting
	   restricted to the band (the unblocked algorithm of LAPACK dgbtf2:
	   http://www.netlib.org/lapack/explore-html/ dgbtf2).

	   The unit lower triangular multipliers overwrite the KL rows below the
	   diagonal of the band storage, U overwrites the diagonal and the KL+KU
	   rows above it. P records the row interchanges. The companion method
	   LUSolve can then be called repeatedly to produce solutions to:
	                               [M] * x = b
	*/
	var (
		n, kl, ku = bm.N, bm.KL, bm.KU
		kv        = kl + ku
		ab        = bm.AB.DataP()
		ju        int
	)
	if bm.P != nil {
		err = fmt.Errorf("LUFactor already called on this matrix, which has overwritten it")
		return
	}
	bm.P = make([]int, n)
	for j := 0; j < n; j++ {
		// Pivot search within the column's subdiagonal band
		km := kl
		if n-1-j < km {
			km = n - 1 - j
		}
		jp := 0
		maxA := math.Abs(ab[kv*n+j])
		for p := 1; p <= km; p++ {
			if absA := math.Abs(ab[(kv+p)*n+j]); absA > maxA {
				maxA = absA
				jp = p
			}
		}
		bm.P[j] = j + jp
		if maxA == 0. {
			err = fmt.Errorf("matrix is singular: zero pivot in column %d", j)
			return
		}
		// Track the rightmost column touched by elimination so far
		if jNew := j + ku + jp; jNew > ju {
			ju = jNew
		}
		if ju > n-1 {
			ju = n - 1
		}
		if jp != 0 {
			for q := j; q <= ju; q++ {
				i1 := (kv+j-q)*n + q
				i2 := (kv+j+jp-q)*n + q
				ab[i1], ab[i2] = ab[i2], ab[i1]
			}
		}
		if km > 0 {
			piv := ab[kv*n+j]
			for p := 1; p <= km; p++ {
				ab[(kv+p)*n+j] /= piv
			}
			// Rank-1 update of the trailing band
			for q := j + 1; q <= ju; q++ {
				ajq := ab[(kv+j-q)*n+q]
				if ajq != 0. {
					for p := 1; p <= km; p++ {
						ab[(kv+j+p-q)*n+q] -= ab[(kv+p)*n+j] * ajq
					}
				}
			}
		}
	}
	return
}

func (bm BandedMatrix) LUSolve(b []float64) (x []float64) {
	var (
		n, kl, ku = bm.N, bm.KL, bm.KU
		kv        = kl + ku
		ab        = bm.AB.DataP()
	)
	if bm.P == nil {
		panic("LUSolve called before LUFactor")
	}
	if len(b) != n {
		err := fmt.Errorf("dimension mismatch: len(b) = %v, n = %v", len(b), n)
		panic(err)
	}
	x = make([]float64, n)
	copy(x, b)
	// Forward substitution, applying the row interchanges as we go
	for j := 0; j < n-1; j++ {
		if l := bm.P[j]; l != j {
			x[l], x[j] = x[j], x[l]
		}
		lm := kl
		if n-1-j < lm {
			lm = n - 1 - j
		}
		for p := 1; p <= lm; p++ {
			x[j+p] -= ab[(kv+p)*n+j] * x[j]
		}
	}
	// Back substitution against U, whose bandwidth grew to KL+KU with fill-in
	for j := n - 1; j >= 0; j-- {
		x[j] /= ab[kv*n+j]
		lm := kl + ku
		if j < lm {
			lm = j
		}
		for p := 1; p <= lm; p++ {
			x[j-p] -= ab[(kv-p)*n+j] * x[j]
		}
	}
	return
}
