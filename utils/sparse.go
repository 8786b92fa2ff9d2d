package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a dictionary-of-keys sparse matrix, convenient for assembling
// collocation Jacobians entry by entry before conversion to a solvable form.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m DOK) DoNonZero(fn func(i, j int, v float64)) {
	m.M.DoNonZero(fn)
}

func (m DOK) NNZ() int {
	return m.M.NNZ()
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

// ToBanded rewrites the nonzero pattern into LAPACK band storage. Every
// nonzero must lie within the requested band.
func (m DOK) ToBanded(kl, ku int) (R BandedMatrix) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err := fmt.Errorf("banded conversion needs a square matrix, have %v x %v", nr, nc)
		panic(err)
	}
	R = NewBandedMatrix(nr, kl, ku)
	m.M.DoNonZero(func(i, j int, v float64) {
		R.Set(i, j, v)
	})
	return
}
