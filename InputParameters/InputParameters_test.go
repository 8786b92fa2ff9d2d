package InputParameters

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAndValidate(t *testing.T) {
	var (
		yamlInput = `
Title: long domain study
K: 0.01
Epsilon: 1.e-10
L: 5000
N: 200
Tol: 1.e-4
MaxNodes: 20000
MaxIterations: 12
Guess: shaped
BCVariant: farfield
LSweep: [50, 500, 5000]
CompareUpTo: 50
`
	)
	ip := Defaults()
	assert.NoError(t, ip.Validate())
	assert.NoError(t, ip.Parse(strings.NewReader(yamlInput)))
	assert.Equal(t, "long domain study", ip.Title)
	assert.Equal(t, 5000., ip.L)
	assert.Equal(t, 200, ip.N)
	assert.Equal(t, 1.e-10, ip.Epsilon)
	assert.Equal(t, "shaped", ip.Guess)
	assert.Equal(t, []float64{50, 500, 5000}, ip.LSweep)
	assert.Equal(t, 12, ip.MaxIterations)
	// Fields absent from the file keep their prior values
	assert.Equal(t, 1000, ip.EvalPoints)
	assert.NoError(t, ip.Validate())
}

func TestValidateRejects(t *testing.T) {
	{
		ip := Defaults()
		ip.L = 0
		assert.True(t, errors.Is(ip.Validate(), ErrParamOutOfRange))
	}
	{
		ip := Defaults()
		ip.MaxNodes = ip.N - 1
		assert.True(t, errors.Is(ip.Validate(), ErrParamOutOfRange))
	}
	{
		ip := Defaults()
		ip.Guess = "quadratic"
		assert.True(t, errors.Is(ip.Validate(), ErrUnknownOption))
	}
	{
		ip := Defaults()
		ip.BCVariant = "periodic"
		assert.True(t, errors.Is(ip.Validate(), ErrUnknownOption))
	}
	{
		ip := Defaults()
		ip.NSweep = []int{100, 1}
		assert.True(t, errors.Is(ip.Validate(), ErrParamOutOfRange))
	}
}
