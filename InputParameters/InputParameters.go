package InputParameters

import (
	"errors"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
)

var (
	ErrParamOutOfRange = errors.New("parameter out of range")
	ErrUnknownOption   = errors.New("unknown option")
)

// Parameters obtained from the YAML input file
type Parameters struct {
	Title         string    `yaml:"Title"`
	K             float64   `yaml:"K"`       // capillary forcing strength
	Epsilon       float64   `yaml:"Epsilon"` // denominator regularization
	L             float64   `yaml:"L"`       // truncation length
	N             int       `yaml:"N"`       // initial mesh nodes
	Tol           float64   `yaml:"Tol"`
	BCTol         float64   `yaml:"BCTol"`
	MaxNodes      int       `yaml:"MaxNodes"`
	MaxIterations int       `yaml:"MaxIterations"`
	Guess         string    `yaml:"Guess"`     // linear | shaped
	BCVariant     string    `yaml:"BCVariant"` // farfield | origin
	FarFieldTol   float64   `yaml:"FarFieldTol"`
	Verbose       bool      `yaml:"Verbose"`
	LSweep        []float64 `yaml:"LSweep"`
	NSweep        []int     `yaml:"NSweep"`
	CompareUpTo   float64   `yaml:"CompareUpTo"`
	EvalPoints    int       `yaml:"EvalPoints"`
	WarmStart     bool      `yaml:"WarmStart"`
}

func Defaults() Parameters {
	return Parameters{
		Title:         "thin film spreading",
		K:             0.01,
		Epsilon:       1.e-6,
		L:             50,
		N:             500,
		Tol:           1.e-4,
		MaxNodes:      10000,
		MaxIterations: 10,
		Guess:         "linear",
		BCVariant:     "farfield",
		CompareUpTo:   50,
		EvalPoints:    1000,
	}
}

func (ip *Parameters) Parse(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, ip)
}

func (ip *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= K\n", ip.K)
	fmt.Printf("%8.2e\t\t= Epsilon\n", ip.Epsilon)
	fmt.Printf("%8.5f\t\t= L\n", ip.L)
	fmt.Printf("[%d]\t\t\t= N\n", ip.N)
	fmt.Printf("%8.2e\t\t= Tol\n", ip.Tol)
	fmt.Printf("[%d]\t\t\t= MaxNodes\n", ip.MaxNodes)
	fmt.Printf("[%s]\t\t= Guess\n", ip.Guess)
	fmt.Printf("[%s]\t\t= BCVariant\n", ip.BCVariant)
	if len(ip.LSweep) != 0 {
		fmt.Printf("LSweep = %v\n", ip.LSweep)
	}
	if len(ip.NSweep) != 0 {
		fmt.Printf("NSweep = %v\n", ip.NSweep)
	}
}

func (ip *Parameters) Validate() error {
	if ip.K <= 0 {
		return fmt.Errorf("K = %v: %w", ip.K, ErrParamOutOfRange)
	}
	if ip.Epsilon <= 0 {
		return fmt.Errorf("Epsilon = %v: %w", ip.Epsilon, ErrParamOutOfRange)
	}
	if ip.L <= 0 {
		return fmt.Errorf("L = %v: %w", ip.L, ErrParamOutOfRange)
	}
	if ip.N < 2 {
		return fmt.Errorf("N = %d: %w", ip.N, ErrParamOutOfRange)
	}
	if ip.Tol <= 0 {
		return fmt.Errorf("Tol = %v: %w", ip.Tol, ErrParamOutOfRange)
	}
	if ip.BCTol < 0 {
		return fmt.Errorf("BCTol = %v: %w", ip.BCTol, ErrParamOutOfRange)
	}
	if ip.FarFieldTol < 0 {
		return fmt.Errorf("FarFieldTol = %v: %w", ip.FarFieldTol, ErrParamOutOfRange)
	}
	if ip.MaxNodes < ip.N {
		return fmt.Errorf("MaxNodes = %d with N = %d: %w", ip.MaxNodes, ip.N, ErrParamOutOfRange)
	}
	if ip.MaxIterations < 1 {
		return fmt.Errorf("MaxIterations = %d: %w", ip.MaxIterations, ErrParamOutOfRange)
	}
	switch ip.Guess {
	case "linear", "shaped":
	default:
		return fmt.Errorf("Guess = %q: %w", ip.Guess, ErrUnknownOption)
	}
	switch ip.BCVariant {
	case "farfield", "origin":
	default:
		return fmt.Errorf("BCVariant = %q: %w", ip.BCVariant, ErrUnknownOption)
	}
	for _, l := range ip.LSweep {
		if l <= 0 {
			return fmt.Errorf("LSweep entry %v: %w", l, ErrParamOutOfRange)
		}
	}
	for _, n := range ip.NSweep {
		if n < 2 {
			return fmt.Errorf("NSweep entry %d: %w", n, ErrParamOutOfRange)
		}
	}
	if ip.CompareUpTo < 0 {
		return fmt.Errorf("CompareUpTo = %v: %w", ip.CompareUpTo, ErrParamOutOfRange)
	}
	if ip.EvalPoints < 2 {
		return fmt.Errorf("EvalPoints = %d: %w", ip.EvalPoints, ErrParamOutOfRange)
	}
	return nil
}
