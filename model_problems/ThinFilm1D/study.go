package ThinFilm1D

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/filmbvp/BVP1D"
	"github.com/notargets/filmbvp/InputParameters"
	"github.com/notargets/filmbvp/utils"
)

/*
ConvergenceStudy sweeps the truncation length L at fixed initial mesh
density. A truncated half line problem only makes sense if the profile
stops caring about where it was cut, so the study solves on every L and
compares the slope profiles on the common window [0, CompareUpTo].
*/
type ConvergenceStudy struct {
	Film        *ThinFilm
	LSweep      []float64
	N           int
	Guess       GuessKind
	Params      BVP1D.Params
	CompareUpTo float64
	EvalPoints  int
	WarmStart   bool // seed each run from the previous one, sequential only
	Results     []*Result
	next        int
}

func NewConvergenceStudy(tf *ThinFilm, lSweep []float64, n int, kind GuessKind, prm BVP1D.Params) (cs *ConvergenceStudy) {
	cs = &ConvergenceStudy{
		Film:       tf,
		LSweep:     lSweep,
		N:          n,
		Guess:      kind,
		Params:     prm,
		EvalPoints: 1000,
		Results:    make([]*Result, len(lSweep)),
	}
	if len(lSweep) != 0 {
		cs.CompareUpTo = floats.Min(lSweep)
	}
	return
}

// NewConvergenceStudyFromParameters assembles the L sweep a configuration
// describes.
func NewConvergenceStudyFromParameters(ip InputParameters.Parameters) (cs *ConvergenceStudy, err error) {
	tf, err := NewFromParameters(ip)
	if err != nil {
		return
	}
	kind, err := GuessKindOf(ip.Guess)
	if err != nil {
		return
	}
	cs = NewConvergenceStudy(tf, ip.LSweep, ip.N, kind, SolverParams(ip))
	if ip.CompareUpTo > 0 {
		cs.CompareUpTo = ip.CompareUpTo
	}
	if ip.EvalPoints > 0 {
		cs.EvalPoints = ip.EvalPoints
	}
	cs.WarmStart = ip.WarmStart
	return
}

// Next runs the next pending sweep entry. done reports that every entry
// has a result, so the study can be driven lazily and resumed.
func (cs *ConvergenceStudy) Next() (r *Result, done bool, err error) {
	if cs.next >= len(cs.LSweep) {
		return nil, true, nil
	}
	i := cs.next
	if cs.WarmStart && i > 0 && cs.Results[i-1] != nil && cs.Results[i-1].Successful() {
		x, y := WarmGuess(cs.Results[i-1], cs.LSweep[i], cs.N)
		r, err = cs.Film.SolveGuess(x, y, cs.Params)
	} else {
		r, err = cs.Film.Solve(cs.LSweep[i], cs.N, cs.Guess, cs.Params)
	}
	if err != nil {
		return
	}
	cs.Results[i] = r
	cs.next++
	done = cs.next == len(cs.LSweep)
	return
}

func (cs *ConvergenceStudy) Reset() {
	cs.next = 0
	for i := range cs.Results {
		cs.Results[i] = nil
	}
}

func (cs *ConvergenceStudy) Run() error {
	for {
		_, done, err := cs.Next()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// RunParallel partitions the sweep across workers. Warm starting chains
// runs sequentially, so it takes the serial path.
func (cs *ConvergenceStudy) RunParallel(nWorkers int) error {
	if cs.WarmStart {
		return cs.Run()
	}
	var (
		pm   = utils.NewPartitionMap(nWorkers, len(cs.LSweep))
		wg   = sync.WaitGroup{}
		errs = make([]error, len(cs.LSweep))
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				cs.Results[k], errs[k] = cs.Film.Solve(cs.LSweep[k], cs.N, cs.Guess, cs.Params)
			}
			wg.Done()
		}(np)
	}
	wg.Wait()
	cs.next = len(cs.LSweep)
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// MaxDerivDisagreement compares h' between every pair of successful runs
// on a shared grid over [0, CompareUpTo] and returns the largest
// pointwise gap. Failed runs contribute nothing.
func (cs *ConvergenceStudy) MaxDerivDisagreement() (worst float64) {
	var (
		xs       = utils.NewVectorLinspace(0, cs.CompareUpTo, cs.EvalPoints).DataP()
		profiles [][]float64
	)
	for _, r := range cs.Results {
		if r == nil || !r.Successful() {
			continue
		}
		profiles = append(profiles, r.Eval(xs).Row(1).DataP())
	}
	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			for p := range xs {
				if d := math.Abs(profiles[i][p] - profiles[j][p]); d > worst {
					worst = d
				}
			}
		}
	}
	return
}

func (cs *ConvergenceStudy) Print() {
	fmt.Printf("%12s %6s %6s %18s %10s %10s %8s\n",
		"L", "N0", "Nodes", "Status", "MaxRMS", "FarField", "Success")
	for i, r := range cs.Results {
		if r == nil {
			fmt.Printf("%12.5g %6d %s\n", cs.LSweep[i], cs.N, "pending")
			continue
		}
		fmt.Printf("%12.5g %6d %6d %18s %10.3g %10.3g %8v\n",
			cs.LSweep[i], r.NInitial, r.NodesFinal, r.Status,
			r.RMSResiduals.Max(), r.FarFieldResidual, r.Successful())
	}
}

/*
MeshStudy sweeps the initial node count N at fixed L. The adaptive solver
should land on essentially the same profile no matter how coarse the
starting mesh, so successive runs are compared pairwise over the full
domain.
*/
type MeshStudy struct {
	Film       *ThinFilm
	L          float64
	NSweep     []int
	Guess      GuessKind
	Params     BVP1D.Params
	EvalPoints int
	Results    []*Result
}

func NewMeshStudy(tf *ThinFilm, l float64, nSweep []int, kind GuessKind, prm BVP1D.Params) (ms *MeshStudy) {
	ms = &MeshStudy{
		Film:       tf,
		L:          l,
		NSweep:     nSweep,
		Guess:      kind,
		Params:     prm,
		EvalPoints: 1000,
		Results:    make([]*Result, len(nSweep)),
	}
	return
}

// NewMeshStudyFromParameters assembles the N sweep a configuration
// describes at its fixed truncation length.
func NewMeshStudyFromParameters(ip InputParameters.Parameters) (ms *MeshStudy, err error) {
	tf, err := NewFromParameters(ip)
	if err != nil {
		return
	}
	kind, err := GuessKindOf(ip.Guess)
	if err != nil {
		return
	}
	ms = NewMeshStudy(tf, ip.L, ip.NSweep, kind, SolverParams(ip))
	if ip.EvalPoints > 0 {
		ms.EvalPoints = ip.EvalPoints
	}
	return
}

func (ms *MeshStudy) Run() error {
	for i, n := range ms.NSweep {
		r, err := ms.Film.Solve(ms.L, n, ms.Guess, ms.Params)
		if err != nil {
			return err
		}
		ms.Results[i] = r
	}
	return nil
}

// SuccessiveAgreement returns the max |h'| gap between each consecutive
// pair of runs on a shared grid over [0, L]. Pairs with a failed side
// report NaN.
func (ms *MeshStudy) SuccessiveAgreement() (gaps []float64) {
	if len(ms.Results) < 2 {
		return
	}
	var (
		xs   = utils.NewVectorLinspace(0, ms.L, ms.EvalPoints).DataP()
		prev []float64
	)
	gaps = make([]float64, len(ms.Results)-1)
	for i, r := range ms.Results {
		var cur []float64
		if r != nil && r.Successful() {
			cur = r.Eval(xs).Row(1).DataP()
		}
		if i > 0 {
			gaps[i-1] = math.NaN()
			if prev != nil && cur != nil {
				worst := 0.
				for p := range xs {
					if d := math.Abs(cur[p] - prev[p]); d > worst {
						worst = d
					}
				}
				gaps[i-1] = worst
			}
		}
		prev = cur
	}
	return
}

func (ms *MeshStudy) Print() {
	fmt.Printf("%8s %6s %18s %10s %8s\n", "N0", "Nodes", "Status", "FarField", "Success")
	for i, r := range ms.Results {
		if r == nil {
			fmt.Printf("%8d %s\n", ms.NSweep[i], "pending")
			continue
		}
		fmt.Printf("%8d %6d %18s %10.3g %8v\n",
			ms.NSweep[i], r.NodesFinal, r.Status, r.FarFieldResidual, r.Successful())
	}
}
