package utils

const (
	// EPS is the double precision machine epsilon
	EPS = 2.220446049250313e-16
	// SQRTEPS is the forward difference step scale for Jacobian estimation
	SQRTEPS = 1.4901161193847656e-08
)

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)
