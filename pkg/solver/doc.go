// Package solver implements the Newton-Raphson geometric constraint
// solver for furniture assemblies: it builds a residual vector over all
// constraints, differentiates it by forward finite differences, and
// solves the resulting linear system each iteration until the residual
// norm falls below tolerance or the iteration budget runs out.
package solver
