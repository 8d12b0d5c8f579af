package numeric

import (
	"errors"
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// ErrSingular indicates a tridiagonal system which cannot be solved by a
// forward sweep without pivoting.
var ErrSingular = errors.New("tridiagonal system is singular")

// SolveTridiagonal solves the system
//
//	lo[i]⋅x[i-1] + diag[i]⋅x[i] + up[i]⋅x[i+1] = rhs[i]
//
// for vector valued unknowns x, by a forward elimination sweep followed by
// back substitution (Thomas algorithm). lo[0] and up[n-1] are ignored.
// The system should be diagonally dominant; spline systems are.
func SolveTridiagonal(lo, diag, up []float64, rhs []vec3.T) ([]vec3.T, error) {
	n := len(diag)
	if len(lo) != n || len(up) != n || len(rhs) != n {
		return nil, fmt.Errorf("tridiagonal system: inconsistent dimensions")
	}
	if n == 0 {
		return nil, nil
	}
	u := make([]float64, n) // modified super-diagonal
	v := make([]vec3.T, n)  // modified right hand side
	for i := range n {
		t := diag[i]
		if i > 0 {
			t -= lo[i] * u[i-1]
		}
		if math.Abs(t) < 1e-300 {
			return nil, fmt.Errorf("%w: zero pivot in row %d", ErrSingular, i)
		}
		u[i] = up[i] / t
		v[i] = rhs[i]
		if i > 0 {
			for j := range 3 {
				v[i][j] -= lo[i] * v[i-1][j]
			}
		}
		v[i] = v[i].Scaled(1 / t)
	}
	x := make([]vec3.T, n)
	x[n-1] = v[n-1]
	for i := n - 2; i >= 0; i-- {
		for j := range 3 {
			x[i][j] = v[i][j] - u[i]*x[i+1][j]
		}
	}
	return x, nil
}
