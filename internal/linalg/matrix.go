package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense rows×cols matrix with rows keyed by R and columns by C.
// It is used for the Jacobians between two bases.
type Matrix[R, C Index] struct {
	data []float64
}

func NewMatrix[R, C Index]() Matrix[R, C] {
	return Matrix[R, C]{data: make([]float64, Dim[R]()*Dim[C]())}
}

func (m Matrix[R, C]) Dims() (r, c int) { return Dim[R](), Dim[C]() }

func (m Matrix[R, C]) At(r R, c C) float64 {
	return m.data[check(r)*Dim[C]()+check(c)]
}

func (m Matrix[R, C]) Set(r R, c C, x float64) {
	m.data[check(r)*Dim[C]()+check(c)] = x
}

func (m Matrix[R, C]) Raw() []float64 { return m.data }

// Dense returns a gonum copy of m.
func (m Matrix[R, C]) Dense() *mat.Dense {
	r, c := m.Dims()
	d := make([]float64, len(m.data))
	copy(d, m.data)
	return mat.NewDense(r, c, d)
}

// SetFromDense copies d into m.
func (m Matrix[R, C]) SetFromDense(d mat.Matrix) {
	r, c := m.Dims()
	dr, dc := d.Dims()
	if dr != r || dc != c {
		panic(fmt.Sprintf("linalg: dimension mismatch %dx%d != %dx%d", dr, dc, r, c))
	}
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			m.data[i*c+k] = d.At(i, k)
		}
	}
}

// Congruence writes J·S·Jᵗ into dst. Only one triangle is evaluated so the
// result is exactly symmetric. dst must not share storage with s.
func Congruence[R, C Index](dst SymMatrix[R], j Matrix[R, C], s SymMatrix[C]) {
	nr, nc := j.Dims()
	for a := 0; a < nr; a++ {
		ja := j.data[a*nc : (a+1)*nc]
		for b := 0; b <= a; b++ {
			jb := j.data[b*nc : (b+1)*nc]
			sum := 0.0
			for k := 0; k < nc; k++ {
				if ja[k] == 0 {
					continue
				}
				row := 0.0
				for l := 0; l < nc; l++ {
					row += s.at(k, l) * jb[l]
				}
				sum += ja[k] * row
			}
			dst.set(a, b, sum)
		}
	}
}

// MatrixOver returns a view over the first rows*cols values of buf,
// stored row-major.
func MatrixOver[R, C Index](buf []float64) Matrix[R, C] {
	n := Dim[R]() * Dim[C]()
	if len(buf) < n {
		panic(fmt.Sprintf("linalg: matrix view needs %d values, got %d", n, len(buf)))
	}
	return Matrix[R, C]{data: buf[:n:n]}
}
