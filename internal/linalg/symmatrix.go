package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SymMatrix is a symmetric matrix over basis I stored as its lower
// triangle. (i, j) and (j, i) address the same slot. The zero value has
// nil storage; build one with NewSymMatrix or SymMatrixOver.
type SymMatrix[I Index] struct {
	data []float64
}

// NewSymMatrix returns a matrix with owned zeroed storage.
func NewSymMatrix[I Index]() SymMatrix[I] {
	return SymMatrix[I]{data: make([]float64, PackedLen[I]())}
}

// SymMatrixOver returns a view over the first PackedLen[I]() elements of
// buf. The layout is lower-triangular row-major: (0,0), (1,0), (1,1), ...
func SymMatrixOver[I Index](buf []float64) SymMatrix[I] {
	n := PackedLen[I]()
	if len(buf) < n {
		panic(fmt.Sprintf("linalg: packed matrix view needs %d values, got %d", n, len(buf)))
	}
	return SymMatrix[I]{data: buf[:n:n]}
}

func (m SymMatrix[I]) Dim() int { return Dim[I]() }

func (m SymMatrix[I]) At(i, j I) float64 {
	return m.data[packed(check(i), check(j))]
}

func (m SymMatrix[I]) Set(i, j I, x float64) {
	m.data[packed(check(i), check(j))] = x
}

func (m SymMatrix[I]) Ptr(i, j I) *float64 {
	return &m.data[packed(check(i), check(j))]
}

func (m SymMatrix[I]) Diag(i I) float64 { return m.At(i, i) }

func (m SymMatrix[I]) Raw() []float64 { return m.data }

func (m SymMatrix[I]) Clone() SymMatrix[I] {
	c := NewSymMatrix[I]()
	copy(c.data, m.data)
	return c
}

func (m SymMatrix[I]) CopyFrom(src SymMatrix[I]) {
	copy(m.data, src.data)
}

// at and set work on plain integers for the packages' own loops.
func (m SymMatrix[I]) at(i, j int) float64     { return m.data[packed(i, j)] }
func (m SymMatrix[I]) set(i, j int, x float64) { m.data[packed(i, j)] = x }

func (m SymMatrix[I]) HasNaN() bool {
	for _, x := range m.data {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

func (m SymMatrix[I]) IsValid() bool {
	for _, x := range m.data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// SymDense returns an unpacked copy.
func (m SymMatrix[I]) SymDense() *mat.SymDense {
	n := m.Dim()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, m.at(i, j))
		}
	}
	return s
}

// SetFromSym overwrites m with the upper triangle of s.
func (m SymMatrix[I]) SetFromSym(s mat.Symmetric) {
	n := m.Dim()
	if s.SymmetricDim() != n {
		panic(fmt.Sprintf("linalg: dimension mismatch %d != %d", s.SymmetricDim(), n))
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			m.set(i, j, s.At(i, j))
		}
	}
}

// IsPositiveSemiDefinite reports whether the smallest eigenvalue is not
// below -tol times the largest magnitude eigenvalue.
func (m SymMatrix[I]) IsPositiveSemiDefinite(tol float64) bool {
	if !m.IsValid() {
		return false
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(m.SymDense(), false); !ok {
		return false
	}
	vals := eig.Values(nil)
	scale := 0.0
	for _, v := range vals {
		scale = math.Max(scale, math.Abs(v))
	}
	for _, v := range vals {
		if v < -tol*scale {
			return false
		}
	}
	return true
}
