package linalg

import (
	"fmt"
	"math"
)

// Vector holds Dim[I]() doubles addressed by I. Only NewVector and
// VectorOver return a usable value; the zero Vector has nil storage.
type Vector[I Index] struct {
	data []float64
}

// NewVector returns a vector with owned zeroed storage.
func NewVector[I Index]() Vector[I] {
	return Vector[I]{data: make([]float64, Dim[I]())}
}

// VectorOver returns a view over the first Dim[I]() elements of buf.
// The view aliases buf; it panics if buf is too short.
func VectorOver[I Index](buf []float64) Vector[I] {
	n := Dim[I]()
	if len(buf) < n {
		panic(fmt.Sprintf("linalg: vector view needs %d values, got %d", n, len(buf)))
	}
	return Vector[I]{data: buf[:n:n]}
}

func (v Vector[I]) Len() int { return len(v.data) }

func (v Vector[I]) At(i I) float64 { return v.data[check(i)] }

func (v Vector[I]) Set(i I, x float64) { v.data[check(i)] = x }

// Ptr returns a pointer into the backing storage for in-place updates.
func (v Vector[I]) Ptr(i I) *float64 { return &v.data[check(i)] }

// Raw exposes the backing storage.
func (v Vector[I]) Raw() []float64 { return v.data }

func (v Vector[I]) Clone() Vector[I] {
	c := NewVector[I]()
	copy(c.data, v.data)
	return c
}

// CopyFrom overwrites v with the contents of src.
func (v Vector[I]) CopyFrom(src Vector[I]) {
	copy(v.data, src.data)
}

func (v Vector[I]) IsValid() bool {
	for _, x := range v.data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
