package linalg

import "fmt"

// Index is a closed enumeration of the coordinates of a fixed basis.
// Dim reports the size of the basis and must not depend on the receiver.
type Index interface {
	~uint8
	Dim() int
}

// Dim returns the basis size of I.
func Dim[I Index]() int {
	var i I
	return i.Dim()
}

// PackedLen returns the number of stored doubles for a symmetric matrix over I.
func PackedLen[I Index]() int {
	n := Dim[I]()
	return n * (n + 1) / 2
}

func check[I Index](i I) int {
	k := int(i)
	if k >= i.Dim() {
		panic(fmt.Sprintf("linalg: index %d out of range [0,%d)", k, i.Dim()))
	}
	return k
}

// packed maps the unordered pair (i, j) to its slot in lower-triangular
// row-major storage.
func packed(i, j int) int {
	if i < j {
		i, j = j, i
	}
	return i*(i+1)/2 + j
}
