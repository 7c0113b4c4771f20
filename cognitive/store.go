// Package cognitive holds the peripheral keyed stores exposed through the
// bridge: atom spaces with scalar attention values, and fixed-shape float
// tensors. These are inert leaf containers; nothing here interacts with
// graph execution.
package cognitive

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrSizeMismatch = errors.New("data size mismatch")
	ErrInvalidShape = errors.New("invalid tensor shape")
)

// AtomType tags an atom with a caller-defined kind. The bridge does not
// interpret it.
type AtomType int

// Atom is a named entry in a Space carrying a mutable attention value.
type Atom struct {
	Type AtomType
	Name string

	mu        sync.Mutex
	attention float32
}

// SetAttention stores the atom's attention value.
func (a *Atom) SetAttention(v float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attention = v
}

// Attention returns the atom's attention value.
func (a *Atom) Attention() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attention
}

// Space owns a set of atoms.
type Space struct {
	mu    sync.Mutex
	atoms []*Atom
}

// NewSpace creates an empty atom space.
func NewSpace() *Space {
	return &Space{}
}

// AddAtom creates an atom in the space and returns it.
func (s *Space) AddAtom(atomType AtomType, name string) *Atom {
	a := &Atom{Type: atomType, Name: name}
	s.mu.Lock()
	s.atoms = append(s.atoms, a)
	s.mu.Unlock()
	return a
}

// Len returns the number of atoms in the space.
func (s *Space) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.atoms)
}

// Tensor is a fixed-shape float buffer. The shape is set at construction
// and never changes; data writes must supply exactly size elements.
type Tensor struct {
	shape []int
	size  int

	mu   sync.Mutex
	data []float32
}

// NewTensor creates a zero-filled tensor. Every dimension must be
// non-negative.
func NewTensor(shape []int) (*Tensor, error) {
	size := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("%w: dimension %d", ErrInvalidShape, dim)
		}
		size *= dim
	}
	t := &Tensor{
		shape: append([]int(nil), shape...),
		size:  size,
		data:  make([]float32, size),
	}
	return t, nil
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Size returns the element count (the product of the shape).
func (t *Tensor) Size() int {
	return t.size
}

// SetData replaces the tensor's contents. The element count must match the
// tensor's size exactly.
func (t *Tensor) SetData(data []float32) error {
	if len(data) != t.size {
		return fmt.Errorf("%w: got %d elements, tensor holds %d", ErrSizeMismatch, len(data), t.size)
	}
	t.mu.Lock()
	copy(t.data, data)
	t.mu.Unlock()
	return nil
}

// Data returns a copy of the tensor's contents.
func (t *Tensor) Data() []float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]float32(nil), t.data...)
}
