package taskflow

import (
	"fmt"

	"github.com/echotree/taskflow/cognitive"
)

// CreateAtomSpace allocates a new empty atom space.
func (b *Bridge) CreateAtomSpace() AtomSpaceHandle {
	h := AtomSpaceHandle(b.spaces.Put(cognitive.NewSpace()))
	b.log.Debug("atom space created", "space", h)
	return h
}

// AddAtom creates an atom in the given space and returns its handle.
func (b *Bridge) AddAtom(space AtomSpaceHandle, atomType cognitive.AtomType, name string) (AtomHandle, error) {
	s, err := b.spaces.Get(int64(space))
	if err != nil {
		return 0, fmt.Errorf("atom space: %w", err)
	}
	return AtomHandle(b.atoms.Put(s.AddAtom(atomType, name))), nil
}

// SetAttention stores the attention value of an atom.
func (b *Bridge) SetAttention(h AtomHandle, attention float32) error {
	a, err := b.atoms.Get(int64(h))
	if err != nil {
		return fmt.Errorf("atom: %w", err)
	}
	a.SetAttention(attention)
	return nil
}

// GetAttention returns the attention value of an atom.
func (b *Bridge) GetAttention(h AtomHandle) (float32, error) {
	a, err := b.atoms.Get(int64(h))
	if err != nil {
		return 0, fmt.Errorf("atom: %w", err)
	}
	return a.Attention(), nil
}

// CreateTensor allocates a zero-filled tensor with the given shape.
func (b *Bridge) CreateTensor(shape []int) (TensorHandle, error) {
	t, err := cognitive.NewTensor(shape)
	if err != nil {
		return 0, err
	}
	h := TensorHandle(b.tensors.Put(t))
	b.log.Debug("tensor created", "tensor", h, "shape", shape)
	return h, nil
}

// SetTensorData replaces a tensor's contents. The element count must match
// the tensor's size exactly (cognitive.ErrSizeMismatch otherwise).
func (b *Bridge) SetTensorData(h TensorHandle, data []float32) error {
	t, err := b.tensors.Get(int64(h))
	if err != nil {
		return fmt.Errorf("tensor: %w", err)
	}
	return t.SetData(data)
}

// GetTensorData returns a copy of a tensor's contents.
func (b *Bridge) GetTensorData(h TensorHandle) ([]float32, error) {
	t, err := b.tensors.Get(int64(h))
	if err != nil {
		return nil, fmt.Errorf("tensor: %w", err)
	}
	return t.Data(), nil
}

// NumAtomSpaces returns the number of live atom spaces.
func (b *Bridge) NumAtomSpaces() int { return b.spaces.Len() }

// NumTensors returns the number of live tensors.
func (b *Bridge) NumTensors() int { return b.tensors.Len() }
