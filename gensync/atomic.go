package gensync

import (
	"sync"

	"github.com/Invicton-Labs/go-exponent/constraints"
)

// Atomic guards a single value with a mutex. The zero value holds
// the zero value of T and is ready to use.
type Atomic[T any] struct {
	l sync.Mutex
	v T
}

func NewAtomic[T any](val T) *Atomic[T] {
	return &Atomic[T]{
		v: val,
	}
}

func (a *Atomic[T]) Load() T {
	a.l.Lock()
	defer a.l.Unlock()
	return a.v
}

func (a *Atomic[T]) Store(val T) {
	a.l.Lock()
	defer a.l.Unlock()
	a.v = val
}

// Update replaces the value with the output of updateFunc and returns it.
func (a *Atomic[T]) Update(updateFunc func(old T) T) (new T) {
	a.l.Lock()
	defer a.l.Unlock()
	a.v = updateFunc(a.v)
	return a.v
}

// AtomicNumeric is a counter or accumulator safe for concurrent use.
type AtomicNumeric[T constraints.Numeric] struct {
	Atomic[T]
}

func NewAtomicNumeric[T constraints.Numeric](val T) *AtomicNumeric[T] {
	return &AtomicNumeric[T]{
		Atomic: Atomic[T]{
			v: val,
		},
	}
}

func (a *AtomicNumeric[T]) Add(delta T) (new T) {
	a.l.Lock()
	defer a.l.Unlock()
	a.v += delta
	return a.v
}

func (a *AtomicNumeric[T]) Subtract(delta T) (new T) {
	a.l.Lock()
	defer a.l.Unlock()
	a.v -= delta
	return a.v
}
