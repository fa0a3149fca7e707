package internal

import (
	"iter"

	"github.com/oomph-ac/mover/oerror"
)

// CircularQueue is a fixed capacity FIFO that overwrites its oldest element when full.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	size  int
}

func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Get returns the element at logical position index (0 = oldest).
func (q *CircularQueue[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= q.size {
		return zero, oerror.New("circularQueue: get out of range (%d/%d)", index, q.size)
	}
	return q.items[(q.head+index)%len(q.items)], nil
}

// Iter yields the elements from oldest to newest.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.size {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Len returns the number of elements held.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the maximum number of elements the queue can hold.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Append appends an item, dropping the oldest one if the queue is full.
func (q *CircularQueue[T]) Append(item T) error {
	if len(q.items) == 0 {
		return oerror.New("circularQueue: append on zero-capacity queue")
	}
	q.items[q.tail] = item
	if q.size == len(q.items) {
		q.head = (q.head + 1) % len(q.items)
	} else {
		q.size++
	}
	q.tail = (q.tail + 1) % len(q.items)
	return nil
}

// Clear drops every element.
func (q *CircularQueue[T]) Clear() {
	clear(q.items)
	q.head, q.tail, q.size = 0, 0, 0
}
