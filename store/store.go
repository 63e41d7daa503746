// Package store holds the rolling window of ingested log lines.
package store

import "iter"

// DefaultCapacity is the number of lines kept when no capacity is given
const DefaultCapacity = 1 << 16

// Store is a fixed-capacity ring of log lines, oldest first. Appending at
// capacity evicts the oldest line. A Store is owned by a single goroutine
// and does no locking.
type Store struct {
	buf   []string
	size  int
	head  int // index of the oldest line once buf is full
	total uint64
}

// New creates an empty store holding at most capacity lines
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{size: capacity}
}

// Append adds a line, evicting the oldest one when the store is full
func (s *Store) Append(line string) {
	s.total++
	if len(s.buf) < s.size {
		s.buf = append(s.buf, line)
		return
	}
	s.buf[s.head] = line
	s.head = (s.head + 1) % s.size
}

// Len returns the number of resident lines
func (s *Store) Len() int { return len(s.buf) }

// Cap returns the capacity
func (s *Store) Cap() int { return s.size }

// Total returns how many lines were ever appended, evicted ones included
func (s *Store) Total() uint64 { return s.total }

func (s *Store) at(i int) string {
	return s.buf[(s.head+i)%len(s.buf)]
}

// Range yields the resident lines accepted by pred in insertion order.
// A nil pred accepts every line. Each call starts a fresh scan.
func (s *Store) Range(pred func(string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(s.buf); i++ {
			line := s.at(i)
			if pred != nil && !pred(line) {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Backward is Range newest first
func (s *Store) Backward(pred func(string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := len(s.buf) - 1; i >= 0; i-- {
			line := s.at(i)
			if pred != nil && !pred(line) {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
