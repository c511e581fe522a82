package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps the document in process memory
type MemorySlot struct {
	mu       sync.RWMutex
	doc      []byte
	siblings map[string]*MemorySlot
}

// NewMemorySlot creates an empty in-memory slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.doc...), nil
}

func (s *MemorySlot) Write(ctx context.Context, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = append([]byte{}, doc...)
	return nil
}

// Sibling returns the memory slot kept for suffix, creating it on first use
func (s *MemorySlot) Sibling(suffix string) Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.siblings == nil {
		s.siblings = make(map[string]*MemorySlot)
	}
	sib, ok := s.siblings[suffix]
	if !ok {
		sib = NewMemorySlot()
		s.siblings[suffix] = sib
	}
	return sib
}

func (s *MemorySlot) Close() error {
	return nil
}
