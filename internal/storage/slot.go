// Package storage provides durable single-document slots. The journal keeps
// its whole state in one slot under one key; each backend stores that one
// value and nothing else.
package storage

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by Read when nothing has been written yet
var ErrSlotEmpty = errors.New("storage slot is empty")

// Slot is a durable key/value slot holding one document
type Slot interface {
	// Read returns the stored document or ErrSlotEmpty
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored document
	Write(ctx context.Context, doc []byte) error
	Close() error
}

// Sibling is implemented by slots that can address another key next to their
// own in the same backend. The returned slot shares the parent's connection;
// closing it is a no-op.
type Sibling interface {
	Sibling(suffix string) Slot
}

var (
	_ Sibling = (*MemorySlot)(nil)
	_ Sibling = (*FileSlot)(nil)
	_ Sibling = (*BadgerSlot)(nil)
	_ Sibling = (*RedisSlot)(nil)
	_ Sibling = (*SQLSlot)(nil)

	_ Slot = (*MemorySlot)(nil)
	_ Slot = (*FileSlot)(nil)
	_ Slot = (*BadgerSlot)(nil)
	_ Slot = (*RedisSlot)(nil)
	_ Slot = (*SQLSlot)(nil)
)
