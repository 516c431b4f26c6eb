package display

import "sync"

// Panel is the host display as seen by the adapter. Frame hands out the
// shared framebuffer for the duration of one update; MarkUpdatedRows tells
// the host which rows need to be pushed to the glass.
type Panel interface {
	Frame() *Frame
	MarkUpdatedRows(first, last int)
}

// Buffer is a host-side Panel that accumulates dirty rows until the
// compositor collects them with TakeDirty.
type Buffer struct {
	mu    sync.Mutex
	frame *Frame
	dirty Rows
}

func NewBuffer() *Buffer {
	return &Buffer{frame: NewFrame(), dirty: NoRows}
}

func (b *Buffer) Frame() *Frame { return b.frame }

// MarkUpdatedRows clamps the span to the panel and merges it into the
// pending dirty set.
func (b *Buffer) MarkUpdatedRows(first, last int) {
	if first < 0 {
		first = 0
	}
	if last >= Height {
		last = Height - 1
	}
	if last < first {
		return
	}
	b.mu.Lock()
	b.dirty = b.dirty.Union(Rows{First: first, Last: last})
	b.mu.Unlock()
}

// TakeDirty returns the pending dirty span and resets it.
func (b *Buffer) TakeDirty() Rows {
	b.mu.Lock()
	r := b.dirty
	b.dirty = NoRows
	b.mu.Unlock()
	return r
}
