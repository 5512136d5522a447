package upload

import (
	"context"
	"sync"

	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
)

// Event names a user action.
type Event string

const (
	FileSelected      Event = "fileSelected"
	RemoveRequested   Event = "removeRequested"
	ClassifyRequested Event = "classifyRequested"
)

// Payload accompanies an event. File is set for FileSelected; a nil File
// means the selection could not be read.
type Payload struct {
	File *imagefile.CandidateFile
}

// Handler reacts to an event.
type Handler func(ctx context.Context, p Payload)

// Bus routes user actions from the front end to whoever subscribed.
type Bus struct {
	mu       sync.Mutex
	next     uint64
	handlers map[Event]map[uint64]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Event]map[uint64]Handler)}
}

// On registers h for e and returns the function that unregisters it.
func (b *Bus) On(e Event, h Handler) (off func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	if b.handlers[e] == nil {
		b.handlers[e] = make(map[uint64]Handler)
	}
	b.handlers[e][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[e], id)
	}
}

// Emit calls every handler registered for e and reports how many ran.
// Handlers run on the caller's goroutine, outside the bus lock.
func (b *Bus) Emit(ctx context.Context, e Event, p Payload) int {
	b.mu.Lock()
	hs := make([]Handler, 0, len(b.handlers[e]))
	for _, h := range b.handlers[e] {
		hs = append(hs, h)
	}
	b.mu.Unlock()

	for _, h := range hs {
		h(ctx, p)
	}
	return len(hs)
}

// Len is the number of handlers registered for e.
func (b *Bus) Len(e Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[e])
}
