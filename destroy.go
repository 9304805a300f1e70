package grok

import (
	"fmt"
	"log/slog"
	"sync"
)

// DestroyKind identifies the GL object type of a pending deletion.
type DestroyKind uint8

const (
	DestroyTexture DestroyKind = iota
	DestroyShader
	DestroyVertexArray
	DestroyBuffer
)

func (k DestroyKind) String() string {
	switch k {
	case DestroyTexture:
		return "texture"
	case DestroyShader:
		return "shader"
	case DestroyVertexArray:
		return "vertex array"
	case DestroyBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("DestroyKind(%d)", uint8(k))
	}
}

// Destroy is a request to delete a GL object on the GL thread.
type Destroy struct {
	Kind   DestroyKind
	Handle uint32
}

// destroyQueue collects deletions from any goroutine until the device
// drains them on the GL thread. It is unbounded.
type destroyQueue struct {
	mu      sync.Mutex
	pending []Destroy
	closed  bool
	lg      *slog.Logger
}

func newDestroyQueue(lg *slog.Logger) *destroyQueue {
	return &destroyQueue{lg: lg}
}

func (q *destroyQueue) push(d Destroy) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("enqueue %s %d: %w", d.Kind, d.Handle, ErrDeviceClosed)
	}
	q.pending = append(q.pending, d)
	return nil
}

// drain moves every pending request into dst and returns it.
func (q *destroyQueue) drain(dst []Destroy) []Destroy {
	q.mu.Lock()
	defer q.mu.Unlock()

	dst = append(dst, q.pending...)
	clear(q.pending)
	q.pending = q.pending[:0]
	return dst
}

func (q *destroyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// close refuses further requests and returns the number still queued.
func (q *destroyQueue) close() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return len(q.pending)
}

// DestroySender is the producer side of a device's destruction queue. It is
// handed to every owner of a GPU object and may be copied freely and used
// from any goroutine.
type DestroySender struct {
	q *destroyQueue
}

// Send enqueues a deletion. It fails with ErrDeviceClosed once the device
// has been closed.
func (s DestroySender) Send(d Destroy) error {
	return s.q.push(d)
}

// mustSend enqueues a deletion from an explicit release. A closed queue
// means the device was torn down before its resources, which is a
// programmer error.
func (s DestroySender) mustSend(d Destroy) {
	if err := s.q.push(d); err != nil {
		s.q.lg.Error("resource released after device close", slog.String("kind", d.Kind.String()),
			slog.Uint64("handle", uint64(d.Handle)))
		panic(err)
	}
}

// leaked enqueues a deletion on behalf of a resource that became
// unreachable without being released. It runs on the cleanup goroutine, so
// it never panics.
func (s DestroySender) leaked(d Destroy) {
	if err := s.q.push(d); err != nil {
		s.q.lg.Error("leaked resource after device close", slog.String("kind", d.Kind.String()),
			slog.Uint64("handle", uint64(d.Handle)))
		return
	}
	s.q.lg.Warn("resource was not released", slog.String("kind", d.Kind.String()),
		slog.Uint64("handle", uint64(d.Handle)))
}
