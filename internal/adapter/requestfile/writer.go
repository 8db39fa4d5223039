// Package requestfile records restock requests as lines of a plain text file
// for the purchasing team.
package requestfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type Writer struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// Create truncates path and returns a writer appending one line per request.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not find or create %s: %w", path, err)
	}
	return &Writer{w: f, c: f}, nil
}

// New writes requests to w. Close is a no-op.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Request(_ context.Context, req interfaces.RestockRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.w, "ITEM REQUIRED : %s %d\n", req.Ingredient, req.Quantity); err != nil {
		return fmt.Errorf("failed to write restock request: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w.c == nil {
		return nil
	}
	return w.c.Close()
}
