package statusd

import (
	"fmt"
	"io"
	"sync"
)

// Display is the rendering collaborator the service hands finished segments
// to. The LED scroller implements this on real hardware; how it scrolls is
// its own business.
type Display interface {
	Show(text string) error
	Clear() error
}

// WriterDisplay writes each segment on its own line. It backs foreground
// runs and tests, standing in for the LED hardware.
type WriterDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

func (d *WriterDisplay) Show(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintln(d.w, text)
	return err
}

func (d *WriterDisplay) Clear() error {
	return nil
}
