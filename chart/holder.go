package chart

import (
	"io"
	"sync"

	"quote-search/models"
)

// Resource is whatever a renderer allocates for one chart.
type Resource interface {
	io.Closer
}

// Holder owns at most one chart resource at a time.
type Holder struct {
	mu      sync.Mutex
	current Resource
}

// Replace releases the current resource, then installs next. A nil next
// leaves the holder empty. The error is the one from closing the old
// resource; next is installed regardless.
func (h *Holder) Replace(next Resource) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.current != nil {
		err = h.current.Close()
	}
	h.current = next
	return err
}

// Current returns the installed resource, or nil.
func (h *Holder) Current() Resource {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Close releases the current resource and leaves the holder empty.
func (h *Holder) Close() error {
	return h.Replace(nil)
}

// Dataset is the Resource used when no external renderer is attached. It
// keeps the labelled series until released.
type Dataset struct {
	Label  string
	Points []models.PricePoint
	closed bool
}

// NewDataset returns a nil Resource when there are no points, so that
// Replace clears the chart instead of installing an empty one.
func NewDataset(label string, points []models.PricePoint) Resource {
	if len(points) == 0 {
		return nil
	}
	return &Dataset{Label: label, Points: points}
}

func (d *Dataset) Close() error {
	d.closed = true
	d.Points = nil
	return nil
}

// Closed reports whether the dataset has been released.
func (d *Dataset) Closed() bool { return d.closed }
