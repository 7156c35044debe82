// Package height abstracts the camera altitude lookup. The detection node
// asks for the altitude at every frame; a provider that cannot answer makes
// the frame a skip, never a stall.
package height

import (
	"errors"
	"sync"
	"time"
)

// ErrUnavailable is returned when no usable altitude is known. Frames
// processed under this condition are dropped, which is a normal operating
// state for the pipeline.
var ErrUnavailable = errors.New("camera height unavailable")

// Provider reports the camera altitude above the ground plane in meters.
type Provider interface {
	Height(at time.Time) (float64, error)
}

// Static is a fixed-altitude provider, useful for bench setups and replayed
// video where the camera height is known.
type Static float64

// Height returns the fixed altitude.
func (s Static) Height(time.Time) (float64, error) {
	return float64(s), nil
}

// Sampled keeps the most recent altitude reading and treats readings older
// than MaxAge as unavailable. It is safe for one writer (the localization
// feed) and one reader (the frame loop).
type Sampled struct {
	MaxAge time.Duration

	mu      sync.Mutex
	value   float64
	stamp   time.Time
	hasData bool
}

// NewSampled creates a provider that trusts readings for maxAge.
func NewSampled(maxAge time.Duration) *Sampled {
	return &Sampled{MaxAge: maxAge}
}

// Update records a new altitude reading.
func (s *Sampled) Update(value float64, stamp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.stamp = stamp
	s.hasData = true
}

// Height returns the last reading, or ErrUnavailable when there is none or
// it has gone stale.
func (s *Sampled) Height(at time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasData {
		return 0, ErrUnavailable
	}
	if s.MaxAge > 0 && at.Sub(s.stamp) > s.MaxAge {
		return 0, ErrUnavailable
	}
	return s.value, nil
}
