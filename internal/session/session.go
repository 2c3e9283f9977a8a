// Package session keeps uploaded images and their current enhancement so
// that a client can move one control at a time and fetch the result.
//
// Every change to a session's parameters recomputes the enhanced image from
// the original. When changes overlap, only the most recently started one
// is kept; older results are dropped on completion. The context is only
// checked before the computation starts: once the newest change has been
// computed it is stored even if its caller has gone away, so the session
// always holds the parameters of the latest change it began.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rm-hull/image-enhancer/internal/enhance"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrSuperseded = errors.New("superseded by a newer request")
)

type EnhanceFunc func(*enhance.PixelBuffer, enhance.Params) (*enhance.PixelBuffer, error)

type Session struct {
	ID      string
	Created time.Time

	original *enhance.PixelBuffer
	enhance  EnhanceFunc
	now      func() time.Time

	mu         sync.Mutex
	params     enhance.Params
	enhanced   *enhance.PixelBuffer
	generation uint64
	lastAccess time.Time
}

type Summary struct {
	ID         string         `json:"id"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Params     enhance.Params `json:"params"`
	Generation uint64         `json:"generation"`
	Created    time.Time      `json:"created"`
	LastAccess time.Time      `json:"lastAccess"`
}

func (s *Session) Original() *enhance.PixelBuffer {
	return s.original
}

// Enhanced returns the result of the latest completed Apply, or the
// original if none has completed yet.
func (s *Session) Enhanced() *enhance.PixelBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enhanced
}

func (s *Session) Params() enhance.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:         s.ID,
		Width:      s.original.Width,
		Height:     s.original.Height,
		Params:     s.params,
		Generation: s.generation,
		Created:    s.Created,
		LastAccess: s.lastAccess,
	}
}

// Apply clamps params into range and re-enhances the original with them.
// It returns ErrSuperseded if another Apply started before this one
// finished, in which case the session keeps the newer result. A context
// cancelled before the work starts leaves the session unchanged.
func (s *Session) Apply(ctx context.Context, params enhance.Params) (*enhance.PixelBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params = params.Clamp()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.lastAccess = s.now()
	s.mu.Unlock()

	out, err := s.enhance(s.original, params)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, ErrSuperseded
	}
	s.params = params
	s.enhanced = out
	return out, nil
}

func (s *Session) Reset(ctx context.Context) (*enhance.PixelBuffer, error) {
	return s.Apply(ctx, enhance.Reset())
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}
