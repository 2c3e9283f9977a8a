package session

import (
	"context"
	"testing"
	"time"

	"github.com/rm-hull/image-enhancer/internal/enhance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func image2x2() *enhance.PixelBuffer {
	p, _ := enhance.NewPixelBuffer(2, 2, []uint8{
		100, 100, 100, 255, 50, 60, 70, 128,
		0, 0, 0, 0, 255, 255, 255, 255,
	})
	return p
}

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore()
	s, err := store.Create(image2x2())
	require.NoError(t, err)
	assert.Len(t, s.ID, 32)
	assert.Equal(t, enhance.Reset(), s.Params())
	assert.True(t, s.Enhanced().Equal(image2x2()))

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, store.Len())

	sum := s.Summary()
	assert.Equal(t, 2, sum.Width)
	assert.Equal(t, 2, sum.Height)
	assert.Equal(t, uint64(0), sum.Generation)
}

func TestStore_CreateRejectsMalformed(t *testing.T) {
	store := NewStore()
	_, err := store.Create(&enhance.PixelBuffer{Width: 3, Height: 3, Pix: make([]uint8, 4)})
	assert.ErrorIs(t, err, enhance.ErrInvalidInput)

	_, err = store.Create(nil)
	assert.ErrorIs(t, err, enhance.ErrInvalidInput)
	assert.Equal(t, 0, store.Len())
}

func TestStore_GetAndDeleteUnknown(t *testing.T) {
	store := NewStore()
	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("nope"), ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	s, err := store.Create(image2x2())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(s.ID))
	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Evict(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore()
	store.now = clock.Now

	stale, err := store.Create(image2x2())
	require.NoError(t, err)

	clock.t = clock.t.Add(20 * time.Minute)
	fresh, err := store.Create(image2x2())
	require.NoError(t, err)

	clock.t = clock.t.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Evict(30*time.Minute))

	_, err = store.Get(stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestStore_GetRefreshesAccess(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore()
	store.now = clock.Now

	s, err := store.Create(image2x2())
	require.NoError(t, err)

	clock.t = clock.t.Add(25 * time.Minute)
	_, err = store.Get(s.ID)
	require.NoError(t, err)

	clock.t = clock.t.Add(25 * time.Minute)
	assert.Equal(t, 0, store.Evict(30*time.Minute))
}

func TestSession_Apply(t *testing.T) {
	store := NewStore()
	s, err := store.Create(image2x2())
	require.NoError(t, err)

	t.Run("clamps and stores the result", func(t *testing.T) {
		out, err := s.Apply(context.Background(), enhance.Params{Brightness: 500, Contrast: 100, Saturation: 100})
		require.NoError(t, err)

		assert.Equal(t, 200.0, s.Params().Brightness)
		assert.Equal(t, []uint8{200, 200, 200, 255}, out.Pix[:4])
		assert.Same(t, out, s.Enhanced())
		assert.Equal(t, uint64(1), s.Summary().Generation)
	})

	t.Run("original is untouched", func(t *testing.T) {
		assert.True(t, s.Original().Equal(image2x2()))
	})

	t.Run("reset restores the original", func(t *testing.T) {
		out, err := s.Reset(context.Background())
		require.NoError(t, err)
		assert.True(t, out.Equal(image2x2()))
		assert.Equal(t, enhance.Reset(), s.Params())
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Apply(ctx, enhance.Params{Brightness: 10, Contrast: 100, Saturation: 100})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, enhance.Reset(), s.Params())
	})
}

func TestSession_LatestWins(t *testing.T) {
	store := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})
	store.enhance = func(buf *enhance.PixelBuffer, p enhance.Params) (*enhance.PixelBuffer, error) {
		if p.Brightness == 50 {
			close(started)
			<-release
		}
		return enhance.Enhance(buf, p)
	}

	s, err := store.Create(image2x2())
	require.NoError(t, err)

	staleErr := make(chan error, 1)
	go func() {
		_, err := s.Apply(context.Background(), enhance.Params{Brightness: 50, Contrast: 100, Saturation: 100})
		staleErr <- err
	}()
	<-started

	latest, err := s.Apply(context.Background(), enhance.Params{Brightness: 150, Contrast: 100, Saturation: 100})
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-staleErr, ErrSuperseded)
	assert.Equal(t, 150.0, s.Params().Brightness)
	assert.Same(t, latest, s.Enhanced())
	assert.Equal(t, uint64(2), s.Summary().Generation)
}

func TestSession_LatestWinsWhenCallerCancels(t *testing.T) {
	store := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.enhance = func(buf *enhance.PixelBuffer, p enhance.Params) (*enhance.PixelBuffer, error) {
		switch p.Brightness {
		case 50:
			close(started)
			<-release
		case 150:
			cancel()
		}
		return enhance.Enhance(buf, p)
	}

	s, err := store.Create(image2x2())
	require.NoError(t, err)

	staleErr := make(chan error, 1)
	go func() {
		_, err := s.Apply(context.Background(), enhance.Params{Brightness: 50, Contrast: 100, Saturation: 100})
		staleErr <- err
	}()
	<-started

	latest, err := s.Apply(ctx, enhance.Params{Brightness: 150, Contrast: 100, Saturation: 100})
	require.NoError(t, err)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	close(release)
	assert.ErrorIs(t, <-staleErr, ErrSuperseded)
	assert.Equal(t, 150.0, s.Params().Brightness)
	assert.Same(t, latest, s.Enhanced())
}
