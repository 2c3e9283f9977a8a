package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rs/zerolog/log"
)

var ErrImageTooLarge = errors.New("image too large")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type HttpImageFetcher struct {
	client   HTTPClient
	maxBytes int64
}

// NewImageFetcher returns a fetcher whose response bodies are cut off
// after maxBytes.
func NewImageFetcher(maxBytes int64) ImageFetcher {
	return &HttpImageFetcher{
		client:   &http.Client{},
		maxBytes: maxBytes,
	}
}

func (f *HttpImageFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log.Info().Str("url", url).Msg("Retrieving image")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", "image-enhancer/"+versioninfo.Short())

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return &limitedBody{body: res.Body, remaining: f.maxBytes, maxBytes: f.maxBytes}, nil
}

// limitedBody fails reads once more than maxBytes have arrived, rather
// than truncating the image.
type limitedBody struct {
	body      io.ReadCloser
	remaining int64
	maxBytes  int64
}

func (l *limitedBody) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var extra [1]byte
		n, err := l.body.Read(extra[:])
		if n > 0 {
			return 0, fmt.Errorf("%w: image exceeds %d bytes", ErrImageTooLarge, l.maxBytes)
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.body.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func (l *limitedBody) Close() error {
	return l.body.Close()
}
