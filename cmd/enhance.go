package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rm-hull/image-enhancer/internal"
	"github.com/rm-hull/image-enhancer/internal/enhance"
	"github.com/rm-hull/image-enhancer/internal/imageio"
	"github.com/rm-hull/image-enhancer/internal/imageio/stage"
	"github.com/rs/zerolog/log"
)

type EnhanceOptions struct {
	Input        string
	Output       string
	Params       enhance.Params
	Reset        bool
	Format       string
	PreviewMax   int
	Smooth       float64
	Compare      bool
	CompareDelay float64
	MaxBytes     int64
	MaxPixels    int64
}

// Enhance reads an image from a file or http(s) URL, enhances it and writes
// the result to opts.Output. With opts.Compare the output is an animated
// PNG alternating between the original and the enhanced image.
func Enhance(ctx context.Context, opts EnhanceOptions) error {
	if opts.Compare && !(opts.CompareDelay > 0 && opts.CompareDelay <= imageio.MaxFrameDelay) {
		return fmt.Errorf("%w: --compare-delay must be in (0, %v], got %v", imageio.ErrInvalidDelay, imageio.MaxFrameDelay, opts.CompareDelay)
	}
	params := opts.Params
	if opts.Reset {
		params = enhance.Reset()
	}
	if clamped := params.Clamp(); clamped != params {
		log.Warn().Stringer("requested", params).Stringer("clamped", clamped).Msg("Parameters out of range")
		params = clamped
	}

	in, err := openInput(ctx, opts.Input, internal.NewImageFetcher(opts.MaxBytes))
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	original, err := imageio.DecodeLimited(in, opts.MaxPixels)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", opts.Input, err)
	}
	log.Info().
		Str("input", opts.Input).
		Str("format", original.Format).
		Int("width", original.Bounds.Dx()).
		Int("height", original.Bounds.Dy()).
		Stringer("params", params).
		Msg("Enhancing image")

	stages := []imageio.PipelineStage{&stage.EnhanceStage{Params: params}}
	if opts.Smooth > 0 {
		stages = append(stages, &stage.SmoothStage{Sigma: opts.Smooth})
	}
	if opts.PreviewMax > 0 {
		stages = append(stages, &stage.PreviewStage{MaxSize: opts.PreviewMax})
	}

	enhanced := imageio.NewPicture(original.Img)
	if err := enhanced.Pipeline(stages...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	write := func(w io.Writer) error {
		return enhanced.WriteFormat(w, opts.Format)
	}
	if opts.Compare {
		before := imageio.Preview(original.Img, opts.PreviewMax)
		write = func(w io.Writer) error {
			data, err := imageio.Compare(before, enhanced.Img, opts.CompareDelay)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}
	}

	if err := writeAtomically(opts.Output, write); err != nil {
		return err
	}
	log.Info().Str("output", opts.Output).Msg("Wrote enhanced image")
	return nil
}

func openInput(ctx context.Context, input string, fetcher internal.ImageFetcher) (io.ReadCloser, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return fetcher.Fetch(ctx, input)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// writeAtomically writes to a temporary file next to filename and renames
// it into place once write has succeeded.
func writeAtomically(filename string, write func(io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), "enhance-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := write(tmpFile); err != nil {
		return fmt.Errorf("failed to write processed image to temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false // Successfully renamed, don't delete
	return nil
}
