package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{10, 20, 30, 128})
			}
		}
	}
	return img
}

type recordingStage struct{ calls *[]string }

func (s *recordingStage) Process(p *Picture) error {
	*s.calls = append(*s.calls, "recorded")
	return nil
}

type failingStage struct{}

func (s *failingStage) Process(p *Picture) error {
	return errors.New("boom")
}

func TestNewPictureFromReader(t *testing.T) {
	t.Run("png round trip", func(t *testing.T) {
		src := checker(4, 3)
		var buf bytes.Buffer
		require.NoError(t, NewPicture(src).Write(&buf))

		pic, err := NewPictureFromReader(&buf)
		require.NoError(t, err)
		assert.Equal(t, "png", pic.Format)
		assert.Equal(t, image.Rect(0, 0, 4, 3), pic.Bounds)

		got := color.NRGBAModel.Convert(pic.Img.At(1, 0)).(color.NRGBA)
		assert.Equal(t, color.NRGBA{10, 20, 30, 128}, got)
	})

	t.Run("jpeg is detected", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, checker(8, 8), nil))

		pic, err := NewPictureFromReader(&buf)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", pic.Format)
	})

	t.Run("unknown data", func(t *testing.T) {
		_, err := NewPictureFromReader(bytes.NewBufferString("this is not an image"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestDecodeLimited(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPicture(checker(100, 80)).Write(&buf))
	data := buf.Bytes()

	t.Run("rejects from the header", func(t *testing.T) {
		_, err := DecodeLimited(bytes.NewReader(data), 100*80-1)
		assert.ErrorIs(t, err, ErrTooManyPixels)
		assert.ErrorContains(t, err, "100x80")
	})

	t.Run("decodes the whole stream at the limit", func(t *testing.T) {
		pic, err := DecodeLimited(bytes.NewReader(data), 100*80)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 100, 80), pic.Bounds)
		assert.Equal(t, color.NRGBA{10, 20, 30, 128}, color.NRGBAModel.Convert(pic.Img.At(99, 0)))
	})

	t.Run("huge declared size is not allocated", func(t *testing.T) {
		// A valid PNG header that claims 65535x65535 but carries no pixels.
		ihdr := []byte("IHDR\x00\x00\xff\xff\x00\x00\xff\xff\x08\x06\x00\x00\x00")
		header := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0d")
		header = append(header, ihdr...)
		header = binary.BigEndian.AppendUint32(header, crc32.ChecksumIEEE(ihdr))

		_, err := DecodeLimited(bytes.NewReader(header), 40_000_000)
		assert.ErrorIs(t, err, ErrTooManyPixels)
	})

	t.Run("unknown data", func(t *testing.T) {
		_, err := DecodeLimited(bytes.NewBufferString("not an image"), 10)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestPicture_WriteFormat(t *testing.T) {
	pic := NewPicture(checker(5, 5))

	for _, format := range []string{"png", "jpeg", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, pic.WriteFormat(&buf, format))

			decoded, err := NewPictureFromReader(&buf)
			require.NoError(t, err)
			assert.Equal(t, format, decoded.Format)
			assert.Equal(t, pic.Bounds, decoded.Bounds)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		err := pic.WriteFormat(&bytes.Buffer{}, "xcf")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("png"))
	assert.Equal(t, "image/png", ContentType(""))
	assert.Equal(t, "image/jpeg", ContentType("JPG"))
	assert.Equal(t, "image/tiff", ContentType("tif"))
	assert.Equal(t, "image/bmp", ContentType("bmp"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "png", Extension(""))
	assert.Equal(t, "jpg", Extension("JPEG"))
	assert.Equal(t, "jpg", Extension("jpg"))
	assert.Equal(t, "tiff", Extension("TIF"))
	assert.Equal(t, "bmp", Extension("Bmp"))
}

func TestPicture_Pipeline(t *testing.T) {
	var calls []string
	pic := NewPicture(checker(2, 2))

	err := pic.Pipeline(&recordingStage{&calls}, &recordingStage{&calls})
	assert.NoError(t, err)
	assert.Equal(t, []string{"recorded", "recorded"}, calls)

	calls = nil
	err = pic.Pipeline(&failingStage{}, &recordingStage{&calls})
	assert.EqualError(t, err, "boom")
	assert.Empty(t, calls)
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxSize int
		want    image.Rectangle
	}{
		{"landscape", 400, 200, 100, image.Rect(0, 0, 100, 50)},
		{"portrait", 30, 90, 45, image.Rect(0, 0, 15, 45)},
		{"already small", 20, 10, 100, image.Rect(0, 0, 20, 10)},
		{"disabled", 400, 200, 0, image.Rect(0, 0, 400, 200)},
		{"thin strip keeps one pixel", 1000, 1, 10, image.Rect(0, 0, 10, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preview(checker(tt.w, tt.h), tt.maxSize)
			assert.Equal(t, tt.want, got.Bounds())
		})
	}
}

func TestCompare(t *testing.T) {
	data, err := Compare(checker(3, 3), image.NewNRGBA(image.Rect(0, 0, 3, 3)), 0.5)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.True(t, bytes.Contains(data, []byte("acTL")), "missing animation control chunk")
	assert.Equal(t, 2, bytes.Count(data, []byte("fcTL")))
}

func TestCompare_FrameDelay(t *testing.T) {
	frame := checker(2, 2)

	for _, delay := range []float64{0, -1, 65.536, 100} {
		_, err := Compare(frame, frame, delay)
		assert.ErrorIs(t, err, ErrInvalidDelay, "delay %v", delay)
	}

	data, err := Compare(frame, frame, MaxFrameDelay)
	require.NoError(t, err)

	// fcTL payload: sequence(4) width(4) height(4) x(4) y(4) delay_num(2) delay_den(2)
	i := bytes.Index(data, []byte("fcTL"))
	require.GreaterOrEqual(t, i, 0)
	num := binary.BigEndian.Uint16(data[i+4+20:])
	den := binary.BigEndian.Uint16(data[i+4+22:])
	assert.Equal(t, uint16(65535), num)
	assert.Equal(t, uint16(1000), den)
}
