package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/image-enhancer/internal"
	"github.com/rm-hull/image-enhancer/internal/enhance"
	"github.com/rm-hull/image-enhancer/internal/imageio"
	"github.com/rm-hull/image-enhancer/internal/session"
	"github.com/rs/zerolog/log"
)

const downloadName = "enhanced-image"

var errBadRequest = errors.New("bad request")

type handlers struct {
	store *session.Store
	cfg   *internal.Config
}

func (h *handlers) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	c.Next()
}

// enhanceOnce enhances an uploaded image without creating a session.
func (h *handlers) enhanceOnce(c *gin.Context) {
	pic, err := h.readUpload(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	params, err := formParams(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out, err := enhance.Enhance(enhance.FromImage(pic.Img), params.Clamp())
	if err != nil {
		abortWithError(c, err)
		return
	}
	writeImage(c, out.Image(), c.DefaultQuery("format", "png"), false)
}

func (h *handlers) upload(c *gin.Context) {
	pic, err := h.readUpload(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	sess, err := h.store.Create(enhance.FromImage(pic.Img))
	if err != nil {
		abortWithError(c, err)
		return
	}
	log.Info().Str("id", sess.ID).Str("format", pic.Format).
		Int("width", pic.Bounds.Dx()).Int("height", pic.Bounds.Dy()).
		Msg("Created session")

	c.JSON(http.StatusCreated, sess.Summary())
}

func (h *handlers) summary(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Summary())
}

func (h *handlers) remove(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// updateParams merges the JSON body into the current parameters, so a
// client may send only the control that changed.
func (h *handlers) updateParams(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	params := sess.Params()
	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	if _, err := sess.Apply(c.Request.Context(), params); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Summary())
}

func (h *handlers) reset(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := sess.Reset(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Summary())
}

func (h *handlers) original(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	writeImage(c, sess.Original().Image(), c.DefaultQuery("format", "png"), false)
}

func (h *handlers) enhanced(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	writeImage(c, sess.Enhanced().Image(), c.DefaultQuery("format", "png"), true)
}

func (h *handlers) preview(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	maxSize, err := h.previewSize(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var img image.Image
	switch which := c.DefaultQuery("which", "enhanced"); which {
	case "enhanced":
		img = sess.Enhanced().Image()
	case "original":
		img = sess.Original().Image()
	default:
		abortWithError(c, fmt.Errorf("%w: which must be original or enhanced, got %q", errBadRequest, which))
		return
	}
	writeImage(c, imageio.Preview(img, maxSize), "png", false)
}

func (h *handlers) compare(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	maxSize, err := h.previewSize(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	data, err := imageio.Compare(
		imageio.Preview(sess.Original().Image(), maxSize),
		imageio.Preview(sess.Enhanced().Image(), maxSize),
		h.cfg.CompareDelay,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/apng", data)
}

func (h *handlers) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *handlers) readUpload(c *gin.Context) (*imageio.Picture, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: missing image upload: %w", errBadRequest, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	pic, err := imageio.DecodeLimited(f, h.cfg.MaxPixels)
	if err != nil && !errors.Is(err, imageio.ErrUnsupportedFormat) && !errors.Is(err, imageio.ErrTooManyPixels) {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return pic, err
}

func (h *handlers) previewSize(c *gin.Context) (int, error) {
	v := c.Query("max")
	if v == "" {
		return h.cfg.PreviewMax, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: invalid max %q", errBadRequest, v)
	}
	return n, nil
}

// formParams reads the four controls from form or query values, defaulting
// any that are absent to their reset value.
func formParams(c *gin.Context) (enhance.Params, error) {
	params := enhance.Reset()
	for name, dst := range map[string]*float64{
		"brightness": &params.Brightness,
		"contrast":   &params.Contrast,
		"saturation": &params.Saturation,
		"sharpness":  &params.Sharpness,
	} {
		v, ok := c.GetPostForm(name)
		if !ok {
			v, ok = c.GetQuery(name)
		}
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, v)
		}
		*dst = f
	}
	return params, nil
}

func writeImage(c *gin.Context, img image.Image, format string, attachment bool) {
	format = strings.ToLower(format)
	if format == "" {
		format = "png"
	}
	var buf bytes.Buffer
	if err := imageio.NewPicture(img).WriteFormat(&buf, format); err != nil {
		abortWithError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if attachment {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, downloadName, imageio.Extension(format)))
	}
	c.Data(http.StatusOK, imageio.ContentType(format), buf.Bytes())
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesErr), errors.Is(err, imageio.ErrTooManyPixels):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest), errors.Is(err, enhance.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, imageio.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrSuperseded):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
