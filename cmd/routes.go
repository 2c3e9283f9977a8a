package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/image-enhancer/internal"
	"github.com/rm-hull/image-enhancer/internal/session"
)

// NewRouter registers the enhancement API on r.
func NewRouter(r *gin.Engine, store *session.Store, cfg *internal.Config) {
	h := &handlers{store: store, cfg: cfg}
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	v1 := r.Group("/v1", h.limitBody)
	v1.POST("/enhance", h.enhanceOnce)

	images := v1.Group("/images")
	images.POST("", h.upload)
	images.GET("/:id", h.summary)
	images.DELETE("/:id", h.remove)
	images.PUT("/:id/params", h.updateParams)
	images.POST("/:id/reset", h.reset)
	images.GET("/:id/original", h.original)
	images.GET("/:id/enhanced", h.enhanced)
	images.GET("/:id/preview", h.preview)
	images.GET("/:id/compare", h.compare)
}
