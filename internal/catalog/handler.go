package catalog

import (
	"context"
	"errors"
	"net"

	"github.com/gin-gonic/gin"

	"safari_crm_backend/platform/apperr"
	"safari_crm_backend/platform/httpkit"
	"safari_crm_backend/platform/logger"
)

// Handler exposes the catalog lookups over HTTP.
type Handler struct {
	reader Reader
	log    *logger.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(reader Reader, log *logger.Logger) *Handler {
	return &Handler{reader: reader, log: log}
}

// RegisterRoutes mounts catalog routes on the provided group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog/lookups", h.Lookups)
}

// Lookups serves every dropdown dataset in one response so the
// dashboard can hydrate its filters with a single request.
func (h *Handler) Lookups(c *gin.Context) {
	lookups, err := h.reader.Lookups(c.Request.Context())
	if err != nil {
		h.log.StoreError("catalog lookups", err)
		httpkit.HandleError(c, classify(err))
		return
	}
	httpkit.OK(c, lookups)
}

func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUnavailable, "the backing store is unreachable, try again", err)
	}
	return apperr.Wrap(apperr.KindInternal, "internal error", err)
}
