package dashboard

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gin-gonic/gin"

	"safari_crm_backend/platform/apperr"
	"safari_crm_backend/platform/httpkit"
	"safari_crm_backend/platform/logger"
)

// Handler exposes dashboard metrics over HTTP.
type Handler struct {
	reader Reader
	log    *logger.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(reader Reader, log *logger.Logger) *Handler {
	return &Handler{reader: reader, log: log}
}

// RegisterRoutes mounts dashboard routes on the provided group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/metrics", h.Metrics)
}

func (h *Handler) Metrics(c *gin.Context) {
	metrics, err := h.reader.Metrics(c.Request.Context(), time.Now())
	if err != nil {
		h.log.StoreError("dashboard metrics", err)
		httpkit.HandleError(c, classify(err))
		return
	}
	httpkit.OK(c, metrics)
}

func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUnavailable, "the backing store is unreachable, try again", err)
	}
	return apperr.Wrap(apperr.KindInternal, "internal error", err)
}
