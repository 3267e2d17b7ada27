package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oms-support/ticketdesk/internal/model"
	"github.com/oms-support/ticketdesk/internal/service"
)

type AccepterHandler struct {
	svc *service.AccepterService
}

func NewAccepterHandler(svc *service.AccepterService) *AccepterHandler {
	return &AccepterHandler{svc: svc}
}

// List returns the staff directory for the assignment dropdown.
func (h *AccepterHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err, "list accepters")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepters": items, "total": len(items)})
}

// Operators returns the supported carriers for the submission form.
func (h *AccepterHandler) Operators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"operators": model.Operators()})
}
