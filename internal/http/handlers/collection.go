package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/rsvp-backend/internal/http/response"
	"github.com/yungbote/rsvp-backend/internal/platform/apierr"
	"github.com/yungbote/rsvp-backend/internal/services/collections"
)

type CollectionHandler struct {
	collections collections.Service
}

func NewCollectionHandler(svc collections.Service) *CollectionHandler {
	return &CollectionHandler{collections: svc}
}

// GET /api/admin/collections
func (h *CollectionHandler) ListNames(c *gin.Context) {
	response.RespondOK(c, gin.H{"collections": h.collections.Names()})
}

// GET /api/admin/collections/:name
func (h *CollectionHandler) List(c *gin.Context) {
	name := c.Param("name")
	items, err := h.collections.List(c.Request.Context(), name)
	if err != nil {
		response.RespondDomainError(c, err, "list_failed")
		return
	}
	response.RespondOK(c, gin.H{"collection": name, "items": items})
}

// PUT /api/admin/collections/:name/order
func (h *CollectionHandler) Reorder(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondDomainError(c, apierr.New(http.StatusBadRequest, "invalid_id",
				fmt.Errorf("invalid id %q", raw)).WithFailedID(raw), "invalid_id")
			return
		}
		ids = append(ids, id)
	}

	res, err := h.collections.Reorder(c.Request.Context(), c.Param("name"), ids)
	if err != nil {
		response.RespondDomainError(c, err, "reorder_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"success":    true,
		"collection": res.Collection,
		"ordered":    res.Ordered,
		"duplicates": res.Duplicates,
		"trailing":   res.Trailing,
		"noop":       res.NoOp,
	})
}
