package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/service"
)

// GetStock
// @Summary GetStock
// @Description Returns per-size availability of a stock entry
// @ID get-stock
// @Produce json
// @Param id path int true "stock id"
// @Success 200 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/stocks/{id} [get]
func (h *Handler) GetStock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	st, err := h.svc.GetStock(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, st)
}

type setQuantitiesRequest struct {
	Quantities map[string]int `json:"quantities" binding:"required"`
}

// SetStockQuantities
// @Summary SetStockQuantities
// @Description Overwrites the counters of the given size buckets
// @ID set-stock-quantities
// @Accept json
// @Produce json
// @Security AdminBearer
// @Param id path int true "stock id"
// @Param input body setQuantitiesRequest true "size to quantity"
// @Success 200 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Router /api/admin/stocks/{id}/quantities [patch]
func (h *Handler) SetStockQuantities(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req setQuantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	q := make(map[models.Size]int, len(req.Quantities))
	for raw, n := range req.Quantities {
		size, ok := models.ParseSize(raw)
		if !ok {
			handleError(c, fmt.Errorf("%w: %q", service.ErrInvalidSize, raw))
			return
		}
		q[size] = n
	}
	st, err := h.svc.SetQuantities(c.Request.Context(), id, q)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, st)
}
