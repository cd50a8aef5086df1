package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/service"
)

type addToCartRequest struct {
	StockID  uint   `json:"stock_id" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart
// @Summary GetCart
// @Description Lists the caller's cart with subtotal, weight and estimated delivery fee
// @ID get-cart
// @Produce json
// @Security CustomerBearer
// @Success 200 {object} dataResponse
// @Failure 401 {object} errorResponse
// @Router /api/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), identity(c).Subject)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, view)
}

// AddToCart
// @Summary AddToCart
// @Description Adds a size of a stock entry to the cart, merging with an existing line
// @ID add-to-cart
// @Accept json
// @Produce json
// @Security CustomerBearer
// @Param input body addToCartRequest true "cart line"
// @Success 201 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Router /api/carts [post]
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	size, ok := models.ParseSize(req.Size)
	if !ok {
		handleError(c, fmt.Errorf("%w: %q", service.ErrInvalidSize, req.Size))
		return
	}
	line, err := h.svc.AddItem(c.Request.Context(), identity(c).Subject, req.StockID, size, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusCreated, line)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	change, err := h.svc.UpdateQuantity(c.Request.Context(), identity(c).Subject, id, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, change)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	sum, err := h.svc.RemoveLine(c.Request.Context(), identity(c).Subject, id)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, gin.H{"summary": sum})
}

func (h *Handler) IncreaseCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	change, err := h.svc.Increment(c.Request.Context(), identity(c).Subject, id)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, change)
}

func (h *Handler) DecreaseCartItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	change, err := h.svc.Decrement(c.Request.Context(), identity(c).Subject, id)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, change)
}
