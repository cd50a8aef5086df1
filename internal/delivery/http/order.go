package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-fulfillment/internal/service"
)

// CreateOrder
// @Summary CreateOrder
// @Description Turns the caller's cart into an order, reserving stock in the same transaction
// @ID create-order
// @Accept json
// @Produce json
// @Security CustomerBearer
// @Param input body service.CreateOrderInput true "delivery and payment details"
// @Success 201 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	id := identity(c)
	in.CustomerID = id.Subject
	if in.Email == "" {
		in.Email = id.Email
	}
	res, err := h.svc.CreateOrder(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusCreated, res)
}

// ListMyOrders
// @Summary ListMyOrders
// @Description Lists the caller's orders, newest first
// @ID list-my-orders
// @Produce json
// @Security CustomerBearer
// @Success 200 {object} dataResponse
// @Router /api/orders [get]
func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.svc.ListCustomerOrders(c.Request.Context(), identity(c).Subject)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, orders)
}

// GetMyOrder
// @Summary GetMyOrder
// @Description Returns one of the caller's orders
// @ID get-my-order
// @Produce json
// @Security CustomerBearer
// @Param id path int true "order id"
// @Success 200 {object} dataResponse
// @Failure 404 {object} errorResponse
// @Router /api/orders/{id} [get]
func (h *Handler) GetMyOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetOrder(c.Request.Context(), identity(c).Subject, id)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, res)
}

type registerDeviceRequest struct {
	Token string `json:"fcm_token" binding:"required"`
}

// RegisterDevice
// @Summary RegisterDevice
// @Description Stores the caller's FCM device token for push notifications
// @ID register-device
// @Accept json
// @Produce json
// @Security CustomerBearer
// @Param input body registerDeviceRequest true "device token"
// @Success 200 {object} dataResponse
// @Router /api/user/fcm-token [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	id := identity(c)
	if err := h.svc.RegisterDevice(c.Request.Context(), id.Subject, id.Email, req.Token); err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, gin.H{"registered": true})
}
