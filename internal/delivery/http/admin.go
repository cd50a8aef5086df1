package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-fulfillment/internal/models"
	"shop-fulfillment/internal/service"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type trackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
	CourierID      uint   `json:"courier_id"`
}

// ListOrders
// @Summary ListOrders
// @Description Lists every order with its summary
// @ID admin-list-orders
// @Produce json
// @Security AdminBearer
// @Success 200 {object} dataResponse
// @Failure 401,403 {object} errorResponse
// @Router /api/admin/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.svc.ListOrders(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, orders)
}

// UpdateOrderStatus
// @Summary UpdateOrderStatus
// @Description Sets an order status directly. Cancelling releases reserved stock.
// @ID admin-update-order-status
// @Accept json
// @Produce json
// @Security AdminBearer
// @Param id path int true "order id"
// @Param input body statusRequest true "new status"
// @Success 200 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Router /api/admin/orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), id, models.Status(req.Status), identity(c).Subject)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, o)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	h.transition(c, h.svc.CancelOrder)
}

// AddTracking
// @Summary AddTracking
// @Description Marks a delivery order shipped. The tracking number "withoutTracking" skips the courier and the notification.
// @ID admin-add-tracking
// @Accept json
// @Produce json
// @Security AdminBearer
// @Param id path int true "order id"
// @Param input body trackingRequest true "tracking"
// @Success 200 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Router /api/admin/orders/{id}/tracking [post]
func (h *Handler) AddTracking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req trackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := h.svc.MarkShipped(c.Request.Context(), id, req.TrackingNumber, req.CourierID, identity(c).Subject)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, o)
}

func (h *Handler) MarkReadyForPickup(c *gin.Context) {
	h.transition(c, h.svc.MarkReadyForPickup)
}

func (h *Handler) MarkPickedUp(c *gin.Context) {
	h.transition(c, h.svc.MarkPickedUp)
}

func (h *Handler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.svc.MarkDelivered)
}

// DeleteOrder
// @Summary DeleteOrder
// @Description Deletes an unpaid order and returns its reservation to stock
// @ID admin-delete-order
// @Produce json
// @Security AdminBearer
// @Param id path int true "order id"
// @Success 200 {object} dataResponse
// @Failure 403,404 {object} errorResponse
// @Router /api/admin/orders/{id} [delete]
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, gin.H{"deleted": id})
}

type transitionFunc func(ctx context.Context, orderID uint, actorID string) (models.Order, error)

func (h *Handler) transition(c *gin.Context, fn transitionFunc) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	o, err := fn(c.Request.Context(), id, identity(c).Subject)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, o)
}

func (h *Handler) ListCouriers(c *gin.Context) {
	list, err := h.svc.ListCouriers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, list)
}

// CreateCourier
// @Summary CreateCourier
// @Description Adds a courier. An active courier deactivates every other one.
// @ID admin-create-courier
// @Accept json
// @Produce json
// @Security AdminBearer
// @Param input body service.CourierInput true "courier"
// @Success 201 {object} dataResponse
// @Failure 400 {object} errorResponse
// @Router /api/admin/couriers [post]
func (h *Handler) CreateCourier(c *gin.Context) {
	var in service.CourierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	courier, err := h.svc.CreateCourier(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusCreated, courier)
}

func (h *Handler) ToggleCourier(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	courier, err := h.svc.ToggleCourierActive(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, courier)
}

// UpdateCourier
// @Summary UpdateCourier
// @Description Edits a courier. Omitted fields keep their value; activating it deactivates every other courier.
// @ID admin-update-courier
// @Accept json
// @Produce json
// @Security AdminBearer
// @Param id path int true "courier id"
// @Param input body service.CourierPatch true "fields to change"
// @Success 200 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Router /api/admin/couriers/{id} [put]
func (h *Handler) UpdateCourier(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in service.CourierPatch
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	courier, err := h.svc.UpdateCourier(c.Request.Context(), id, in)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, courier)
}

func (h *Handler) DeleteCourier(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCourier(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, gin.H{"deleted": id})
}
