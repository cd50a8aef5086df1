package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-fulfillment/internal/payhere"
)

// PayHereNotify
// @Summary PayHereNotify
// @Description Payment gateway notify_url. Accepts form or JSON. Replays are idempotent.
// @ID payhere-notify
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Success 200 {object} dataResponse
// @Failure 400,404 {object} errorResponse
// @Router /api/payhere/notify [post]
func (h *Handler) PayHereNotify(c *gin.Context) {
	var cb payhere.Callback
	if err := c.ShouldBind(&cb); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.svc.ReconcilePayment(c.Request.Context(), cb)
	if err != nil {
		handleError(c, err)
		return
	}
	newResponse(c, http.StatusOK, res)
}
