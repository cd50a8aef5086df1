package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "shop-fulfillment/docs"
	"shop-fulfillment/internal/auth"
	"shop-fulfillment/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handler struct {
	svc       *service.Services
	customers auth.Verifier
	admins    auth.Verifier
}

func NewHandler(svc *service.Services, customers, admins auth.Verifier) *Handler {
	return &Handler{svc: svc, customers: customers, admins: admins}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()
	router.Use(requestID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.GET("/stocks/:id", h.GetStock)
		api.POST("/payhere/notify", h.PayHereNotify)
	}

	customer := api.Group("", authenticate(h.customers))
	{
		customer.GET("/cart", h.GetCart)
		customer.POST("/carts", h.AddToCart)
		customer.PUT("/carts/:id", h.UpdateCartItem)
		customer.DELETE("/carts/:id", h.RemoveCartItem)
		customer.PATCH("/carts/:id/increase", h.IncreaseCartItem)
		customer.PATCH("/carts/:id/decrease", h.DecreaseCartItem)

		customer.POST("/orders", h.CreateOrder)
		customer.GET("/orders", h.ListMyOrders)
		customer.GET("/orders/:id", h.GetMyOrder)

		customer.POST("/user/fcm-token", h.RegisterDevice)
	}

	admin := api.Group("/admin", authenticate(h.admins))
	{
		admin.GET("/orders", h.ListOrders)
		admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
		admin.POST("/orders/:id/cancel", h.CancelOrder)
		admin.POST("/orders/:id/tracking", h.AddTracking)
		admin.POST("/orders/:id/ready-for-pickup", h.MarkReadyForPickup)
		admin.POST("/orders/:id/picked-up", h.MarkPickedUp)
		admin.POST("/orders/:id/delivered", h.MarkDelivered)
		admin.DELETE("/orders/:id", h.DeleteOrder)

		admin.GET("/couriers", h.ListCouriers)
		admin.POST("/couriers", h.CreateCourier)
		admin.PUT("/couriers/:id", h.UpdateCourier)
		admin.DELETE("/couriers/:id", h.DeleteCourier)
		admin.PATCH("/couriers/:id/toggle-active", h.ToggleCourier)

		admin.PATCH("/stocks/:id/quantities", h.SetStockQuantities)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			newErrorResponse(c, http.StatusNotFound, service.KindNotFound, "not found")
			return
		}
		c.Status(http.StatusNotFound)
	})

	return router
}
