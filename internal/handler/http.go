package handler

import (
	"net/http"

	"cuentos-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestHandler exposes the order-management API over gin.
type RequestHandler struct {
	service service.RequestService
	logger  *zap.Logger
}

// NewRequestHandler creates the HTTP handler for the order API.
func NewRequestHandler(svc service.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		service: svc,
		logger:  logger.Named("RequestHandler"),
	}
}

// RegisterRoutes mounts the API. rateLimit guards the public intake endpoint
// only; everything else sits behind the staff reverse proxy.
func (h *RequestHandler) RegisterRoutes(router *gin.Engine, rateLimit gin.HandlerFunc) {
	api := router.Group("/api")
	{
		requests := api.Group("/requests")
		{
			if rateLimit != nil {
				requests.POST("", rateLimit, h.submitIntake)
			} else {
				requests.POST("", h.submitIntake)
			}
			requests.GET("", h.listRequests)
			requests.GET("/:id", h.getRequest)
			requests.DELETE("/:id", h.deleteRequest)

			requests.POST("/:id/options", h.sendPlotOptions)
			requests.GET("/:id/options", h.listPlotOptions)
			requests.POST("/:id/selection", h.selectPlot)
			requests.POST("/:id/payment-link", h.sendPaymentLink)
			requests.POST("/:id/transition", h.advanceStatus)
			requests.PUT("/:id/production-days", h.setProductionDays)
			requests.GET("/:id/delivery-date", h.deliveryDate)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/checkout", h.createCheckout)
			payments.GET("/return", h.paymentReturn)
			payments.POST("/webhook", h.paymentWebhook)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
