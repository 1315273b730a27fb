package handler

import (
	"net/http"

	"cuentos-server/internal/models"
	"cuentos-server/internal/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *RequestHandler) createCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	initURL, err := h.service.CreateCheckout(c.Request.Context(), req.RequestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"initUrl": initURL})
}

// paymentReturn handles the gateway's browser redirect. It only maps the
// status to a display outcome; confirmation happens via the webhook.
func (h *RequestHandler) paymentReturn(c *gin.Context) {
	status := c.Query("status")
	requestID := c.Query("external_reference")

	outcome := payment.MapReturnStatus(status)
	h.logger.Info("Payment return received",
		zap.String("requestID", requestID), zap.String("status", status), zap.String("outcome", string(outcome)))

	c.JSON(http.StatusOK, gin.H{
		"requestId": requestID,
		"outcome":   outcome,
	})
}

// paymentWebhook is the authoritative confirmation path. Only approved
// payment notifications advance the workflow; everything else is
// acknowledged and ignored so the gateway stops retrying.
func (h *RequestHandler) paymentWebhook(c *gin.Context) {
	var notification webhookNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid notification body: " + err.Error()})
		return
	}

	if notification.Type != "payment" || notification.Data.Status != "approved" {
		h.logger.Debug("Ignoring non-approval webhook notification",
			zap.String("type", notification.Type), zap.String("status", notification.Data.Status))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	requestID := notification.Data.ExternalReference
	if requestID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Notification is missing external_reference"})
		return
	}

	if err := h.service.ConfirmPayment(c.Request.Context(), requestID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
