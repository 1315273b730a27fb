package handler

import (
	"net/http"
	"time"

	"cuentos-server/internal/models"
	"cuentos-server/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *RequestHandler) submitIntake(c *gin.Context) {
	var form models.IntakeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	request, err := h.service.SubmitIntake(c.Request.Context(), form)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"requestId": request.RequestID,
		"status":    request.Status,
		"createdAt": request.CreatedAt.Format(time.RFC3339),
	})
}

func (h *RequestHandler) listRequests(c *gin.Context) {
	requests, err := h.service.ListRequests(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if requests == nil {
		requests = []models.StoryRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *RequestHandler) getRequest(c *gin.Context) {
	requestID := c.Param("id")

	request, err := h.service.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	options, err := h.service.GetPlotOptions(c.Request.Context(), requestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
		"options": options,
	})
}

func (h *RequestHandler) deleteRequest(c *gin.Context) {
	requestID := c.Param("id")

	if err := h.service.DeleteRequest(c.Request.Context(), requestID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": requestID})
}

func (h *RequestHandler) sendPlotOptions(c *gin.Context) {
	requestID := c.Param("id")

	var req sendOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.service.SendPlotOptions(c.Request.Context(), requestID, req.Options, req.Resend); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "resend": req.Resend})
}

func (h *RequestHandler) listPlotOptions(c *gin.Context) {
	requestID := c.Param("id")

	options, err := h.service.GetPlotOptions(c.Request.Context(), requestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

func (h *RequestHandler) selectPlot(c *gin.Context) {
	requestID := c.Param("id")

	var req selectPlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	err := h.service.SelectPlot(c.Request.Context(), requestID, toSelectPlotInput(req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": req.OptionID})
}

func (h *RequestHandler) sendPaymentLink(c *gin.Context) {
	requestID := c.Param("id")

	var req sendPaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.service.SendPaymentLink(c.Request.Context(), requestID, req.OptionID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

func (h *RequestHandler) advanceStatus(c *gin.Context) {
	requestID := c.Param("id")

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	ev := workflow.Event(req.Event)
	if !workflow.IsValidEvent(ev) {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Unknown workflow event: " + req.Event})
		return
	}

	if err := h.service.AdvanceStatus(c.Request.Context(), requestID, ev); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": req.Event})
}

func (h *RequestHandler) setProductionDays(c *gin.Context) {
	requestID := c.Param("id")

	var req productionDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.service.SetProductionDays(c.Request.Context(), requestID, req.Days); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productionDays": req.Days})
}

func (h *RequestHandler) deliveryDate(c *gin.Context) {
	requestID := c.Param("id")

	delivery, err := h.service.EstimatedDelivery(c.Request.Context(), requestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.logger.Debug("Delivery date computed",
		zap.String("requestID", requestID), zap.Time("delivery", delivery))
	c.JSON(http.StatusOK, gin.H{"estimatedDelivery": delivery.Format("2006-01-02")})
}
