package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cuentos-server/internal/models"
	"cuentos-server/internal/service"
	"cuentos-server/internal/service/mocks"
	"cuentos-server/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(svc service.RequestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewRequestHandler(svc, zap.NewNop())
	h.RegisterRoutes(router, nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitIntakeEndpoint(t *testing.T) {
	t.Run("valid form returns 201 with request id", func(t *testing.T) {
		svc := new(mocks.RequestService)
		svc.On("SubmitIntake", mock.Anything, mock.AnythingOfType("models.IntakeForm")).
			Return(&models.StoryRequest{
				RequestID: "REQ-ABCD1234",
				Status:    workflow.StatusPendiente,
				CreatedAt: time.Now().UTC(),
			}, nil).Once()

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/requests", gin.H{
			"name":       "María Pérez",
			"email":      "maria@example.com",
			"childName":  "Lucas",
			"childAge":   "6",
			"storyTheme": "espacio",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "REQ-ABCD1234", resp["requestId"])
		assert.Equal(t, "pendiente", resp["status"])
		svc.AssertExpectations(t)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		svc := new(mocks.RequestService)
		svc.On("SubmitIntake", mock.Anything, mock.Anything).
			Return(nil, models.ErrValidation).Once()

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/requests", gin.H{"name": "María"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.ErrCodeValidation, resp.Code)
	})
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", models.ErrRequestNotFound, http.StatusNotFound, models.ErrCodeNotFound},
		{"illegal transition", workflow.ErrIllegalTransition, http.StatusConflict, models.ErrCodeConflict},
		{"email failure", models.ErrEmailDelivery, http.StatusBadGateway, models.ErrCodeExternal},
		{"unexpected", assert.AnError, http.StatusInternalServerError, models.ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mocks.RequestService)
			svc.On("SendPaymentLink", mock.Anything, "REQ-ABCD1234", "opt-1").Return(tc.err).Once()

			w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/requests/REQ-ABCD1234/payment-link",
				gin.H{"optionId": "opt-1"})

			assert.Equal(t, tc.wantStatus, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestSendPlotOptionsEndpoint(t *testing.T) {
	svc := new(mocks.RequestService)
	svc.On("SendPlotOptions", mock.Anything, "REQ-ABCD1234",
		[]service.PlotOptionInput{
			{Title: "Viaje a la luna", Description: "Lucas viaja a la luna"},
		}, false).Return(nil).Once()

	w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/requests/REQ-ABCD1234/options", gin.H{
		"options": []gin.H{{"title": "Viaje a la luna", "description": "Lucas viaja a la luna"}},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAdvanceStatusEndpoint(t *testing.T) {
	t.Run("known event forwarded to service", func(t *testing.T) {
		svc := new(mocks.RequestService)
		svc.On("AdvanceStatus", mock.Anything, "REQ-ABCD1234", workflow.EventShipped).Return(nil).Once()

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/requests/REQ-ABCD1234/transition",
			gin.H{"event": string(workflow.EventShipped)})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown event rejected before the service", func(t *testing.T) {
		svc := new(mocks.RequestService)

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/requests/REQ-ABCD1234/transition",
			gin.H{"event": "teleported"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AdvanceStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeliveryDateEndpoint(t *testing.T) {
	svc := new(mocks.RequestService)
	svc.On("EstimatedDelivery", mock.Anything, "REQ-ABCD1234").
		Return(time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC), nil).Once()

	w := doJSON(t, setupRouter(svc), http.MethodGet, "/api/requests/REQ-ABCD1234/delivery-date", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-28", resp["estimatedDelivery"])
}

func TestPaymentWebhookEndpoint(t *testing.T) {
	t.Run("approved payment confirms the request", func(t *testing.T) {
		svc := new(mocks.RequestService)
		svc.On("ConfirmPayment", mock.Anything, "REQ-ABCD1234").Return(nil).Once()

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/payments/webhook", gin.H{
			"type": "payment",
			"data": gin.H{"external_reference": "REQ-ABCD1234", "status": "approved"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("non-approval notification acknowledged but ignored", func(t *testing.T) {
		svc := new(mocks.RequestService)

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/payments/webhook", gin.H{
			"type": "payment",
			"data": gin.H{"external_reference": "REQ-ABCD1234", "status": "pending"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
	})

	t.Run("missing external reference rejected", func(t *testing.T) {
		svc := new(mocks.RequestService)

		w := doJSON(t, setupRouter(svc), http.MethodPost, "/api/payments/webhook", gin.H{
			"type": "payment",
			"data": gin.H{"status": "approved"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentReturnEndpoint(t *testing.T) {
	svc := new(mocks.RequestService)
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/payments/return?status=in_process&external_reference=REQ-ABCD1234", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp["outcome"])
	assert.Equal(t, "REQ-ABCD1234", resp["requestId"])
	svc.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
}
