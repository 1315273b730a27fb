package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cuentos-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewHTTPGateway(t *testing.T) {
	t.Run("rejects invalid base URL", func(t *testing.T) {
		_, err := NewHTTPGateway("not a url", "token", time.Second, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("rejects empty access token", func(t *testing.T) {
		_, err := NewHTTPGateway("https://api.example.com", "", time.Second, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("nil logger tolerated", func(t *testing.T) {
		gw, err := NewHTTPGateway("https://api.example.com", "token", time.Second, nil)
		require.NoError(t, err)
		assert.NotNil(t, gw)
	})
}

func TestCreateCheckout(t *testing.T) {
	ctx := context.Background()
	checkout := CheckoutRequest{
		RequestID:     "REQ-ABCD1234",
		Amount:        45000,
		Currency:      "COP",
		Description:   "Cuento personalizado para Lucas (pedido REQ-ABCD1234)",
		CustomerEmail: "maria@example.com",
		CustomerName:  "María Pérez",
		RedirectURL:   "https://cuentospersonalizados.com/pago/resultado",
	}

	t.Run("sends preference and returns init point", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/checkout/preferences", r.URL.Path)
			assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

			var payload createPreferenceRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "REQ-ABCD1234", payload.ExternalReference)
			assert.Equal(t, "COP", payload.CurrencyID)
			assert.Equal(t, "approved", payload.AutoReturn)
			require.Len(t, payload.Items, 1)
			assert.Equal(t, float64(45000), payload.Items[0].UnitPrice)
			assert.Equal(t, 1, payload.Items[0].Quantity)
			assert.Equal(t, "maria@example.com", payload.Payer.Email)
			assert.Equal(t, checkout.RedirectURL, payload.BackURLs.Success)

			json.NewEncoder(w).Encode(createPreferenceResponse{
				ID:        "pref-123",
				InitPoint: "https://gateway.example/init/pref-123",
			})
		}))
		defer server.Close()

		gw, err := NewHTTPGateway(server.URL, "secret-token", 5*time.Second, zap.NewNop())
		require.NoError(t, err)

		initURL, err := gw.CreateCheckout(ctx, checkout)
		require.NoError(t, err)
		assert.Equal(t, "https://gateway.example/init/pref-123", initURL)
	})

	t.Run("non-2xx maps to gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		gw, err := NewHTTPGateway(server.URL, "bad-token", 5*time.Second, zap.NewNop())
		require.NoError(t, err)

		_, err = gw.CreateCheckout(ctx, checkout)
		assert.ErrorIs(t, err, models.ErrPaymentGateway)
	})

	t.Run("missing init_point maps to gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(createPreferenceResponse{ID: "pref-456"})
		}))
		defer server.Close()

		gw, err := NewHTTPGateway(server.URL, "secret-token", 5*time.Second, zap.NewNop())
		require.NoError(t, err)

		_, err = gw.CreateCheckout(ctx, checkout)
		assert.ErrorIs(t, err, models.ErrPaymentGateway)
	})

	t.Run("unreachable gateway maps to gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		gw, err := NewHTTPGateway(server.URL, "secret-token", time.Second, zap.NewNop())
		require.NoError(t, err)

		_, err = gw.CreateCheckout(ctx, checkout)
		assert.ErrorIs(t, err, models.ErrPaymentGateway)
	})
}

func TestMapReturnStatus(t *testing.T) {
	cases := []struct {
		status string
		want   ReturnOutcome
	}{
		{"approved", OutcomeApproved},
		{"rejected", OutcomeRejected},
		{"pending", OutcomePending},
		{"in_process", OutcomePending},
		{"", OutcomePending},
		{"something_new", OutcomePending},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapReturnStatus(tc.status), "status %q", tc.status)
	}
}
