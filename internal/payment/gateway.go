package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cuentos-server/internal/models"

	"go.uber.org/zap"
)

// CheckoutRequest carries what the gateway needs to create a checkout
// session. RequestID travels as the opaque external reference and comes back
// on the return redirect and the webhook.
type CheckoutRequest struct {
	RequestID     string
	Amount        int
	Currency      string
	Description   string
	CustomerEmail string
	CustomerName  string
	RedirectURL   string
}

// Gateway creates checkout sessions against the external payment provider.
type Gateway interface {
	// CreateCheckout returns the init/redirect URL for the session, or a
	// propagated gateway error. The caller performs a full-page redirect.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}

// Compile-time check
var _ Gateway = (*httpGateway)(nil)

type httpGateway struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewHTTPGateway creates a Gateway over the provider's checkout-preference
// REST API.
func NewHTTPGateway(baseURL, accessToken string, timeout time.Duration, logger *zap.Logger) (Gateway, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL for payment gateway: %w", err)
	}
	if accessToken == "" {
		return nil, fmt.Errorf("payment access token cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &httpGateway{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("PaymentGateway"),
	}, nil
}

type preferenceItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type preferencePayer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Pending string `json:"pending"`
	Failure string `json:"failure"`
}

type createPreferenceRequest struct {
	Items             []preferenceItem   `json:"items"`
	Payer             preferencePayer    `json:"payer"`
	ExternalReference string             `json:"external_reference"`
	CurrencyID        string             `json:"currency_id"`
	BackURLs          preferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return"`
}

type createPreferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

func (g *httpGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	payload := createPreferenceRequest{
		Items: []preferenceItem{{
			Title:     req.Description,
			Quantity:  1,
			UnitPrice: float64(req.Amount),
		}},
		Payer: preferencePayer{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
		},
		ExternalReference: req.RequestID,
		CurrencyID:        req.Currency,
		BackURLs: preferenceBackURLs{
			Success: req.RedirectURL,
			Pending: req.RedirectURL,
			Failure: req.RedirectURL,
		},
		AutoReturn: "approved",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.accessToken)

	g.logger.Debug("Creating checkout preference",
		zap.String("requestID", req.RequestID), zap.Int("amount", req.Amount))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.logger.Error("Payment gateway call failed", zap.String("requestID", req.RequestID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.Error("Payment gateway returned error status",
			zap.String("requestID", req.RequestID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return "", fmt.Errorf("%w: gateway returned status %d", models.ErrPaymentGateway, resp.StatusCode)
	}

	var preference createPreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&preference); err != nil {
		return "", fmt.Errorf("%w: failed to decode gateway response: %v", models.ErrPaymentGateway, err)
	}
	if preference.InitPoint == "" {
		return "", fmt.Errorf("%w: gateway response missing init_point", models.ErrPaymentGateway)
	}

	g.logger.Info("Checkout preference created",
		zap.String("requestID", req.RequestID), zap.String("preferenceID", preference.ID))
	return preference.InitPoint, nil
}
