package email

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

// Sender delivers a single HTML email through the transactional provider.
// Fire-and-forget relative to caller state: no queueing, no retry.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Compile-time check
var _ Sender = (*httpSender)(nil)

// httpSender implements Sender over the provider's REST API.
type httpSender struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPSender creates a Sender for the transactional-email REST API.
func NewHTTPSender(baseURL, apiKey, from string, timeout time.Duration, logger *zap.Logger) (Sender, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL for email provider: %w", err)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("email API key cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &httpSender{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("EmailSender"),
	}, nil
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *httpSender) Send(ctx context.Context, to, subject, html string) error {
	payload := sendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	s.logger.Debug("Sending email", zap.String("to", to), zap.String("subject", subject))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Email provider call failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrEmailDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error("Email provider returned error status",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return fmt.Errorf("%w: provider returned status %d", models.ErrEmailDelivery, resp.StatusCode)
	}

	s.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
