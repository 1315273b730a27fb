package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cuentos-server/internal/email"
	"cuentos-server/internal/messaging"
	"cuentos-server/internal/models"
	"cuentos-server/internal/payment"
	"cuentos-server/internal/repository"
	"cuentos-server/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPlotOptions is the largest option set staff can send to a customer.
const MaxPlotOptions = 5

// PlotOptionInput is one option as submitted by staff. Option ids are
// assigned by the service (opt-1..opt-n) when the set is persisted.
type PlotOptionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SelectPlotInput is the customer's confirmed choice.
type SelectPlotInput struct {
	OptionID          string `json:"optionId"`
	IllustrationStyle string `json:"illustrationStyle,omitempty"`
}

// Options carries the business settings the service needs.
type Options struct {
	// PublicBaseURL is the customer-facing site, used to build the selection
	// and payment URLs embedded in emails.
	PublicBaseURL string
	// PriceAmount/PriceCurrency is the fixed catalog price of one story.
	PriceAmount   int
	PriceCurrency string
	// StaffEmail receives the internal notification when a customer confirms
	// a plot choice. Empty disables the notification.
	StaffEmail string
}

// RequestService orchestrates the order workflow over the request store, the
// email provider, the payment gateway and the realtime change feed.
type RequestService interface {
	SubmitIntake(ctx context.Context, form models.IntakeForm) (*models.StoryRequest, error)
	ListRequests(ctx context.Context) ([]models.StoryRequest, error)
	GetRequest(ctx context.Context, requestID string) (*models.StoryRequest, error)
	GetPlotOptions(ctx context.Context, requestID string) ([]models.PlotOption, error)
	DeleteRequest(ctx context.Context, requestID string) error

	SendPlotOptions(ctx context.Context, requestID string, inputs []PlotOptionInput, resend bool) error
	SelectPlot(ctx context.Context, requestID string, input SelectPlotInput) error
	SendPaymentLink(ctx context.Context, requestID, optionID string) error
	ConfirmPayment(ctx context.Context, requestID string) error
	AdvanceStatus(ctx context.Context, requestID string, ev workflow.Event) error
	SetProductionDays(ctx context.Context, requestID string, days int) error
	EstimatedDelivery(ctx context.Context, requestID string) (time.Time, error)

	CreateCheckout(ctx context.Context, requestID string) (string, error)
}

// Compile-time check
var _ RequestService = (*requestService)(nil)

type requestService struct {
	requests  repository.RequestRepository
	options   repository.PlotOptionRepository
	sender    email.Sender
	gateway   payment.Gateway
	publisher messaging.ChangePublisher
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewRequestService creates the orchestration service.
func NewRequestService(
	requests repository.RequestRepository,
	options repository.PlotOptionRepository,
	sender email.Sender,
	gateway payment.Gateway,
	publisher messaging.ChangePublisher,
	opts Options,
	logger *zap.Logger,
) RequestService {
	return &requestService{
		requests:  requests,
		options:   options,
		sender:    sender,
		gateway:   gateway,
		publisher: publisher,
		opts:      opts,
		logger:    logger.Named("RequestService"),
		now:       time.Now,
	}
}

func (s *requestService) SubmitIntake(ctx context.Context, form models.IntakeForm) (*models.StoryRequest, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	additional := strings.TrimSpace(form.AdditionalDetails)
	request := &models.StoryRequest{
		RequestID:        newRequestID(),
		Name:             strings.TrimSpace(form.Name),
		Email:            strings.TrimSpace(form.Email),
		ChildName:        strings.TrimSpace(form.ChildName),
		ChildAge:         strings.TrimSpace(form.ChildAge),
		StoryTheme:       strings.TrimSpace(form.StoryTheme),
		SpecialInterests: strings.TrimSpace(form.SpecialInterests),
		Status:           workflow.StatusPendiente,
		FormData:         form,
		CreatedAt:        s.now().UTC(),
	}
	if additional != "" {
		request.AdditionalDetails = &additional
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info("Intake submitted",
		zap.String("requestID", request.RequestID), zap.String("childName", request.ChildName))
	intakesReceivedTotal.Inc()

	s.publishChange(ctx, models.ChangeEvent{
		EventType: models.ChangeEventInsert,
		RequestID: request.RequestID,
		New:       request,
	})
	return request, nil
}

func (s *requestService) ListRequests(ctx context.Context) ([]models.StoryRequest, error) {
	return s.requests.List(ctx)
}

func (s *requestService) GetRequest(ctx context.Context, requestID string) (*models.StoryRequest, error) {
	return s.requests.GetByRequestID(ctx, requestID)
}

func (s *requestService) GetPlotOptions(ctx context.Context, requestID string) ([]models.PlotOption, error) {
	return s.options.ListByRequestID(ctx, requestID)
}

func (s *requestService) DeleteRequest(ctx context.Context, requestID string) error {
	old, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	// Hard delete; options go with the request via the cascade.
	if err := s.requests.Delete(ctx, requestID); err != nil {
		return err
	}
	s.logger.Info("Story request deleted", zap.String("requestID", requestID))

	s.publishChange(ctx, models.ChangeEvent{
		EventType: models.ChangeEventDelete,
		RequestID: requestID,
		Old:       old,
	})
	return nil
}

// SendPlotOptions implements both the initial send and the resend path.
//
// resend=false: the submitted set is validated before anything is written,
// then persisted (replacing the previous set), then emailed, and only after a
// successful email the status advances. An email failure leaves the options
// saved and the status untouched until a successful resend.
//
// resend=true: email only, no persistence mutation. When the canonical set is
// unexpectedly empty a single placeholder option is sent instead of failing.
func (s *requestService) SendPlotOptions(ctx context.Context, requestID string, inputs []PlotOptionInput, resend bool) error {
	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}

	if resend {
		return s.resendPlotOptions(ctx, request)
	}

	if err := validateOptionInputs(inputs); err != nil {
		return err
	}
	// Reject before mutating anything if the workflow does not allow it.
	nextStatus, err := workflow.Transition(request.Status, workflow.EventOptionsSent)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	options := make([]models.PlotOption, len(inputs))
	for i, in := range inputs {
		options[i] = models.PlotOption{
			OptionID:    fmt.Sprintf("opt-%d", i+1),
			RequestID:   requestID,
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			CreatedAt:   now,
		}
	}

	if err := s.options.ReplaceForRequest(ctx, requestID, options); err != nil {
		return err
	}

	if err := s.emailPlotOptions(ctx, request, options); err != nil {
		// Options stay persisted; status does not advance until a resend
		// succeeds. Not rolled back on purpose.
		return err
	}

	if request.Status != nextStatus {
		if err := s.requests.UpdateStatus(ctx, requestID, nextStatus); err != nil {
			return err
		}
	}
	request.Status = nextStatus
	s.logger.Info("Plot options sent",
		zap.String("requestID", requestID), zap.Int("optionCount", len(options)))
	optionsSentTotal.Inc()

	s.publishChange(ctx, models.ChangeEvent{
		EventType: models.ChangeEventUpdate,
		RequestID: requestID,
		New:       request,
	})
	return nil
}

func (s *requestService) resendPlotOptions(ctx context.Context, request *models.StoryRequest) error {
	options, err := s.options.ListByRequestID(ctx, request.RequestID)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		// Inconsistent state: status says options went out but the canonical
		// set is gone. Degrade to a generic placeholder instead of failing.
		s.logger.Warn("Resend requested but no canonical options exist, sending placeholder",
			zap.String("requestID", request.RequestID))
		options = []models.PlotOption{{
			OptionID:    "opt-1",
			RequestID:   request.RequestID,
			Title:       "Una aventura personalizada",
			Description: "Nuestro equipo está preparando las opciones de trama para tu cuento. Contáctanos si no las recibes pronto.",
			CreatedAt:   s.now().UTC(),
		}}
	}
	if err := s.emailPlotOptions(ctx, request, options); err != nil {
		return err
	}
	s.logger.Info("Plot options re-sent", zap.String("requestID", request.RequestID))
	optionsSentTotal.Inc()
	return nil
}

func (s *requestService) emailPlotOptions(ctx context.Context, request *models.StoryRequest, options []models.PlotOption) error {
	selectionURL := fmt.Sprintf("%s/pedido/%s/opciones", s.opts.PublicBaseURL, url.PathEscape(request.RequestID))
	subject, html, err := email.BuildPlotOptionsEmail(request, options, selectionURL)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, request.Email, subject, html)
}

func (s *requestService) SelectPlot(ctx context.Context, requestID string, input SelectPlotInput) error {
	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}

	options, err := s.options.ListByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	option, ok := findOption(options, input.OptionID)
	if !ok {
		return fmt.Errorf("%w: option %q is not among the current plot options", models.ErrValidation, input.OptionID)
	}

	nextStatus, err := workflow.Transition(request.Status, workflow.EventPlotSelected)
	if err != nil {
		return err
	}

	if err := s.requests.UpdateSelectedPlot(ctx, requestID, input.OptionID); err != nil {
		return err
	}
	if style := strings.TrimSpace(input.IllustrationStyle); style != "" {
		if err := s.requests.UpdateIllustrationStyle(ctx, requestID, style); err != nil {
			return err
		}
		request.IllustrationStyle = &style
	}
	if err := s.requests.UpdateStatus(ctx, requestID, nextStatus); err != nil {
		return err
	}

	selected := input.OptionID
	request.SelectedPlot = &selected
	request.Status = nextStatus
	s.logger.Info("Plot selected",
		zap.String("requestID", requestID), zap.String("optionID", input.OptionID))

	s.publishChange(ctx, models.ChangeEvent{
		EventType:    models.ChangeEventUpdate,
		RequestID:    requestID,
		New:          request,
		NewSelection: true,
	})
	s.notifyStaffSelection(ctx, request, option.Title)
	return nil
}

// notifyStaffSelection emails the staff inbox about a confirmed plot choice.
// Like publishChange it never fails the customer action; operators still see
// the selection on the dashboard.
func (s *requestService) notifyStaffSelection(ctx context.Context, request *models.StoryRequest, optionTitle string) {
	if s.opts.StaffEmail == "" {
		return
	}
	subject, html, err := email.BuildSelectionNotificationEmail(request, optionTitle)
	if err == nil {
		err = s.sender.Send(ctx, s.opts.StaffEmail, subject, html)
	}
	if err != nil {
		s.logger.Warn("Failed to notify staff about plot selection",
			zap.String("requestID", request.RequestID), zap.Error(err))
	}
}

// SendPaymentLink emails the payment URL and advances the request to pagado.
// This is the manual path; it deliberately treats "link sent" as paid, with
// the gateway webhook (ConfirmPayment) as the authoritative confirmation.
func (s *requestService) SendPaymentLink(ctx context.Context, requestID, optionID string) error {
	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}

	options, err := s.options.ListByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	option, ok := findOption(options, optionID)
	if !ok {
		return fmt.Errorf("%w: option %q is not among the current plot options", models.ErrValidation, optionID)
	}

	nextStatus, err := workflow.Transition(request.Status, workflow.EventPaymentLinkSent)
	if err != nil {
		return err
	}

	paymentURL := fmt.Sprintf("%s/pago?%s", s.opts.PublicBaseURL, url.Values{
		"requestId":   {request.RequestID},
		"optionId":    {option.OptionID},
		"optionTitle": {option.Title},
	}.Encode())

	subject, html, err := email.BuildPaymentLinkEmail(request, option.Title, paymentURL)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, request.Email, subject, html); err != nil {
		return err
	}

	if err := s.requests.UpdateStatus(ctx, requestID, nextStatus); err != nil {
		return err
	}
	request.Status = nextStatus
	s.logger.Info("Payment link sent", zap.String("requestID", requestID), zap.String("optionID", optionID))
	paymentLinksSentTotal.Inc()

	s.publishChange(ctx, models.ChangeEvent{
		EventType: models.ChangeEventUpdate,
		RequestID: requestID,
		New:       request,
	})
	return nil
}

// ConfirmPayment is the webhook-driven, authoritative transition to pagado.
// Idempotent: a re-delivered notification for an already-paid request is a
// no-op success.
func (s *requestService) ConfirmPayment(ctx context.Context, requestID string) error {
	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}

	nextStatus, err := workflow.Transition(request.Status, workflow.EventPaymentConfirmed)
	if err != nil {
		return err
	}
	if request.Status == nextStatus {
		s.logger.Debug("Payment already confirmed", zap.String("requestID", requestID))
		return nil
	}

	if err := s.requests.UpdateStatus(ctx, requestID, nextStatus); err != nil {
		return err
	}
	request.Status = nextStatus
	s.logger.Info("Payment confirmed", zap.String("requestID", requestID))
	paymentsConfirmedTotal.Inc()

	s.publishChange(ctx, models.ChangeEvent{
		EventType: models.ChangeEventUpdate,
		RequestID: requestID,
		New:       request,
	})
	return nil
}

// AdvanceStatus handles the staff dashboard buttons for the production tail
// of the workflow. Only the named override events are accepted; free-form
// status writes do not exist.
func (s *requestService) AdvanceStatus(ctx context.Context, requestID string, ev workflow.Event) error {
	switch ev {
	case workflow.EventProductionStarted, workflow.EventShipped, workflow.EventCompleted:
	default:
		return fmt.Errorf("%w: event %q is not a staff override", models.ErrValidation, ev)
	}

	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}

	nextStatus, err := workflow.Transition(request.Status, ev)
	if err != nil {
		return err
	}
	if err := s.requests.UpdateStatus(ctx, requestID, nextStatus); err != nil {
		return err
	}
	request.Status = nextStatus
	s.logger.Info("Status advanced",
		zap.String("requestID", requestID), zap.String("event", string(ev)), zap.String("status", string(nextStatus)))
	statusTransitionsTotal.WithLabelValues(string(nextStatus)).Inc()

	s.publishChange(ctx, models.ChangeEvent{
		EventType: models.ChangeEventUpdate,
		RequestID: requestID,
		New:       request,
	})
	return nil
}

func (s *requestService) SetProductionDays(ctx context.Context, requestID string, days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: production days must be a positive integer", models.ErrValidation)
	}

	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.requests.UpdateProductionDays(ctx, requestID, days); err != nil {
		return err
	}
	request.ProductionDays = &days
	s.logger.Info("Production days updated", zap.String("requestID", requestID), zap.Int("days", days))

	s.publishChange(ctx, models.ChangeEvent{
		EventType: models.ChangeEventUpdate,
		RequestID: requestID,
		New:       request,
	})
	return nil
}

// EstimatedDelivery computes the delivery date from the time of computation
// (not from the request's creation), counting business days only.
func (s *requestService) EstimatedDelivery(ctx context.Context, requestID string) (time.Time, error) {
	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return time.Time{}, err
	}
	return workflow.AddBusinessDays(s.now(), request.EffectiveProductionDays()), nil
}

// CreateCheckout creates a gateway checkout session for the request's fixed
// catalog price and returns the redirect URL.
func (s *requestService) CreateCheckout(ctx context.Context, requestID string) (string, error) {
	request, err := s.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return "", err
	}

	initURL, err := s.gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		RequestID:     request.RequestID,
		Amount:        s.opts.PriceAmount,
		Currency:      s.opts.PriceCurrency,
		Description:   fmt.Sprintf("Cuento personalizado para %s (pedido %s)", request.ChildName, request.RequestID),
		CustomerEmail: request.Email,
		CustomerName:  request.Name,
		RedirectURL:   fmt.Sprintf("%s/pago/resultado", s.opts.PublicBaseURL),
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("Checkout session created", zap.String("requestID", requestID))
	return initURL, nil
}

// publishChange sends a change event to the realtime feed. Failures are
// logged, not propagated: dashboards reconcile with a full reload, so a lost
// event never fails the user action that produced it.
func (s *requestService) publishChange(ctx context.Context, event models.ChangeEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, event); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("requestID", event.RequestID),
			zap.String("eventType", string(event.EventType)),
			zap.Error(err))
	}
}

func validateOptionInputs(inputs []PlotOptionInput) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: at least one plot option is required", models.ErrValidation)
	}
	if len(inputs) > MaxPlotOptions {
		return fmt.Errorf("%w: at most %d plot options are allowed", models.ErrValidation, MaxPlotOptions)
	}
	for i, in := range inputs {
		if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
			return fmt.Errorf("%w: option %d must have a non-empty title and description", models.ErrValidation, i+1)
		}
	}
	return nil
}

func findOption(options []models.PlotOption, optionID string) (models.PlotOption, bool) {
	for _, opt := range options {
		if opt.OptionID == optionID {
			return opt, true
		}
	}
	return models.PlotOption{}, false
}

func newRequestID() string {
	return "REQ-" + strings.ToUpper(uuid.NewString()[:8])
}
