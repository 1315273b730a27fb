package email

import (
	"fmt"
	"html/template"
	"strings"

	"cuentos-server/internal/models"
)

// The two customer-facing templates. Both are parameterized by the request id
// and the child's name; staff actions trigger them, customers receive them.

var plotOptionsTemplate = template.Must(template.New("plotOptions").Parse(`
<div style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #5b4a9f;">¡Las aventuras de {{.ChildName}} están listas!</h1>
  <p>Hola {{.Name}},</p>
  <p>Nuestro equipo preparó {{len .Options}} opciones de trama para el cuento
  personalizado de <strong>{{.ChildName}}</strong>. Entra a tu pedido
  <strong>{{.RequestID}}</strong> y elige tu favorita:</p>
  {{range .Options}}
  <div style="border: 1px solid #e0d9f5; border-radius: 8px; padding: 16px; margin: 12px 0;">
    <h3 style="margin: 0 0 8px 0;">{{.Title}}</h3>
    <p style="margin: 0;">{{.Description}}</p>
  </div>
  {{end}}
  <p><a href="{{.SelectionURL}}" style="background: #5b4a9f; color: #fff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Elegir mi trama</a></p>
  <p style="color: #888;">Equipo de Cuentos Personalizados</p>
</div>
`))

var paymentLinkTemplate = template.Must(template.New("paymentLink").Parse(`
<div style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #5b4a9f;">¡Excelente elección!</h1>
  <p>Hola {{.Name}},</p>
  <p>El cuento de <strong>{{.ChildName}}</strong> tendrá la trama
  <strong>"{{.OptionTitle}}"</strong>. Para iniciar la producción del pedido
  <strong>{{.RequestID}}</strong>, completa el pago aquí:</p>
  <p><a href="{{.PaymentURL}}" style="background: #5b4a9f; color: #fff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Pagar mi cuento</a></p>
  <p>Si el botón no funciona, copia este enlace en tu navegador:<br>{{.PaymentURL}}</p>
  <p style="color: #888;">Equipo de Cuentos Personalizados</p>
</div>
`))

// Internal notification to the staff inbox when a customer picks a plot;
// complements the realtime dashboard event for operators not watching it.
var selectionNotificationTemplate = template.Must(template.New("selectionNotification").Parse(`
<div style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #5b4a9f;">Nueva selección de trama</h1>
  <p>El pedido <strong>{{.RequestID}}</strong> de {{.Name}} (cuento para
  <strong>{{.ChildName}}</strong>) ya tiene trama elegida:
  <strong>"{{.OptionTitle}}"</strong>.</p>
  <p>Puedes enviar el enlace de pago desde el panel.</p>
</div>
`))

type plotOptionsData struct {
	Name         string
	ChildName    string
	RequestID    string
	Options      []models.PlotOption
	SelectionURL string
}

type paymentLinkData struct {
	Name        string
	ChildName   string
	RequestID   string
	OptionTitle string
	PaymentURL  string
}

// BuildPlotOptionsEmail renders the plot-options email for a request.
func BuildPlotOptionsEmail(request *models.StoryRequest, options []models.PlotOption, selectionURL string) (subject, html string, err error) {
	var buf strings.Builder
	data := plotOptionsData{
		Name:         request.Name,
		ChildName:    request.ChildName,
		RequestID:    request.RequestID,
		Options:      options,
		SelectionURL: selectionURL,
	}
	if err := plotOptionsTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render plot options email: %w", err)
	}
	subject = fmt.Sprintf("Opciones de trama para el cuento de %s", request.ChildName)
	return subject, buf.String(), nil
}

// BuildSelectionNotificationEmail renders the staff notification sent when a
// customer confirms a plot choice.
func BuildSelectionNotificationEmail(request *models.StoryRequest, optionTitle string) (subject, html string, err error) {
	var buf strings.Builder
	data := paymentLinkData{
		Name:        request.Name,
		ChildName:   request.ChildName,
		RequestID:   request.RequestID,
		OptionTitle: optionTitle,
	}
	if err := selectionNotificationTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render selection notification email: %w", err)
	}
	subject = fmt.Sprintf("Trama elegida en el pedido %s", request.RequestID)
	return subject, buf.String(), nil
}

// BuildPaymentLinkEmail renders the payment-link email for a request.
func BuildPaymentLinkEmail(request *models.StoryRequest, optionTitle, paymentURL string) (subject, html string, err error) {
	var buf strings.Builder
	data := paymentLinkData{
		Name:        request.Name,
		ChildName:   request.ChildName,
		RequestID:   request.RequestID,
		OptionTitle: optionTitle,
		PaymentURL:  paymentURL,
	}
	if err := paymentLinkTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render payment link email: %w", err)
	}
	subject = fmt.Sprintf("Tu cuento personalizado de %s: completa el pago", request.ChildName)
	return subject, buf.String(), nil
}
