package handler

import "cuentos-server/internal/service"

// --- Request/Response Structs ---

type sendOptionsRequest struct {
	Options []service.PlotOptionInput `json:"options"`
	Resend  bool                      `json:"resend"`
}

type selectPlotRequest struct {
	OptionID          string `json:"optionId" binding:"required"`
	IllustrationStyle string `json:"illustrationStyle"`
}

func toSelectPlotInput(req selectPlotRequest) service.SelectPlotInput {
	return service.SelectPlotInput{
		OptionID:          req.OptionID,
		IllustrationStyle: req.IllustrationStyle,
	}
}

type sendPaymentLinkRequest struct {
	OptionID string `json:"optionId" binding:"required"`
}

type transitionRequest struct {
	Event string `json:"event" binding:"required"`
}

type productionDaysRequest struct {
	Days int `json:"days" binding:"required"`
}

type checkoutRequest struct {
	RequestID string `json:"requestId" binding:"required"`
}

type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ExternalReference string `json:"external_reference"`
		Status            string `json:"status"`
	} `json:"data"`
}
