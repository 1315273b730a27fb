package workflow

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned when an event is not allowed from the
// request's current status.
var ErrIllegalTransition = errors.New("illegal status transition")

// Event names an action that may advance a request through the workflow.
// Staff override buttons are explicit events, never free-form status writes.
type Event string

const (
	// EventOptionsSent fires when staff send a complete plot-option set.
	EventOptionsSent Event = "options_sent"
	// EventPlotSelected fires when the customer confirms one option.
	EventPlotSelected Event = "plot_selected"
	// EventPaymentLinkSent fires when staff email the payment link. It is a
	// manual override that advances to pagado without gateway confirmation.
	EventPaymentLinkSent Event = "payment_link_sent"
	// EventPaymentConfirmed fires when the gateway webhook reports an
	// approved payment. This is the authoritative path to pagado.
	EventPaymentConfirmed Event = "payment_confirmed"
	// EventProductionStarted, EventShipped and EventCompleted are the staff
	// dashboard buttons for the tail of the workflow.
	EventProductionStarted Event = "production_started"
	EventShipped           Event = "shipped"
	EventCompleted         Event = "completed"
)

// IsValidEvent reports whether ev is a known workflow event.
func IsValidEvent(ev Event) bool {
	switch ev {
	case EventOptionsSent, EventPlotSelected, EventPaymentLinkSent,
		EventPaymentConfirmed, EventProductionStarted, EventShipped, EventCompleted:
		return true
	default:
		return false
	}
}

// transitions is the allowed (status, event) -> status table.
var transitions = map[Status]map[Event]Status{
	StatusPendiente: {
		EventOptionsSent: StatusOpciones,
	},
	StatusOpciones: {
		// Staff may re-generate the option set before the customer selects.
		EventOptionsSent:  StatusOpciones,
		EventPlotSelected: StatusSeleccion,
	},
	StatusSeleccion: {
		EventPaymentLinkSent:  StatusPagado,
		EventPaymentConfirmed: StatusPagado,
	},
	StatusPagado: {
		// Re-delivered webhook notifications must not fail.
		EventPaymentConfirmed:  StatusPagado,
		EventProductionStarted: StatusProduccion,
	},
	StatusProduccion: {
		EventShipped: StatusEnvio,
	},
	StatusEnvio: {
		EventCompleted: StatusCompletado,
	},
	StatusCompletado: {},
}

// Transition returns the status that results from applying ev to current, or
// ErrIllegalTransition when the workflow does not allow it. Every status
// write in the system must go through this function.
func Transition(current Status, ev Event) (Status, error) {
	allowed, ok := transitions[current]
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, current)
	}
	next, ok := allowed[ev]
	if !ok {
		return "", fmt.Errorf("%w: event %q not allowed from status %q", ErrIllegalTransition, ev, current)
	}
	return next, nil
}
