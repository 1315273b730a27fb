package workflow_test

import (
	"testing"

	"cuentos-server/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_LegacyValues(t *testing.T) {
	cases := map[string]workflow.Status{
		"pending":         workflow.StatusPendiente,
		"options_sent":    workflow.StatusOpciones,
		"option_selected": workflow.StatusSeleccion,
		"payment_created": workflow.StatusSeleccion,
		"payment_pending": workflow.StatusSeleccion,
		"completed":       workflow.StatusCompletado,
	}

	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			got := workflow.Normalize(raw)
			assert.Equal(t, want, got)
			assert.True(t, got.IsValid())
			// Normalizing the canonical result again must be a no-op.
			assert.Equal(t, got, workflow.Normalize(string(got)))
		})
	}
}

func TestNormalize_CanonicalPassthrough(t *testing.T) {
	for _, s := range workflow.AllStatuses {
		assert.Equal(t, s, workflow.Normalize(string(s)))
	}
}

func TestNormalize_UnknownFallsBackToPendiente(t *testing.T) {
	assert.Equal(t, workflow.StatusPendiente, workflow.Normalize("garbage"))
	assert.Equal(t, workflow.StatusPendiente, workflow.Normalize(""))
}

func TestTransition_ForwardPath(t *testing.T) {
	steps := []struct {
		from  workflow.Status
		event workflow.Event
		to    workflow.Status
	}{
		{workflow.StatusPendiente, workflow.EventOptionsSent, workflow.StatusOpciones},
		{workflow.StatusOpciones, workflow.EventPlotSelected, workflow.StatusSeleccion},
		{workflow.StatusSeleccion, workflow.EventPaymentLinkSent, workflow.StatusPagado},
		{workflow.StatusPagado, workflow.EventProductionStarted, workflow.StatusProduccion},
		{workflow.StatusProduccion, workflow.EventShipped, workflow.StatusEnvio},
		{workflow.StatusEnvio, workflow.EventCompleted, workflow.StatusCompletado},
	}

	for _, step := range steps {
		next, err := workflow.Transition(step.from, step.event)
		assert.NoError(t, err)
		assert.Equal(t, step.to, next)
	}
}

func TestTransition_WebhookPath(t *testing.T) {
	next, err := workflow.Transition(workflow.StatusSeleccion, workflow.EventPaymentConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, workflow.StatusPagado, next)

	// A re-delivered gateway notification stays on pagado without erroring.
	next, err = workflow.Transition(workflow.StatusPagado, workflow.EventPaymentConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, workflow.StatusPagado, next)
}

func TestTransition_Illegal(t *testing.T) {
	cases := []struct {
		name  string
		from  workflow.Status
		event workflow.Event
	}{
		{"selection without options", workflow.StatusPendiente, workflow.EventPlotSelected},
		{"re-generate after selection", workflow.StatusSeleccion, workflow.EventOptionsSent},
		{"payment before selection", workflow.StatusOpciones, workflow.EventPaymentLinkSent},
		{"shipping before production", workflow.StatusPagado, workflow.EventShipped},
		{"no transitions out of completado", workflow.StatusCompletado, workflow.EventCompleted},
		{"unknown status", workflow.Status("garbage"), workflow.EventOptionsSent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := workflow.Transition(tc.from, tc.event)
			assert.ErrorIs(t, err, workflow.ErrIllegalTransition)
		})
	}
}
