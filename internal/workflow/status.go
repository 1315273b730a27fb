package workflow

// Status is the lifecycle state of a story request. The seven canonical
// values advance strictly forward; there is no backward transition.
type Status string

const (
	StatusPendiente  Status = "pendiente"
	StatusOpciones   Status = "opciones"
	StatusSeleccion  Status = "seleccion"
	StatusPagado     Status = "pagado"
	StatusProduccion Status = "produccion"
	StatusEnvio      Status = "envio"
	StatusCompletado Status = "completado"
)

// AllStatuses lists the canonical states in workflow order.
var AllStatuses = []Status{
	StatusPendiente,
	StatusOpciones,
	StatusSeleccion,
	StatusPagado,
	StatusProduccion,
	StatusEnvio,
	StatusCompletado,
}

// IsValid reports whether s is one of the seven canonical states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPendiente, StatusOpciones, StatusSeleccion, StatusPagado,
		StatusProduccion, StatusEnvio, StatusCompletado:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// legacyStatuses maps the old status vocabulary to the canonical one.
// Rows created before the workflow rework may still carry these values.
var legacyStatuses = map[string]Status{
	"pending":         StatusPendiente,
	"options_sent":    StatusOpciones,
	"option_selected": StatusSeleccion,
	"payment_created": StatusSeleccion,
	"payment_pending": StatusSeleccion,
	"completed":       StatusCompletado,
}

// Normalize maps a raw stored status string to a canonical Status. Canonical
// values pass through unchanged, legacy values are migrated, and anything
// unrecognized falls back to pendiente. Idempotent by construction.
func Normalize(raw string) Status {
	s := Status(raw)
	if s.IsValid() {
		return s
	}
	if mapped, ok := legacyStatuses[raw]; ok {
		return mapped
	}
	return StatusPendiente
}
