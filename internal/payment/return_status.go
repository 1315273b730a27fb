package payment

// ReturnOutcome is the user-facing outcome derived from the gateway's return
// redirect. The redirect only chooses a display message; it never confirms a
// payment by itself.
type ReturnOutcome string

const (
	OutcomeApproved ReturnOutcome = "approved"
	OutcomePending  ReturnOutcome = "pending"
	OutcomeRejected ReturnOutcome = "rejected"
)

// MapReturnStatus maps the gateway's status query parameter to an outcome.
// Unrecognized statuses get pending-like treatment rather than failing.
func MapReturnStatus(status string) ReturnOutcome {
	switch status {
	case "approved":
		return OutcomeApproved
	case "rejected":
		return OutcomeRejected
	case "pending", "in_process":
		return OutcomePending
	default:
		return OutcomePending
	}
}
