package transaction

// Status is the reconciliation state of a transaction record.
// StatusPending is the sole initial state, set by intake and never by a
// notification; the six remaining values are terminal for this engine.
type Status string

const (
	StatusPending    Status = "pending"
	StatusCapture    Status = "capture"
	StatusSettlement Status = "settlement"
	StatusDeny       Status = "deny"
	StatusCancel     Status = "cancel"
	StatusExpire     Status = "expire"
	StatusRefund     Status = "refund"
)

// ParseStatus maps a raw gateway status string onto the Status enum.
// Anything outside the seven recognized values is rejected here, at the
// boundary, before any business logic runs.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusCapture, StatusSettlement,
		StatusDeny, StatusCancel, StatusExpire, StatusRefund:
		return s, nil
	}
	return "", ErrUnknownStatus{Value: raw}
}

// Terminal reports whether the status is one of the six non-pending values.
func (s Status) Terminal() bool {
	return s != StatusPending
}
