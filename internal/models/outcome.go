package models

// RowStatus tracks where a row is in the reconciliation lifecycle.
type RowStatus string

// Outcome is the result of submitting a single row to the payment service.
// Reason is nil when the row was accepted.
type Outcome struct {
	Row     Row
	Status  RowStatus
	Reason  error
	Receipt string
	// MinorUnits is the payment sum actually submitted, zero if the row
	// was rejected before the payment call.
	MinorUnits int64
}

// Accepted reports whether the payment service accepted the row.
func (o Outcome) Accepted() bool {
	return o.Status == StatusFinished && o.Reason == nil
}
