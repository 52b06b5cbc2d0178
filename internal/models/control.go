package models

import "github.com/shopspring/decimal"

// ControlLine is the batch-level checksum record trailing a registry.
// PaymentSum is intentionally not part of it.
type ControlLine struct {
	TotalCount         int
	TotalAmount        decimal.Decimal
	TotalTransferSum   decimal.Decimal
	TotalCommissionSum decimal.Decimal
}

// SumRows computes the control line matching the given rows.
func SumRows(rows []Row) ControlLine {
	total := ControlLine{
		TotalCount:         len(rows),
		TotalAmount:        decimal.Zero,
		TotalTransferSum:   decimal.Zero,
		TotalCommissionSum: decimal.Zero,
	}
	for _, r := range rows {
		total.TotalAmount = total.TotalAmount.Add(r.Amount)
		total.TotalTransferSum = total.TotalTransferSum.Add(r.TransferSum)
		total.TotalCommissionSum = total.TotalCommissionSum.Add(r.CommissionSum)
	}
	return total
}

// Equal reports whether both control lines carry exactly the same values.
// Decimal comparison ignores trailing zeros, so 10,5 equals 10,50.
func (c ControlLine) Equal(other ControlLine) bool {
	return c.TotalCount == other.TotalCount &&
		c.TotalAmount.Equal(other.TotalAmount) &&
		c.TotalTransferSum.Equal(other.TotalTransferSum) &&
		c.TotalCommissionSum.Equal(other.TotalCommissionSum)
}
