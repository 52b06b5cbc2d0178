// Package models defines the core data structures of a payment registry:
// payment rows, the control line and per-row reconciliation outcomes.
package models

import (
	"strconv"
	"time"

	"fjacquet/sdp-connect/internal/dateutils"

	"github.com/shopspring/decimal"
)

// Row is one validated payment instruction taken from a registry payload line.
//
// Rows are built only by the field codec and are never modified afterwards.
// Index is the 1-based position of the line among the payload lines and is
// used to find the original text when the error registry is written.
type Row struct {
	Index         int
	Date          time.Time
	BranchNo      string
	CashierNo     string
	ID            string
	CardNumber    int64
	PaymentSum    decimal.Decimal
	Amount        decimal.Decimal
	TransferSum   decimal.Decimal
	CommissionSum decimal.Decimal
}

// PaymentInfo returns the free-text payment reference sent with the payment.
func (r Row) PaymentInfo() string {
	return r.BranchNo + "_" + r.CashierNo
}

// Attribute is a named, already formatted field value used in diagnostics.
type Attribute struct {
	Name  string
	Value string
}

// Attributes lists the row fields in a fixed order for logging.
func (r Row) Attributes() []Attribute {
	return []Attribute{
		{Name: "index", Value: strconv.Itoa(r.Index)},
		{Name: "date", Value: r.Date.Format(dateutils.DateLayoutDisplay)},
		{Name: "branch_no", Value: r.BranchNo},
		{Name: "cashier_no", Value: r.CashierNo},
		{Name: "id", Value: r.ID},
		{Name: "card_number", Value: strconv.FormatInt(r.CardNumber, 10)},
		{Name: "payment_sum", Value: r.PaymentSum.String()},
		{Name: "amount", Value: r.Amount.String()},
		{Name: "transfer_sum", Value: r.TransferSum.String()},
		{Name: "commission_sum", Value: r.CommissionSum.String()},
	}
}
