package report

import (
	"strconv"
	"time"

	"fjacquet/sdp-connect/internal/currencyutils"
	"fjacquet/sdp-connect/internal/dateutils"
	"fjacquet/sdp-connect/internal/models"
)

// RunReport summarises one registry submission run.
type RunReport struct {
	RunID         string      `yaml:"run_id" json:"run_id"`
	Registry      string      `yaml:"registry" json:"registry"`
	StartedAt     time.Time   `yaml:"started_at" json:"started_at"`
	FinishedAt    time.Time   `yaml:"finished_at" json:"finished_at"`
	Total         int         `yaml:"total" json:"total"`
	Accepted      int         `yaml:"accepted" json:"accepted"`
	Rejected      int         `yaml:"rejected" json:"rejected"`
	ErrorRegistry string      `yaml:"error_registry,omitempty" json:"error_registry,omitempty"`
	Rows          []RowRecord `yaml:"-" json:"rows"`
}

// RowRecord is the flat, per-row line of the status report.
type RowRecord struct {
	Index      int    `csv:"Index" json:"index"`
	Date       string `csv:"Date" json:"date"`
	BranchNo   string `csv:"BranchNo" json:"branch_no"`
	CashierNo  string `csv:"CashierNo" json:"cashier_no"`
	ID         string `csv:"ID" json:"id"`
	CardNumber string `csv:"CardNumber" json:"card_number"`
	PaymentSum string `csv:"PaymentSum" json:"payment_sum"`
	Amount     string `csv:"Amount" json:"amount"`
	MinorUnits int64  `csv:"PaymentSumMinor" json:"payment_sum_minor"`
	Status     string `csv:"Status" json:"status"`
	Receipt    string `csv:"Receipt" json:"receipt,omitempty"`
	Reason     string `csv:"Reason" json:"reason,omitempty"`
}

// NewRunReport builds the report of a run from its outcomes.
func NewRunReport(runID, registry string, startedAt, finishedAt time.Time, outcomes []models.Outcome) *RunReport {
	report := &RunReport{
		RunID:      runID,
		Registry:   registry,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Total:      len(outcomes),
		Rows:       make([]RowRecord, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		if o.Accepted() {
			report.Accepted++
		} else {
			report.Rejected++
		}
		report.Rows = append(report.Rows, newRowRecord(o))
	}

	return report
}

func newRowRecord(o models.Outcome) RowRecord {
	record := RowRecord{
		Index:      o.Row.Index,
		Date:       o.Row.Date.Format(dateutils.DateLayoutDisplay),
		BranchNo:   o.Row.BranchNo,
		CashierNo:  o.Row.CashierNo,
		ID:         o.Row.ID,
		CardNumber: strconv.FormatInt(o.Row.CardNumber, 10),
		PaymentSum: currencyutils.FormatAmount(o.Row.PaymentSum, currencyutils.PointSeparator),
		Amount:     currencyutils.FormatAmount(o.Row.Amount, currencyutils.PointSeparator),
		MinorUnits: o.MinorUnits,
		Status:     string(o.Status),
		Receipt:    o.Receipt,
	}
	if o.Reason != nil {
		record.Reason = o.Reason.Error()
	}
	return record
}
