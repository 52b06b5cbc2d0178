package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fjacquet/sdp-connect/internal/codec"
	"fjacquet/sdp-connect/internal/currencyutils"
	"fjacquet/sdp-connect/internal/models"
	"fjacquet/sdp-connect/internal/registryerror"

	"github.com/shopspring/decimal"
)

// Control line field positions
const (
	controlCount      = 0
	controlAmount     = 1
	controlTransfer   = 2
	controlCommission = 3
)

// Mismatch names one control line total that differs from the registry data.
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

// ParseControlLine converts the split control line into a ControlLine.
// The line must have exactly six fields; only the first four are read.
func ParseControlLine(fields []string) (models.ControlLine, error) {
	if len(fields) != codec.ControlFieldCount {
		return models.ControlLine{}, fmt.Errorf("%w: got %d fields, want %d",
			registryerror.ErrMalformedControlLine, len(fields), codec.ControlFieldCount)
	}

	count, err := strconv.Atoi(fields[controlCount])
	if err != nil || count < 0 {
		return models.ControlLine{}, controlFieldError("totalCount", fields[controlCount],
			errors.New("not a row count"))
	}

	amounts := make([]decimal.Decimal, 3)
	names := []string{"totalAmount", "totalTransferSum", "totalCommissionSum"}
	for i, pos := range []int{controlAmount, controlTransfer, controlCommission} {
		amounts[i], err = currencyutils.ParseAmount(fields[pos], currencyutils.CommaSeparator)
		if err != nil {
			return models.ControlLine{}, controlFieldError(names[i], fields[pos], err)
		}
	}

	return models.ControlLine{
		TotalCount:         count,
		TotalAmount:        amounts[0],
		TotalTransferSum:   amounts[1],
		TotalCommissionSum: amounts[2],
	}, nil
}

func controlFieldError(field, value string, err error) error {
	return fmt.Errorf("%w: failed to parse %s='%s': %w",
		registryerror.ErrMalformedControlLine, field, value, err)
}

// Validate reports whether the control line matches the rows exactly. Any
// single differing total fails the whole check.
func Validate(rows []models.Row, control models.ControlLine) bool {
	return models.SumRows(rows).Equal(control)
}

// Compare lists every control line total that does not match the rows.
// An empty result means Validate would return true.
func Compare(rows []models.Row, control models.ControlLine) []Mismatch {
	actual := models.SumRows(rows)
	var mismatches []Mismatch

	if actual.TotalCount != control.TotalCount {
		mismatches = append(mismatches, Mismatch{
			Field:    "totalCount",
			Expected: strconv.Itoa(control.TotalCount),
			Actual:   strconv.Itoa(actual.TotalCount),
		})
	}

	pairs := []struct {
		name     string
		expected decimal.Decimal
		actual   decimal.Decimal
	}{
		{"totalAmount", control.TotalAmount, actual.TotalAmount},
		{"totalTransferSum", control.TotalTransferSum, actual.TotalTransferSum},
		{"totalCommissionSum", control.TotalCommissionSum, actual.TotalCommissionSum},
	}
	for _, p := range pairs {
		if !p.expected.Equal(p.actual) {
			mismatches = append(mismatches, Mismatch{
				Field:    p.name,
				Expected: currencyutils.FormatAmount(p.expected, currencyutils.CommaSeparator),
				Actual:   currencyutils.FormatAmount(p.actual, currencyutils.CommaSeparator),
			})
		}
	}

	return mismatches
}

// FormatControlLine renders a control line as count;amount;transfer;commission;;
func FormatControlLine(control models.ControlLine) string {
	fields := []string{
		strconv.Itoa(control.TotalCount),
		currencyutils.FormatAmount(control.TotalAmount, currencyutils.CommaSeparator),
		currencyutils.FormatAmount(control.TotalTransferSum, currencyutils.CommaSeparator),
		currencyutils.FormatAmount(control.TotalCommissionSum, currencyutils.CommaSeparator),
		"",
		"",
	}
	return strings.Join(fields, string(codec.Separator))
}
