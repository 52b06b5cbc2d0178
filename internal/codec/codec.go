// Package codec converts registry payload lines into payment rows.
//
// A payload line has 15 semicolon-separated fields at fixed positions. Only a
// subset is consumed; fields 6-8 and 10-11 are carried in the file but ignored.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/sdp-connect/internal/currencyutils"
	"fjacquet/sdp-connect/internal/dateutils"
	"fjacquet/sdp-connect/internal/models"
	"fjacquet/sdp-connect/internal/registryerror"

	"github.com/shopspring/decimal"
)

// Line format constants
const (
	Separator         = ';'
	PayloadFieldCount = 15
	ControlFieldCount = 6
)

// Payload field positions
const (
	FieldDate          = 0
	FieldTime          = 1
	FieldBranch        = 2
	FieldCashier       = 3
	FieldID            = 4
	FieldAccount       = 5
	FieldPaymentSum    = 9
	FieldAmount        = 12
	FieldTransferSum   = 13
	FieldCommissionSum = 14
)

// cardNumberPrefix replaces the three leading characters of the account.
const cardNumberPrefix = "000"

// Split splits a registry line on the field separator.
func Split(line string) []string {
	return strings.Split(line, string(Separator))
}

// ParseRow converts a payload line into a Row. index is the 1-based position
// of the line among the payload lines.
//
// Conversion is atomic: on error the zero Row is returned together with a
// *registryerror.FieldError naming the field that failed.
func ParseRow(index int, line string) (models.Row, error) {
	fields := Split(line)
	if len(fields) != PayloadFieldCount {
		return models.Row{}, fmt.Errorf("line %d: %w: got %d fields, want %d",
			index, registryerror.ErrBadFieldCount, len(fields), PayloadFieldCount)
	}

	date, err := dateutils.ParseRegistryDateTime(fields[FieldDate], fields[FieldTime])
	if err != nil {
		return models.Row{}, fieldError(index, "date",
			dateutils.JoinDateTime(fields[FieldDate], fields[FieldTime]), err)
	}

	cardStr, err := AccountToCardNumber(fields[FieldAccount])
	if err != nil {
		return models.Row{}, fieldError(index, "account", fields[FieldAccount], err)
	}
	cardNumber, err := ParseCardNumber(cardStr)
	if err != nil {
		return models.Row{}, fieldError(index, "cardNumber", cardStr, err)
	}

	paymentSum, err := parseAmount(index, "paymentSum", fields[FieldPaymentSum], currencyutils.PointSeparator)
	if err != nil {
		return models.Row{}, err
	}
	if _, err := currencyutils.ToMinorUnits(paymentSum); err != nil {
		return models.Row{}, fieldError(index, "paymentSum", fields[FieldPaymentSum], err)
	}
	amount, err := parseAmount(index, "amount", fields[FieldAmount], currencyutils.CommaSeparator)
	if err != nil {
		return models.Row{}, err
	}
	transferSum, err := parseAmount(index, "transferSum", fields[FieldTransferSum], currencyutils.CommaSeparator)
	if err != nil {
		return models.Row{}, err
	}
	commissionSum, err := parseAmount(index, "commissionSum", fields[FieldCommissionSum], currencyutils.CommaSeparator)
	if err != nil {
		return models.Row{}, err
	}

	row := models.Row{
		Index:         index,
		Date:          date,
		BranchNo:      fields[FieldBranch],
		CashierNo:     fields[FieldCashier],
		ID:            fields[FieldID],
		CardNumber:    cardNumber,
		PaymentSum:    paymentSum,
		Amount:        amount,
		TransferSum:   transferSum,
		CommissionSum: commissionSum,
	}

	return row, nil
}

// AccountToCardNumber derives the card number string from an account field:
// the first three and the last character are dropped and the fixed "000"
// prefix is put in front.
func AccountToCardNumber(account string) (string, error) {
	runes := []rune(account)
	if len(runes) <= 4 {
		return "", registryerror.ErrInvalidAccountFormat
	}
	return cardNumberPrefix + string(runes[3:len(runes)-1]), nil
}

// ParseCardNumber parses the transformed card number as an integer.
func ParseCardNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, registryerror.ErrInvalidCardNumber
	}
	return n, nil
}

func parseAmount(line int, field, value string, sep rune) (decimal.Decimal, error) {
	amount, err := currencyutils.ParseAmount(value, sep)
	if err != nil {
		return decimal.Zero, fieldError(line, field, value, err)
	}
	return amount, nil
}

func fieldError(line int, field, value string, err error) error {
	return &registryerror.FieldError{
		Line:  line,
		Field: field,
		Value: value,
		Err:   err,
	}
}
