package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fjacquet/sdp-connect/internal/currencyutils"
	"fjacquet/sdp-connect/internal/registryerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payloadFields returns the fields of a well-formed payload line.
func payloadFields() []string {
	return []string{
		"14-03-2017", "09-05-30", "8610", "77", "OP-1", "40817810099991234567",
		"IVANOV I.I.", "MOSCOW", "RUB", "1500.00", "", "", "1515,00", "1500,00", "15,00",
	}
}

func payloadLine(modify func([]string)) string {
	fields := payloadFields()
	if modify != nil {
		modify(fields)
	}
	return strings.Join(fields, ";")
}

func TestSplit(t *testing.T) {
	assert.Len(t, Split(payloadLine(nil)), PayloadFieldCount)
	assert.Len(t, Split("3;10,00;9,00;1,00;;"), ControlFieldCount)
	assert.Equal(t, []string{""}, Split(""))
}

func TestParseRow(t *testing.T) {
	row, err := ParseRow(3, payloadLine(nil))
	require.NoError(t, err)

	assert.Equal(t, 3, row.Index)
	assert.True(t, time.Date(2017, 3, 14, 9, 5, 30, 0, time.UTC).Equal(row.Date))
	assert.Equal(t, "8610", row.BranchNo)
	assert.Equal(t, "77", row.CashierNo)
	assert.Equal(t, "OP-1", row.ID)
	assert.Equal(t, int64(1781009999123456), row.CardNumber)
	assert.True(t, decimal.RequireFromString("1500").Equal(row.PaymentSum))
	assert.True(t, decimal.RequireFromString("1515").Equal(row.Amount))
	assert.True(t, decimal.RequireFromString("1500").Equal(row.TransferSum))
	assert.True(t, decimal.RequireFromString("15").Equal(row.CommissionSum))
}

func TestParseRow_EmptyIdentifiers(t *testing.T) {
	row, err := ParseRow(1, payloadLine(func(f []string) {
		f[FieldBranch] = ""
		f[FieldCashier] = ""
		f[FieldID] = ""
	}))
	require.NoError(t, err)

	assert.Equal(t, "", row.BranchNo)
	assert.Equal(t, "", row.CashierNo)
	assert.Equal(t, "", row.ID)
}

func TestParseRow_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		modify    func([]string)
		field     string
		value     string
		wantCause error
	}{
		{
			name:   "bad date",
			modify: func(f []string) { f[FieldDate] = "2017-03-14" },
			field:  "date",
			value:  "2017-03-14 09-05-30",
		},
		{
			name:      "short account",
			modify:    func(f []string) { f[FieldAccount] = "4081" },
			field:     "account",
			value:     "4081",
			wantCause: registryerror.ErrInvalidAccountFormat,
		},
		{
			name:      "non numeric account",
			modify:    func(f []string) { f[FieldAccount] = "408ABCDEF1" },
			field:     "cardNumber",
			value:     "000ABCDEF",
			wantCause: registryerror.ErrInvalidCardNumber,
		},
		{
			name:   "payment sum with comma",
			modify: func(f []string) { f[FieldPaymentSum] = "1500,00" },
			field:  "paymentSum",
			value:  "1500,00",
		},
		{
			name:      "payment sum beyond minor unit range",
			modify:    func(f []string) { f[FieldPaymentSum] = "184467440737095516.17" },
			field:     "paymentSum",
			value:     "184467440737095516.17",
			wantCause: currencyutils.ErrMinorUnitsOverflow,
		},
		{
			name:   "amount with point",
			modify: func(f []string) { f[FieldAmount] = "1515.00" },
			field:  "amount",
			value:  "1515.00",
		},
		{
			name:   "empty transfer sum",
			modify: func(f []string) { f[FieldTransferSum] = "" },
			field:  "transferSum",
			value:  "",
		},
		{
			name:   "negative commission",
			modify: func(f []string) { f[FieldCommissionSum] = "-15,00" },
			field:  "commissionSum",
			value:  "-15,00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := ParseRow(7, payloadLine(tt.modify))
			require.Error(t, err)
			assert.Equal(t, 0, row.Index, "no partially built row may be returned")

			var fieldErr *registryerror.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, 7, fieldErr.Line)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Equal(t, tt.value, fieldErr.Value)
			assert.True(t, errors.Is(err, registryerror.ErrFieldConversion))
			if tt.wantCause != nil {
				assert.True(t, errors.Is(err, tt.wantCause))
			}
		})
	}
}

func TestParseRow_WrongFieldCount(t *testing.T) {
	_, err := ParseRow(1, "a;b;c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registryerror.ErrBadFieldCount))
}

func TestAccountToCardNumber(t *testing.T) {
	tests := []struct {
		name     string
		account  string
		expected string
		hasError bool
	}{
		{"twenty digit account", "40817810099991234567", "0001781009999123456", false},
		{"five characters", "12345", "0004", false},
		{"six characters", "123456", "00045", false},
		{"four characters", "1234", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AccountToCardNumber(tt.account)
			if tt.hasError {
				assert.ErrorIs(t, err, registryerror.ErrInvalidAccountFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseCardNumber(t *testing.T) {
	n, err := ParseCardNumber("0001781009999123456")
	require.NoError(t, err)
	assert.Equal(t, int64(1781009999123456), n)

	_, err = ParseCardNumber("000ABC")
	assert.ErrorIs(t, err, registryerror.ErrInvalidCardNumber)

	_, err = ParseCardNumber("00099999999999999999999")
	assert.ErrorIs(t, err, registryerror.ErrInvalidCardNumber)
}
