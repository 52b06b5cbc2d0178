// Package reconcile submits validated registry rows to the payment service
// one by one and collects the rows the service did not accept.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/sdp-connect/internal/config"
	"fjacquet/sdp-connect/internal/currencyutils"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/models"
	"fjacquet/sdp-connect/internal/registryerror"
	"fjacquet/sdp-connect/internal/sdp"
)

// ErrNoTariff is the cause of a CardInfo rejection when a successful
// response carries no tariff.
var ErrNoTariff = errors.New("response carries no tariff")

// Driver runs the per-row service exchange.
type Driver struct {
	gateway sdp.Gateway
	agent   config.AgentConfig
	logger  logging.Logger
}

// NewDriver creates a Driver calling gateway on behalf of agent.
func NewDriver(gateway sdp.Gateway, agent config.AgentConfig, logger logging.Logger) *Driver {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Driver{
		gateway: gateway,
		agent:   agent,
		logger:  logger,
	}
}

// Result holds one outcome per submitted row, in file order.
type Result struct {
	Outcomes []models.Outcome
}

// Rejected returns the rows that were not accepted, in file order.
func (r *Result) Rejected() []models.Row {
	var rows []models.Row
	for _, o := range r.Outcomes {
		if !o.Accepted() {
			rows = append(rows, o.Row)
		}
	}
	return rows
}

// Accepted returns the number of accepted rows.
func (r *Result) Accepted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Accepted() {
			n++
		}
	}
	return n
}

// Success reports whether every row was accepted.
func (r *Result) Success() bool {
	return r.Accepted() == len(r.Outcomes)
}

// Err returns nil on success and an error wrapping
// registryerror.ErrBatchRejected otherwise.
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d row(s) rejected",
		registryerror.ErrBatchRejected, len(r.Outcomes)-r.Accepted(), len(r.Outcomes))
}

// Run submits every row sequentially. A failing row never stops the loop;
// its reason is kept in the row's outcome.
func (d *Driver) Run(ctx context.Context, rows []models.Row) *Result {
	result := &Result{Outcomes: make([]models.Outcome, 0, len(rows))}

	d.logger.Info("Submitting rows to the payment service", logging.F(logging.FieldCount, len(rows)))
	for _, row := range rows {
		result.Outcomes = append(result.Outcomes, d.Process(ctx, row))
	}

	d.logger.Info("Submission finished",
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldRejected, len(rows)-result.Accepted()))
	return result
}

// Process runs card info lookup, tariff check and payment for a single row.
func (d *Driver) Process(ctx context.Context, row models.Row) models.Outcome {
	logger := d.logger.WithFields(
		logging.F(logging.FieldRowIndex, row.Index),
		logging.F(logging.FieldCardNumber, row.CardNumber))

	fields := make([]logging.Field, 0, 10)
	for _, attr := range row.Attributes() {
		fields = append(fields, logging.F(attr.Name, attr.Value))
	}
	logger.Info("Processing row", fields...)

	outcome := models.Outcome{Row: row, Status: models.StatusTreated}

	receipt, minor, err := d.submit(ctx, row, logger)
	outcome.MinorUnits = minor
	if err != nil {
		outcome.Status = models.StatusFaulted
		outcome.Reason = err
		rejectFields := []logging.Field{logging.F(logging.FieldStatus, outcome.Status)}
		var svcErr *registryerror.ServiceError
		if errors.As(err, &svcErr) && svcErr.Err == nil {
			rejectFields = append(rejectFields, logging.F(logging.FieldResultCode, svcErr.Code))
		}
		logger.WithError(err).Error("Row rejected", rejectFields...)
		return outcome
	}

	outcome.Status = models.StatusFinished
	outcome.Receipt = receipt
	logger.Info("Row accepted",
		logging.F(logging.FieldStatus, outcome.Status),
		logging.F(logging.FieldMinorUnits, minor),
		logging.F("receipt", receipt))
	return outcome
}

func (d *Driver) submit(ctx context.Context, row models.Row, logger logging.Logger) (string, int64, error) {
	info, err := d.gateway.CardInfo(ctx, &sdp.CardInfoRequest{
		Version:     d.agent.ProtocolVersion,
		AgentID:     d.agent.AgentID,
		SalepointID: d.agent.SalepointID,
		SysNum:      row.CardNumber,
		RegionID:    d.agent.RegionID,
		DeviceID:    d.agent.DeviceID,
	})
	if err != nil {
		return "", 0, &registryerror.ServiceError{Operation: sdp.OperationCardInfo, Err: err}
	}
	if info == nil {
		return "", 0, &registryerror.ServiceError{Operation: sdp.OperationCardInfo, Err: sdp.ErrEmptyResponse}
	}
	for _, warning := range info.Warnings {
		logger.Warn(warning, logging.F(logging.FieldOperation, sdp.OperationCardInfo))
	}
	if info.ResultCode != sdp.ResultOK {
		return "", 0, &registryerror.ServiceError{
			Operation: sdp.OperationCardInfo,
			Code:      info.ResultCode,
			Text:      info.ResultText,
		}
	}
	if info.Tariff == nil {
		return "", 0, &registryerror.ServiceError{Operation: sdp.OperationCardInfo, Err: ErrNoTariff}
	}
	logger.Info("Tariff selected",
		logging.F(logging.FieldSessionID, info.SessionID),
		logging.F(logging.FieldTariffID, info.Tariff.ID),
		logging.F("tariff_text", info.Tariff.Text))

	minor, err := currencyutils.ToMinorUnits(row.PaymentSum)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", registryerror.ErrAmountOutOfRange, err)
	}
	if !info.Tariff.Contains(minor) {
		return "", 0, &registryerror.AmountOutOfRangeError{
			Amount: minor,
			Min:    info.Tariff.MinSum,
			Max:    info.Tariff.MaxSum,
		}
	}

	payment, err := d.gateway.CardPayment(ctx, &sdp.CardPaymentRequest{
		Version:     d.agent.ProtocolVersion,
		AgentID:     d.agent.AgentID,
		SalepointID: d.agent.SalepointID,
		SessionID:   info.SessionID,
		TariffID:    info.Tariff.ID,
		PaymentSum:  minor,
		PaymentInfo: row.PaymentInfo(),
	})
	if err != nil {
		return "", minor, &registryerror.ServiceError{Operation: sdp.OperationCardPayment, Err: err}
	}
	if payment == nil {
		return "", minor, &registryerror.ServiceError{Operation: sdp.OperationCardPayment, Err: sdp.ErrEmptyResponse}
	}
	if payment.ResultCode != sdp.ResultOK {
		return "", minor, &registryerror.ServiceError{
			Operation: sdp.OperationCardPayment,
			Code:      payment.ResultCode,
			Text:      payment.ResultText,
		}
	}

	return payment.Receipt, minor, nil
}
