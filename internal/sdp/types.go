// Package sdp is the client side of the SDP card payment service: a card
// information lookup followed by a card payment submission.
package sdp

import (
	"context"
	"encoding/xml"
)

// ResultOK is the result code of a successful call.
const ResultOK = 0

// Gateway is the payment service as seen by the reconciliation driver.
// Implementations bound each call with their own transport timeout.
type Gateway interface {
	CardInfo(ctx context.Context, req *CardInfoRequest) (*CardInfoResponse, error)
	CardPayment(ctx context.Context, req *CardPaymentRequest) (*CardPaymentResponse, error)
}

// CardInfoRequest asks for the session and tariff available for a card.
type CardInfoRequest struct {
	XMLName     xml.Name `xml:"request"`
	Version     string   `xml:"version"`
	AgentID     string   `xml:"agentId"`
	SalepointID string   `xml:"salepointId"`
	SysNum      int64    `xml:"sysNum"`
	RegionID    int      `xml:"regionId"`
	DeviceID    string   `xml:"deviceId"`
}

// Tariff is the priced plan returned by CardInfo. Bounds are in minor units
// and inclusive.
type Tariff struct {
	ID     string
	MinSum int64
	MaxSum int64
	Text   string
}

// Contains reports whether amount lies within the tariff bounds.
func (t Tariff) Contains(amount int64) bool {
	return amount >= t.MinSum && amount <= t.MaxSum
}

// CardInfoResponse is the answer to CardInfo. SessionID and Tariff are only
// set when ResultCode is ResultOK.
type CardInfoResponse struct {
	ResultCode int
	ResultText string
	SessionID  string
	Tariff     *Tariff
	Warnings   []string
}

// CardPaymentRequest submits a payment within a CardInfo session.
type CardPaymentRequest struct {
	XMLName     xml.Name `xml:"request"`
	Version     string   `xml:"version"`
	AgentID     string   `xml:"agentId"`
	SalepointID string   `xml:"salepointId"`
	SessionID   string   `xml:"sessionId"`
	TariffID    string   `xml:"tariffId"`
	PaymentSum  int64    `xml:"paymentSum"`
	PaymentInfo string   `xml:"paymentInfo"`
}

// CardPaymentResponse is the answer to CardPayment.
type CardPaymentResponse struct {
	ResultCode int
	ResultText string
	Receipt    string
	FullSum    int64
}
