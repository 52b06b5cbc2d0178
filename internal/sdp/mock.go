package sdp

import (
	"context"
	"sync"
)

// MockGateway is a scripted Gateway for tests. Responses are looked up by
// card number for CardInfo and by session id for CardPayment; unknown keys
// fall back to the default responses.
type MockGateway struct {
	mu sync.Mutex

	CardInfoResponses    map[int64]*CardInfoResponse
	CardInfoErrors       map[int64]error
	CardPaymentResponses map[string]*CardPaymentResponse
	CardPaymentErrors    map[string]error

	DefaultCardInfo    *CardInfoResponse
	DefaultCardPayment *CardPaymentResponse

	CardInfoCalls    []CardInfoRequest
	CardPaymentCalls []CardPaymentRequest
}

// NewMockGateway returns a gateway accepting every card with tariff "1"
// (bounds 1..100000000) and every payment.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		CardInfoResponses:    make(map[int64]*CardInfoResponse),
		CardInfoErrors:       make(map[int64]error),
		CardPaymentResponses: make(map[string]*CardPaymentResponse),
		CardPaymentErrors:    make(map[string]error),
		DefaultCardInfo: &CardInfoResponse{
			ResultCode: ResultOK,
			SessionID:  "session",
			Tariff:     &Tariff{ID: "1", MinSum: 1, MaxSum: 100000000, Text: "default tariff"},
		},
		DefaultCardPayment: &CardPaymentResponse{
			ResultCode: ResultOK,
			Receipt:    "receipt",
		},
	}
}

// CardInfo records the call and returns the scripted response.
func (m *MockGateway) CardInfo(_ context.Context, req *CardInfoRequest) (*CardInfoResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CardInfoCalls = append(m.CardInfoCalls, *req)
	if err, ok := m.CardInfoErrors[req.SysNum]; ok {
		return nil, err
	}
	if resp, ok := m.CardInfoResponses[req.SysNum]; ok {
		return resp, nil
	}
	return m.DefaultCardInfo, nil
}

// CardPayment records the call and returns the scripted response.
func (m *MockGateway) CardPayment(_ context.Context, req *CardPaymentRequest) (*CardPaymentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CardPaymentCalls = append(m.CardPaymentCalls, *req)
	if err, ok := m.CardPaymentErrors[req.SessionID]; ok {
		return nil, err
	}
	if resp, ok := m.CardPaymentResponses[req.SessionID]; ok {
		return resp, nil
	}
	return m.DefaultCardPayment, nil
}
