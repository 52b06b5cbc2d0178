package sdp

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

// SOAP envelope namespace (SOAP 1.1)
const soapEnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

// Operation names
const (
	OperationCardInfo    = "CardInfo"
	OperationCardPayment = "CardPayment"
)

// DefaultTimeout bounds a single service call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrEmptyResponse is returned when the service answers without the expected
// result element.
var ErrEmptyResponse = errors.New("service returned no result")

// ClientConfig configures a SOAPClient.
type ClientConfig struct {
	URL       string
	Namespace string
	Timeout   time.Duration
}

// SOAPClient calls the payment service over SOAP 1.1.
type SOAPClient struct {
	url       string
	namespace string
	client    *http.Client
	xpaths    xmlutils.SDP
	logger    logging.Logger
}

type envelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    struct {
		Operation operation
	} `xml:"soap:Body"`
}

type operation struct {
	XMLName xml.Name
	Xmlns   string `xml:"xmlns,attr,omitempty"`
	Request interface{}
}

// NewSOAPClient creates a client for the service at cfg.URL.
func NewSOAPClient(cfg ClientConfig, logger logging.Logger) *SOAPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &SOAPClient{
		url:       cfg.URL,
		namespace: cfg.Namespace,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		xpaths: xmlutils.DefaultSDPXPaths(),
		logger: logger.WithField("client", "sdp"),
	}
}

// CardInfo looks up the session and tariff for a card.
func (c *SOAPClient) CardInfo(ctx context.Context, req *CardInfoRequest) (*CardInfoResponse, error) {
	root, err := c.call(ctx, OperationCardInfo, req)
	if err != nil {
		return nil, err
	}
	return parseCardInfo(root, c.xpaths)
}

// CardPayment submits a payment.
func (c *SOAPClient) CardPayment(ctx context.Context, req *CardPaymentRequest) (*CardPaymentResponse, error) {
	root, err := c.call(ctx, OperationCardPayment, req)
	if err != nil {
		return nil, err
	}
	return parseCardPayment(root, c.xpaths)
}

func (c *SOAPClient) call(ctx context.Context, name string, request interface{}) (*xmlpath.Node, error) {
	env := envelope{SoapNS: soapEnvelopeNamespace}
	env.Body.Operation = operation{
		XMLName: xml.Name{Local: name},
		Xmlns:   c.namespace,
		Request: request,
	}

	body, err := xml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url,
		bytes.NewReader(append([]byte(xml.Header), body...)))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", name, err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", strconv.Quote(c.namespace+"/"+name))

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", name, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close response body")
		}
	}()

	c.logger.Debug("Service call completed",
		logging.F(logging.FieldOperation, name),
		logging.F("http_status", resp.StatusCode),
		logging.F(logging.FieldDurationMS, time.Since(start).Milliseconds()))

	root, parseErr := xmlutils.Parse(resp.Body)
	if parseErr == nil {
		if fault, ok, _ := xmlutils.FirstValue(root, c.xpaths.Fault.String); ok {
			code, _, _ := xmlutils.FirstValue(root, c.xpaths.Fault.Code)
			return nil, fmt.Errorf("%s returned SOAP fault %s: %s", name, code, fault)
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP status %d", name, resp.StatusCode)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", name, parseErr)
	}
	return root, nil
}

func parseCardInfo(root *xmlpath.Node, xp xmlutils.SDP) (*CardInfoResponse, error) {
	if _, ok, _ := xmlutils.FirstValue(root, xp.CardInfo.Root); !ok {
		return nil, fmt.Errorf("%s: %w", OperationCardInfo, ErrEmptyResponse)
	}

	code, err := intValue(root, xp.CardInfo.ResultCode)
	if err != nil {
		return nil, fmt.Errorf("invalid %s response: %w", OperationCardInfo, err)
	}

	resp := &CardInfoResponse{ResultCode: int(code)}
	resp.ResultText, _, _ = xmlutils.FirstValue(root, xp.CardInfo.ResultText)
	resp.SessionID, _, _ = xmlutils.FirstValue(root, xp.CardInfo.SessionID)
	resp.Warnings, err = xmlutils.ExtractFromXML(root, xp.CardInfo.Warnings)
	if err != nil {
		return nil, err
	}

	if _, ok, _ := xmlutils.FirstValue(root, xp.CardInfo.Tariff); ok {
		tariff := &Tariff{}
		tariff.ID, _, _ = xmlutils.FirstValue(root, xp.CardInfo.TariffID)
		tariff.Text, _, _ = xmlutils.FirstValue(root, xp.CardInfo.TariffText)
		if tariff.MinSum, err = intValue(root, xp.CardInfo.TariffMin); err != nil {
			return nil, fmt.Errorf("invalid %s tariff: %w", OperationCardInfo, err)
		}
		if tariff.MaxSum, err = intValue(root, xp.CardInfo.TariffMax); err != nil {
			return nil, fmt.Errorf("invalid %s tariff: %w", OperationCardInfo, err)
		}
		resp.Tariff = tariff
	}

	return resp, nil
}

func parseCardPayment(root *xmlpath.Node, xp xmlutils.SDP) (*CardPaymentResponse, error) {
	if _, ok, _ := xmlutils.FirstValue(root, xp.CardPayment.Root); !ok {
		return nil, fmt.Errorf("%s: %w", OperationCardPayment, ErrEmptyResponse)
	}

	code, err := intValue(root, xp.CardPayment.ResultCode)
	if err != nil {
		return nil, fmt.Errorf("invalid %s response: %w", OperationCardPayment, err)
	}

	resp := &CardPaymentResponse{ResultCode: int(code)}
	resp.ResultText, _, _ = xmlutils.FirstValue(root, xp.CardPayment.ResultText)
	resp.Receipt, _, _ = xmlutils.FirstValue(root, xp.CardPayment.Receipt)
	if _, ok, _ := xmlutils.FirstValue(root, xp.CardPayment.FullSum); ok {
		if resp.FullSum, err = intValue(root, xp.CardPayment.FullSum); err != nil {
			return nil, fmt.Errorf("invalid %s response: %w", OperationCardPayment, err)
		}
	}

	return resp, nil
}

func intValue(root *xmlpath.Node, xpath string) (int64, error) {
	raw, ok, err := xmlutils.FirstValue(root, xpath)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing %s", xpath)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s='%s' is not an integer", xpath, raw)
	}
	return n, nil
}
