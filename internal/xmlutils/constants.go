// Package xmlutils provides XML-related utility functions used throughout the application.
package xmlutils

// SDP contains the XPath expressions used to read payment service responses.
// Element names are matched without their namespace.
type SDP struct {
	// Fault is filled when the service answers with a SOAP fault
	Fault struct {
		Code   string
		String string
	}

	// CardInfo reads the CardInformation element of a CardInfo response
	CardInfo struct {
		Root       string
		ResultCode string
		ResultText string
		SessionID  string
		Tariff     string
		TariffID   string
		TariffMin  string
		TariffMax  string
		TariffText string
		Warnings   string
	}

	// CardPayment reads the CardPaymentInformation element of a CardPayment response
	CardPayment struct {
		Root       string
		ResultCode string
		ResultText string
		Receipt    string
		FullSum    string
	}
}

// Settings contains the XPath expressions of the legacy settings.xml file.
type Settings struct {
	Version         string
	LogPath         string
	RegistryPath    string
	ErrorPath       string
	AgentID         string
	SalepointID     string
	RegionID        string
	DeviceID        string
	ProtocolVersion string
}

// DefaultSDPXPaths returns an SDP struct with the default XPath expressions
func DefaultSDPXPaths() SDP {
	sdp := SDP{}

	sdp.Fault.Code = "//Body/Fault/faultcode"
	sdp.Fault.String = "//Body/Fault/faultstring"

	sdp.CardInfo.Root = "//CardInformation"
	sdp.CardInfo.ResultCode = "//CardInformation/resultCode"
	sdp.CardInfo.ResultText = "//CardInformation/resultText"
	sdp.CardInfo.SessionID = "//CardInformation/sessionId"
	sdp.CardInfo.Tariff = "//CardInformation/tariff"
	sdp.CardInfo.TariffID = "//CardInformation/tariff/id"
	sdp.CardInfo.TariffMin = "//CardInformation/tariff/minSum"
	sdp.CardInfo.TariffMax = "//CardInformation/tariff/maxSum"
	sdp.CardInfo.TariffText = "//CardInformation/tariff/text"
	sdp.CardInfo.Warnings = "//CardInformation/warningMsg"

	sdp.CardPayment.Root = "//CardPaymentInformation"
	sdp.CardPayment.ResultCode = "//CardPaymentInformation/resultCode"
	sdp.CardPayment.ResultText = "//CardPaymentInformation/resultText"
	sdp.CardPayment.Receipt = "//CardPaymentInformation/receipt"
	sdp.CardPayment.FullSum = "//CardPaymentInformation/fullSum"

	return sdp
}

// DefaultSettingsXPaths returns the XPath expressions of the legacy settings file
func DefaultSettingsXPaths() Settings {
	return Settings{
		Version:         "/settings/@version",
		LogPath:         "/settings/path/log",
		RegistryPath:    "/settings/path/registry",
		ErrorPath:       "/settings/path/errorRegistry",
		AgentID:         "/settings/agentId",
		SalepointID:     "/settings/salepointId",
		RegionID:        "/settings/regionId",
		DeviceID:        "/settings/deviceId",
		ProtocolVersion: "/settings/versionProtocol",
	}
}
