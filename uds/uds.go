// Package uds holds the service identifiers and negative response
// codes of ISO 14229 (Unified Diagnostic Services). Diagnostic
// databases describe UDS messages without naming them; this package
// puts human readable names on the raw bytes.
package uds

import "fmt"

// Service identifiers.
const (
	ServiceDiagnosticSessionControl = 0x10
	ServiceECUReset                 = 0x11
	ServiceClearDiagnosticInfo      = 0x14
	ServiceReadDTCInformation       = 0x19
	ServiceReadDataByIdentifier     = 0x22
	ServiceReadMemoryByAddress      = 0x23
	ServiceSecurityAccess           = 0x27
	ServiceCommunicationControl     = 0x28
	ServiceWriteDataByIdentifier    = 0x2E
	ServiceInputOutputControl       = 0x2F
	ServiceRoutineControl           = 0x31
	ServiceRequestDownload          = 0x34
	ServiceRequestUpload            = 0x35
	ServiceTransferData             = 0x36
	ServiceRequestTransferExit      = 0x37
	ServiceWriteMemoryByAddress     = 0x3D
	ServiceTesterPresent            = 0x3E
	ServiceControlDTCSetting        = 0x85
	ServiceResponseOnEvent          = 0x86
	ServiceLinkControl              = 0x87
)

// NegativeResponseSID marks a negative response message; the rejected
// service identifier and the negative response code follow it.
const NegativeResponseSID = 0x7F

// positiveResponseOffset is added to a request's service identifier to
// form the identifier of its positive response.
const positiveResponseOffset = 0x40

// Negative response codes.
const (
	NRCGeneralReject                 = 0x10
	NRCServiceNotSupported           = 0x11
	NRCSubFunctionNotSupported       = 0x12
	NRCIncorrectMessageLength        = 0x13
	NRCResponseTooLong               = 0x14
	NRCBusyRepeatRequest             = 0x21
	NRCConditionsNotCorrect          = 0x22
	NRCRequestSequenceError          = 0x24
	NRCRequestOutOfRange             = 0x31
	NRCSecurityAccessDenied          = 0x33
	NRCInvalidKey                    = 0x35
	NRCExceedNumberOfAttempts        = 0x36
	NRCRequiredTimeDelayNotExpired   = 0x37
	NRCUploadDownloadNotAccepted     = 0x70
	NRCTransferDataSuspended         = 0x71
	NRCGeneralProgrammingFailure     = 0x72
	NRCWrongBlockSequenceCounter     = 0x73
	NRCResponsePending               = 0x78
	NRCSubFunctionNotInActiveSession = 0x7E
	NRCServiceNotInActiveSession     = 0x7F
)

var serviceNames = map[byte]string{
	ServiceDiagnosticSessionControl: "DiagnosticSessionControl",
	ServiceECUReset:                 "ECUReset",
	ServiceClearDiagnosticInfo:      "ClearDiagnosticInformation",
	ServiceReadDTCInformation:       "ReadDTCInformation",
	ServiceReadDataByIdentifier:     "ReadDataByIdentifier",
	ServiceReadMemoryByAddress:      "ReadMemoryByAddress",
	ServiceSecurityAccess:           "SecurityAccess",
	ServiceCommunicationControl:     "CommunicationControl",
	ServiceWriteDataByIdentifier:    "WriteDataByIdentifier",
	ServiceInputOutputControl:       "InputOutputControlByIdentifier",
	ServiceRoutineControl:           "RoutineControl",
	ServiceRequestDownload:          "RequestDownload",
	ServiceRequestUpload:            "RequestUpload",
	ServiceTransferData:             "TransferData",
	ServiceRequestTransferExit:      "RequestTransferExit",
	ServiceWriteMemoryByAddress:     "WriteMemoryByAddress",
	ServiceTesterPresent:            "TesterPresent",
	ServiceControlDTCSetting:        "ControlDTCSetting",
	ServiceResponseOnEvent:          "ResponseOnEvent",
	ServiceLinkControl:              "LinkControl",
}

var nrcNames = map[byte]string{
	NRCGeneralReject:                 "generalReject",
	NRCServiceNotSupported:           "serviceNotSupported",
	NRCSubFunctionNotSupported:       "subFunctionNotSupported",
	NRCIncorrectMessageLength:        "incorrectMessageLengthOrInvalidFormat",
	NRCResponseTooLong:               "responseTooLong",
	NRCBusyRepeatRequest:             "busyRepeatRequest",
	NRCConditionsNotCorrect:          "conditionsNotCorrect",
	NRCRequestSequenceError:          "requestSequenceError",
	NRCRequestOutOfRange:             "requestOutOfRange",
	NRCSecurityAccessDenied:          "securityAccessDenied",
	NRCInvalidKey:                    "invalidKey",
	NRCExceedNumberOfAttempts:        "exceedNumberOfAttempts",
	NRCRequiredTimeDelayNotExpired:   "requiredTimeDelayNotExpired",
	NRCUploadDownloadNotAccepted:     "uploadDownloadNotAccepted",
	NRCTransferDataSuspended:         "transferDataSuspended",
	NRCGeneralProgrammingFailure:     "generalProgrammingFailure",
	NRCWrongBlockSequenceCounter:     "wrongBlockSequenceCounter",
	NRCResponsePending:               "requestCorrectlyReceived-ResponsePending",
	NRCSubFunctionNotInActiveSession: "subFunctionNotSupportedInActiveSession",
	NRCServiceNotInActiveSession:     "serviceNotSupportedInActiveSession",
}

// ServiceName returns the name of a request service identifier.
// Positive response identifiers are mapped back to the request they
// answer. Unknown identifiers are rendered numerically.
func ServiceName(sid byte) string {
	if name, ok := serviceNames[sid]; ok {
		return name
	}
	if sid >= positiveResponseOffset {
		if name, ok := serviceNames[sid-positiveResponseOffset]; ok {
			return name + "Response"
		}
	}
	return fmt.Sprintf("0x%02X", sid)
}

// NRCName returns the name of a negative response code, or its
// numeric form if unknown.
func NRCName(nrc byte) string {
	if name, ok := nrcNames[nrc]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", nrc)
}

// PositiveResponseSID returns the service identifier of the positive
// response to a request.
func PositiveResponseSID(requestSID byte) byte {
	return requestSID + positiveResponseOffset
}

// IsNegativeResponse reports whether the message is a UDS negative
// response.
func IsNegativeResponse(message []byte) bool {
	return len(message) >= 1 && message[0] == NegativeResponseSID
}

// DescribeNegativeResponse renders a negative response message for
// humans. It returns the empty string for messages that are not
// negative responses.
func DescribeNegativeResponse(message []byte) string {
	if !IsNegativeResponse(message) {
		return ""
	}
	if len(message) < 3 {
		return "negative response (truncated)"
	}
	return fmt.Sprintf("negative response to %s: %s",
		ServiceName(message[1]), NRCName(message[2]))
}
