package uds_test

import (
	"testing"

	"github.com/gavinwade12/odx/uds"
)

func TestServiceName(t *testing.T) {
	tests := []struct {
		sid  byte
		want string
	}{
		{uds.ServiceTesterPresent, "TesterPresent"},
		{uds.ServiceReadDataByIdentifier, "ReadDataByIdentifier"},
		{0x7E, "TesterPresentResponse"},
		{0x62, "ReadDataByIdentifierResponse"},
		{0x01, "0x01"},
	}
	for _, tt := range tests {
		if got := uds.ServiceName(tt.sid); got != tt.want {
			t.Errorf("ServiceName(0x%02X) = %q, want %q", tt.sid, got, tt.want)
		}
	}
}

func TestPositiveResponseSID(t *testing.T) {
	if got := uds.PositiveResponseSID(uds.ServiceRequestDownload); got != 0x74 {
		t.Errorf("PositiveResponseSID(0x34) = 0x%02X, want 0x74", got)
	}
}

func TestDescribeNegativeResponse(t *testing.T) {
	tests := []struct {
		name    string
		message []byte
		want    string
	}{
		{
			name:    "conditions not correct",
			message: []byte{0x7F, 0x10, 0x22},
			want:    "negative response to DiagnosticSessionControl: conditionsNotCorrect",
		},
		{
			name:    "unknown code",
			message: []byte{0x7F, 0x3E, 0x99},
			want:    "negative response to TesterPresent: 0x99",
		},
		{
			name:    "truncated",
			message: []byte{0x7F, 0x10},
			want:    "negative response (truncated)",
		},
		{
			name:    "positive response",
			message: []byte{0x7E, 0x00},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uds.DescribeNegativeResponse(tt.message); got != tt.want {
				t.Errorf("DescribeNegativeResponse(% X) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}
