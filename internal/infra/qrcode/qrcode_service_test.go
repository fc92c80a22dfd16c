package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestQRCodeService_GenerateInvitationQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	qrBytes, err := service.GenerateInvitationQR("invitee@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_GenerateInvitationQR_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, "M")

			qrBytes, err := service.GenerateInvitationQR("invitee@example.com")
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestQRCodeService_ParseInvitationQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		InviteeEmail: "invitee@example.com",
		Type:         "invitation",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	email, err := service.ParseInvitationQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, "invitee@example.com", email)
}

func TestQRCodeService_ParseInvitationQR_InvalidJSON(t *testing.T) {
	service := NewQRCodeService(256, "M")

	_, err := service.ParseInvitationQR("invalid json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal QR code data")
}

func TestQRCodeService_ParseInvitationQR_InvalidType(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		InviteeEmail: "invitee@example.com",
		Type:         "invalid_type",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseInvitationQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid QR code type")
}

func TestQRCodeService_ParseInvitationQR_InvalidEmail(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		InviteeEmail: "not-an-email",
		Type:         "invitation",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseInvitationQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid invitee email")
}

func TestQRCodeService_RoundTrip(t *testing.T) {
	service := NewQRCodeService(256, "M")

	qrBytes, err := service.GenerateInvitationQR("round.trip@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// The PNG itself cannot be decoded back here; in real usage the QR code
	// is scanned by a device and the JSON string is extracted.
	data := QRCodeData{
		InviteeEmail: "round.trip@example.com",
		Type:         "invitation",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	email, err := service.ParseInvitationQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, "round.trip@example.com", email)
}
