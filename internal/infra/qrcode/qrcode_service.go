package qrcode

import (
	"encoding/json"
	"fmt"
	"net/mail"

	"vkladovke/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	InviteeEmail string `json:"invitee_email"`
	Type         string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateInvitationQR generates a QR code PNG linking to a pending invitation.
func (s *qrcodeService) GenerateInvitationQR(inviteeEmail string) ([]byte, error) {
	data := QRCodeData{
		InviteeEmail: inviteeEmail,
		Type:         "invitation",
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseInvitationQR parses QR code data and returns the invitee email.
func (s *qrcodeService) ParseInvitationQR(qrData string) (string, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	// Validate type
	if data.Type != "invitation" {
		return "", fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	// Validate email
	if _, err := mail.ParseAddress(data.InviteeEmail); err != nil {
		return "", fmt.Errorf("invalid invitee email: %w", err)
	}

	return data.InviteeEmail, nil
}
