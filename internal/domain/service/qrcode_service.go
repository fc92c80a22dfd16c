package service

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateInvitationQR generates a QR code PNG linking to a pending invitation.
	GenerateInvitationQR(inviteeEmail string) ([]byte, error)

	// ParseInvitationQR parses QR code data and returns the invitee email.
	ParseInvitationQR(qrData string) (string, error)
}
