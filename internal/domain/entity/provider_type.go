// Package entity contains the core business objects of the project.
package entity

// ProviderType represents an authentication provider.
type ProviderType string

const (
	// ProviderTypeEmail indicates email/password authentication.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle indicates Google Sign-In authentication.
	ProviderTypeGoogle ProviderType = "google"
)

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// IsValid checks if the ProviderType is a valid value.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderTypeEmail, ProviderTypeGoogle:
		return true
	default:
		return false
	}
}
