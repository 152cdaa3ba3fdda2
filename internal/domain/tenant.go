package domain

import (
	"fmt"
	"time"
)

// Tenant represents an institution whose tickets, students, and knowledge
// documents are isolated from every other tenant.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Domain    string
	CreatedAt time.Time
}

// APIKey represents a hashed API credential scoped to one tenant.
type APIKey struct {
	ID        string
	TenantID  string
	Name      string
	KeyHash   string
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked reports whether the key has been revoked
func (k *APIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// ValidateAPIKey validates an APIKey instance
func ValidateAPIKey(k *APIKey) error {
	if k == nil {
		return fmt.Errorf("api key cannot be nil")
	}
	if k.ID == "" {
		return fmt.Errorf("api key ID is required")
	}
	if k.TenantID == "" {
		return fmt.Errorf("api key TenantID is required")
	}
	if k.Name == "" {
		return fmt.Errorf("api key Name is required")
	}
	if k.KeyHash == "" {
		return fmt.Errorf("api key KeyHash is required")
	}
	return nil
}

// ValidateTenant validates a Tenant instance
func ValidateTenant(t *Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant cannot be nil")
	}
	if t.ID == "" {
		return fmt.Errorf("tenant ID is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tenant Name is required")
	}
	if t.Slug == "" {
		return fmt.Errorf("tenant Slug is required")
	}
	return nil
}
