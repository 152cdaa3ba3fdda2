package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTenant(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		tenant  *Tenant
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid tenant",
			tenant: &Tenant{
				ID:        "tenant1",
				Name:      "State University",
				Slug:      "state-university",
				Domain:    "stateu.edu",
				CreatedAt: now,
			},
		},
		{
			name: "missing ID",
			tenant: &Tenant{
				Name: "State University",
				Slug: "state-university",
			},
			wantErr: true,
			errMsg:  "ID",
		},
		{
			name: "missing Name",
			tenant: &Tenant{
				ID:   "tenant1",
				Slug: "state-university",
			},
			wantErr: true,
			errMsg:  "Name",
		},
		{
			name: "missing Slug",
			tenant: &Tenant{
				ID:   "tenant1",
				Name: "State University",
			},
			wantErr: true,
			errMsg:  "Slug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTenant(tt.tenant)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAPIKeyIsRevoked(t *testing.T) {
	key := &APIKey{
		ID:       "key1",
		TenantID: "tenant1",
		Name:     "test",
		KeyHash:  "abc",
	}
	assert.False(t, key.IsRevoked())

	revokedAt := time.Now()
	key.RevokedAt = &revokedAt
	assert.True(t, key.IsRevoked())
}

func TestValidateAPIKey(t *testing.T) {
	valid := func() *APIKey {
		return &APIKey{
			ID:        "key1",
			TenantID:  "tenant1",
			Name:      "dashboard",
			KeyHash:   "deadbeef",
			CreatedAt: time.Now(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*APIKey)
		wantErr bool
		errMsg  string
	}{
		{name: "valid key", mutate: func(*APIKey) {}},
		{name: "missing ID", mutate: func(k *APIKey) { k.ID = "" }, wantErr: true, errMsg: "ID"},
		{name: "missing TenantID", mutate: func(k *APIKey) { k.TenantID = "" }, wantErr: true, errMsg: "TenantID"},
		{name: "missing Name", mutate: func(k *APIKey) { k.Name = "" }, wantErr: true, errMsg: "Name"},
		{name: "missing KeyHash", mutate: func(k *APIKey) { k.KeyHash = "" }, wantErr: true, errMsg: "KeyHash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := valid()
			tt.mutate(key)
			err := ValidateAPIKey(key)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
