package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid email", "ops@example.com", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"missing at sign", "ops.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEmail(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveCredentialsPassThrough(t *testing.T) {
	// Both values present: no prompting, no stdin access.
	email, password, err := resolveCredentials("ops@example.com", "hunter2", false)

	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", email)
	assert.Equal(t, "hunter2", password)
}
