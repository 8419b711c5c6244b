package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onegov/pkg/domain-errors"
)

func TestParseCitizenID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCitizenID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCitizenID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCitizenID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		u := uuid.New()
		id, err := ParseCitizenID(u.String())
		require.NoError(t, err)
		assert.Equal(t, CitizenID(u), id)
	})
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE applications;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errCitizen := ParseCitizenID(tt.input)
			_, errApp := ParseApplicationID(tt.input)
			_, errDoc := ParseDocumentID(tt.input)
			if tt.wantErr {
				require.Error(t, errCitizen)
				require.Error(t, errApp)
				require.Error(t, errDoc)
				assert.True(t, dErrors.HasCode(errCitizen, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, errCitizen)
				require.NoError(t, errApp)
				require.NoError(t, errDoc)
			}
		})
	}
}

func TestIDsJSON(t *testing.T) {
	in := struct {
		ID ApplicationID `json:"id"`
	}{ID: NewApplicationID()}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.ID.String())

	var out struct {
		ID ApplicationID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.ID, out.ID)

	err = json.Unmarshal([]byte(`{"id":"nope"}`), &out)
	require.Error(t, err)
}
