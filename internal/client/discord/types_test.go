package discord

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTag(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"legacy discriminator", User{Username: "ana", Discriminator: "0420"}, "ana#0420"},
		{"migrated account", User{Username: "ana", Discriminator: "0"}, "ana"},
		{"missing discriminator", User{Username: "ana"}, "ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.Tag())
		})
	}
}

func TestActivityOmitsEmptyText(t *testing.T) {
	// Given
	activity := Activity{
		Details:    "Temperature: 21.5 °C",
		Timestamps: &Timestamps{Start: 1000, End: 11000},
		Buttons:    []Button{{Label: "Open", URL: "https://example.com"}},
		Instance:   true,
	}

	// When
	raw, err := json.Marshal(activity)
	require.NoError(t, err)

	// Then
	assert.JSONEq(t, `{
		"details": "Temperature: 21.5 °C",
		"timestamps": {"start": 1000, "end": 11000},
		"buttons": [{"label": "Open", "url": "https://example.com"}],
		"instance": true
	}`, string(raw))
}
