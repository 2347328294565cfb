package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   Severity
		wantOK bool
	}{
		{"Required", SeverityRequired, true},
		{"recommended", SeverityRecommended, true},
		{"OPTIONAL", SeverityOptional, true},
		{"fatal", SeverityRecommended, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSeverityJSON(t *testing.T) {
	b, err := json.Marshal(SeverityRequired)
	require.NoError(t, err)
	assert.Equal(t, `"Required"`, string(b))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"Optional"`), &s))
	assert.Equal(t, SeverityOptional, s)

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &s))
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:7", Position{Line: 3, Character: 7}.String())
}
