package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{"md", true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{"JSON", false, ModeJSON},
		{"bogus", false, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_PlainOutputHasNoANSI(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeText)

	r.Header(1, "Rules")
	r.Success("done")
	r.Muted("hint")
	r.Error("failed")

	assert.Equal(t, "Rules\ndone\nhint\n", out.String())
	assert.Equal(t, "failed\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRenderer_MarkdownHeader(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)

	r.Header(2, "Generic")
	assert.Equal(t, "## Generic\n\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]string{"range": ">=1.0.0 <2.0.0"}))
	assert.Equal(t, "{\n  \"range\": \">=1.0.0 <2.0.0\"\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title\n", FormatHeader(0, "Title"))
	assert.Equal(t, "### Sub\n", FormatHeader(3, "Sub"))
	assert.Equal(t, "- **Version:** 1.21.0", FormatKeyValue("Version", "1.21.0"))
}

func TestStyles_Severity(t *testing.T) {
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, false, ModeText)
	s := r.Styles()

	assert.Equal(t, "x", s.Severity(core.SeverityRequired).Render("x"))
	assert.Equal(t, "x", s.Severity(core.Severity(42)).Render("x"))
}
