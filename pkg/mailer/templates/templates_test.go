package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderPasswordChangedDefaults(t *testing.T) {
	data := ToMap(NewEmailData("", "Sam", "sam@example.com", time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)))
	subject, text, html, err := Render(PasswordChanged, data)
	require.NoError(t, err)
	require.NotContains(t, subject, "\n")
	require.Contains(t, subject, "Booking")
	require.Contains(t, text, "Sam")
	require.Contains(t, html, "Sam")
}

func TestRenderEscapesHTML(t *testing.T) {
	data := ToMap(NewEmailData("Booking", "<b>x</b>", "x@example.com", time.Now()))
	_, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	require.Contains(t, text, "<b>x</b>")
	require.NotContains(t, html, "<b>x</b>")
	require.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
}

func TestDefaultFn(t *testing.T) {
	require.Equal(t, "fb", defaultFn("fb", ""))
	require.Equal(t, "fb", defaultFn("fb", nil))
	require.Equal(t, "fb", defaultFn("fb", 0))
	require.Equal(t, "v", defaultFn("fb", "v"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	require.Error(t, err)
}
