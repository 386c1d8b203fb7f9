package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	data := NewWelcomeData(Brand{AppName: "Swiss", CompanyName: "Acme", SupportURL: "https://acme.test/help"}, "Ann", "ann@x.com")

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Swiss", subject)
	assert.Contains(t, text, "Hi Ann,")
	assert.Contains(t, text, "ann@x.com")
	assert.Contains(t, html, `href="https://acme.test/help"`)
}

func TestRender_LoginNotificationEscapesHTML(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 30, 0, 0, time.UTC)
	data := NewLoginNotificationData(Brand{}, "<b>Ann</b>", "ann@x.com", WithTime(at))

	subject, text, html, err := Render(LoginNotification, data)
	require.NoError(t, err)
	assert.Equal(t, "New sign-in to your  account", subject)
	assert.Contains(t, text, "01 October 2026, 12:30 UTC")
	assert.Contains(t, html, "&lt;b&gt;Ann&lt;/b&gt;")
}

func TestRender_Unknown(t *testing.T) {
	_, _, _, err := Render("forgot_password", map[string]any{})
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, "v", defaultFn("x", "v"))
}
