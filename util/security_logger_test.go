package util

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureSecurityLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := GetSecurityLoggerForTest()
	SetSecurityLoggerForTest(log.New(&buf, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix))
	t.Cleanup(func() { SetSecurityLoggerForTest(orig) })
	return &buf
}

func TestLogSecurityEventSanitizesValues(t *testing.T) {
	buf := captureSecurityLog(t)

	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     "evil@x.mil\ninjected=true",
		IP:        "203.0.113.9",
		Message:   "line one\r\nline two",
	})

	out := buf.String()
	assert.Contains(t, out, "Event=LOGIN_FAILURE")
	assert.Contains(t, out, "evil@x.mil injected=true")
	assert.NotContains(t, out, "\ninjected")
}

func TestLogSecurityEventTruncatesLongValues(t *testing.T) {
	buf := captureSecurityLog(t)

	LogSecurityEvent(SecurityEvent{
		EventType: EventSuspiciousActivity,
		Message:   strings.Repeat("x", 500),
	})

	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 300))
}

func TestLoginHelpers(t *testing.T) {
	buf := captureSecurityLog(t)

	LogLoginSuccess("op@x.mil", "203.0.113.9", "test-agent")
	LogLoginFailure("op@x.mil", "203.0.113.9", "test-agent", "credential mismatch")
	LogLoginBlocked("op@x.mil", "203.0.113.9", "test-agent")

	out := buf.String()
	assert.Contains(t, out, "Event=LOGIN_SUCCESS")
	assert.Contains(t, out, "Login failed: credential mismatch")
	assert.Contains(t, out, "Event=LOGIN_BLOCKED")
}

func TestLogSecurityEventDetailsCountOnly(t *testing.T) {
	buf := captureSecurityLog(t)

	LogSecurityEvent(SecurityEvent{
		EventType: EventEndpointCall,
		Message:   "GET /api/reports -> 200",
		Details:   map[string]interface{}{"status": 200, "secret": "do-not-print"},
	})

	assert.Contains(t, buf.String(), "DetailsCount=2")
	assert.NotContains(t, buf.String(), "do-not-print")
}
