package logger

import (
	"net/http"
	"testing"
)

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskCookie(t *testing.T) {
	got := MaskCookie("session=abcdef1234; other=xyz")
	want := "session=****1234; other=****xyz"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskHeadersMasksWebhookSignature(t *testing.T) {
	headers := http.Header{}
	headers.Set("x-webhook-signature", "c2lnbmF0dXJlMTIzNA==")
	headers.Set("x-webhook-timestamp", "1748779200")

	masked := MaskHeaders(headers)
	if masked["X-Webhook-Signature"] != "****NA==" {
		t.Fatalf("signature header must be masked, got %q", masked["X-Webhook-Signature"])
	}
	if masked["X-Webhook-Timestamp"] != "1748779200" {
		t.Fatalf("timestamp header must pass through, got %q", masked["X-Webhook-Timestamp"])
	}
}

func TestMaskJSON(t *testing.T) {
	input := map[string]any{
		"password": "hunter2",
		"token":    "abc12345",
		"nested": map[string]any{
			"api_key": "key_12345678",
		},
	}
	masked := MaskJSON(input)
	if masked["password"] != "****ter2" {
		t.Fatalf("expected masked password, got %v", masked["password"])
	}
	if masked["token"] != "****2345" {
		t.Fatalf("expected masked token, got %v", masked["token"])
	}
	nested, ok := masked["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["api_key"] != "****5678" {
		t.Fatalf("expected masked api_key, got %v", nested["api_key"])
	}
}
