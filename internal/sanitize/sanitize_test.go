package sanitize

import (
	"strings"
	"testing"
)

func TestEmailRedacted(t *testing.T) {
	clean, found := Sanitize("mi correo es juan.perez@uni.edu.ar por si sirve")
	if !found {
		t.Fatal("expected PII to be found")
	}
	if strings.Contains(clean, "juan.perez") {
		t.Errorf("email survived sanitization: %q", clean)
	}
	if !strings.Contains(clean, "[REDACTED-EMAIL]") {
		t.Errorf("expected email token, got %q", clean)
	}
}

func TestCardNumberNotSplitIntoFragments(t *testing.T) {
	clean, found := Sanitize("pagué con la tarjeta 4111 1111 1111 1111 ayer")
	if !found {
		t.Fatal("expected PII to be found")
	}
	if !strings.Contains(clean, "[REDACTED-CARD]") {
		t.Errorf("expected card token, got %q", clean)
	}
	// A card must never be partially consumed by the phone or ID patterns.
	if strings.Contains(clean, "[REDACTED-PHONE]") || strings.Contains(clean, "[REDACTED-ID]") {
		t.Errorf("card partially redacted as another category: %q", clean)
	}
}

func TestNationalIDRedacted(t *testing.T) {
	clean, _ := Sanitize("mi DNI es 38123456")
	if !strings.Contains(clean, "[REDACTED-ID]") {
		t.Errorf("expected ID token, got %q", clean)
	}
}

func TestPhoneRedacted(t *testing.T) {
	clean, _ := Sanitize("llamame al +541134567890")
	if !strings.Contains(clean, "[REDACTED-PHONE]") {
		t.Errorf("expected phone token, got %q", clean)
	}
}

func TestCleanTextUntouched(t *testing.T) {
	in := "¿cómo funciona una lista enlazada?"
	clean, found := Sanitize(in)
	if found {
		t.Error("no PII present, found must be false")
	}
	if clean != in {
		t.Errorf("clean text modified: %q", clean)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"correo a.b@c.edu y tarjeta 4111-1111-1111-1111 y DNI 38123456",
		"nada sensible aquí",
		"+541134567890 y 011 4567 8901",
	}
	for _, in := range inputs {
		once, _ := Sanitize(in)
		twice, found := Sanitize(once)
		if twice != once {
			t.Errorf("not idempotent for %q: %q != %q", in, twice, once)
		}
		if found {
			t.Errorf("re-sanitizing %q reported new PII", once)
		}
	}
}

func TestEmptyText(t *testing.T) {
	clean, found := Sanitize("")
	if clean != "" || found {
		t.Errorf("empty input must pass through: %q %v", clean, found)
	}
}
