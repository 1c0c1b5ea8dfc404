package phone

import "testing"

func TestNormalizeInternationalPrefix(t *testing.T) {
	got, ok := Normalize("+1 (555) 123-4567", "+1")
	if !ok {
		t.Fatal("Expected number to be dialable")
	}
	if got != "+15551234567" {
		t.Errorf("Expected +15551234567, got %s", got)
	}
}

func TestNormalizeLocalNumberWithCountryCode(t *testing.T) {
	got, ok := Normalize("0455123456", "61")
	if !ok {
		t.Fatal("Expected number to be dialable")
	}
	if got != "+61455123456" {
		t.Errorf("Expected +61455123456, got %s", got)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if _, ok := Normalize("", "+1"); ok {
		t.Error("Expected empty input to be rejected")
	}
}

func TestNormalizeAllZeros(t *testing.T) {
	if _, ok := Normalize("000", "+1"); ok {
		t.Error("Expected all-zeros input to be rejected")
	}
}

func TestNormalizeShortPlusPrefix(t *testing.T) {
	// Too few digits after the plus to be dialable
	if _, ok := Normalize("+12", "+1"); ok {
		t.Error("Expected short prefixed number to be rejected")
	}
}

func TestNormalizeStripsFormatting(t *testing.T) {
	got, ok := Normalize("(91) 98765-43210", "91")
	if !ok {
		t.Fatal("Expected number to be dialable")
	}
	if got != "+91919876543210" {
		t.Errorf("Expected +91919876543210, got %s", got)
	}
}

func TestNormalizeCountryCodeWithoutPlus(t *testing.T) {
	got, ok := Normalize("5551234", "52")
	if !ok {
		t.Fatal("Expected number to be dialable")
	}
	if got != "+525551234" {
		t.Errorf("Expected +525551234, got %s", got)
	}
}

func TestNormalizeWhitespaceOnly(t *testing.T) {
	if _, ok := Normalize("   ", "+1"); ok {
		t.Error("Expected whitespace-only input to be rejected")
	}
}
