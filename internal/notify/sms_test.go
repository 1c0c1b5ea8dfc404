package notify

import (
	"context"
	"strings"
	"testing"
)

func TestMapsLink(t *testing.T) {
	link := MapsLink(37.7749, -122.4194)
	if link != "https://www.google.com/maps?q=37.7749,-122.4194" {
		t.Errorf("Unexpected maps link: %s", link)
	}
}

func TestEmergencyMessageWithPlace(t *testing.T) {
	msg := EmergencyMessage(37.7749, -122.4194, "Golden Gate Park, San Francisco")

	if !strings.HasPrefix(msg, "EMERGENCY: SOS activated at Golden Gate Park, San Francisco.") {
		t.Errorf("Unexpected message prefix: %s", msg)
	}
	if !strings.Contains(msg, "Location: 37.77490, -122.41940") {
		t.Errorf("Expected 5-decimal coordinates, got: %s", msg)
	}
	if !strings.Contains(msg, "Map: https://www.google.com/maps?q=37.7749,-122.4194") {
		t.Errorf("Expected maps link, got: %s", msg)
	}
}

func TestEmergencyMessageWithoutPlace(t *testing.T) {
	msg := EmergencyMessage(37.7749, -122.4194, "")

	if !strings.HasPrefix(msg, "EMERGENCY: SOS activated. ") {
		t.Errorf("Expected no place segment, got: %s", msg)
	}
	if strings.Contains(msg, " at ") {
		t.Errorf("Expected no place segment, got: %s", msg)
	}
	if !strings.Contains(msg, "Map: https://www.google.com/maps?q=37.7749,-122.4194") {
		t.Errorf("Expected maps link, got: %s", msg)
	}
}

func TestShareMessage(t *testing.T) {
	msg := ShareMessage(19.0760, 72.8777, "Marine Drive, Mumbai")

	if !strings.HasPrefix(msg, "My current location: Marine Drive, Mumbai") {
		t.Errorf("Unexpected message prefix: %s", msg)
	}
	if !strings.Contains(msg, "(lat: 19.07600, lng: 72.87770)") {
		t.Errorf("Expected coordinates, got: %s", msg)
	}
}

func TestDeepLink(t *testing.T) {
	link := DeepLink([]string{"+15551234567", "+15557654321"}, "Help me")

	if !strings.HasPrefix(link, "sms:+15551234567,+15557654321?&body=") {
		t.Errorf("Unexpected deep link prefix: %s", link)
	}
	if !strings.HasSuffix(link, "Help+me") {
		t.Errorf("Expected url-encoded body, got: %s", link)
	}
}

func TestGatewaySenderUnconfigured(t *testing.T) {
	t.Setenv("SMS_GATEWAY_URL", "")
	sender := NewGatewaySender()

	if sender.IsAvailable(context.Background()) {
		t.Error("Expected unconfigured gateway to be unavailable")
	}
	if err := sender.Send(context.Background(), []string{"+15551234567"}, "hi"); err == nil {
		t.Error("Expected send on unconfigured gateway to fail")
	}
}
