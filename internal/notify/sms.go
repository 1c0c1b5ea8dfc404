package notify

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ============================================================================
// SMS DISPATCH
// ============================================================================
// Contact notification goes out through an HTTP SMS gateway when one is
// configured. When the gateway is unavailable the caller falls back to an
// sms: deep link that the mobile client opens in the native composer.

// Sender is the SMS capability: an availability check plus bulk send.
type Sender interface {
	IsAvailable(ctx context.Context) bool
	Send(ctx context.Context, recipients []string, body string) error
}

// GatewaySender sends messages through a JSON SMS gateway.
type GatewaySender struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

// NewGatewaySender builds a sender from SMS_GATEWAY_URL / SMS_GATEWAY_KEY.
// An empty URL yields a sender that always reports unavailable, which
// pushes every dispatch down the deep-link path.
func NewGatewaySender() *GatewaySender {
	baseURL := strings.TrimRight(os.Getenv("SMS_GATEWAY_URL"), "/")
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(0)
	return &GatewaySender{
		client:  client,
		baseURL: baseURL,
		apiKey:  os.Getenv("SMS_GATEWAY_KEY"),
	}
}

// IsAvailable checks whether the gateway is configured and responding.
func (g *GatewaySender) IsAvailable(ctx context.Context) bool {
	if g.baseURL == "" {
		return false
	}
	resp, err := g.client.R().
		SetContext(ctx).
		Get(g.baseURL + "/health")
	if err != nil {
		log.Printf("⚠️ SMS gateway unreachable: %v", err)
		return false
	}
	return resp.IsSuccess()
}

type gatewaySendRequest struct {
	Recipients []string `json:"recipients"`
	Body       string   `json:"body"`
}

// Send dispatches body to every recipient in one gateway call.
func (g *GatewaySender) Send(ctx context.Context, recipients []string, body string) error {
	if g.baseURL == "" {
		return fmt.Errorf("sms gateway not configured")
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+g.apiKey).
		SetBody(gatewaySendRequest{Recipients: recipients, Body: body}).
		Post(g.baseURL + "/messages")
	if err != nil {
		return fmt.Errorf("sms gateway send failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}
	return nil
}

// DeepLink builds the generic composer fallback:
// sms:<comma-separated recipients>?&body=<url-encoded text>
func DeepLink(recipients []string, body string) string {
	encoded := url.QueryEscape(body)
	return fmt.Sprintf("sms:%s?&body=%s", strings.Join(recipients, ","), encoded)
}

// MapsLink builds the shared Google Maps pin for a coordinate. The raw
// float formatting (no fixed precision) matches what recipients see in
// the emergency message.
func MapsLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lng)
}

// EmergencyMessage composes the SOS notification body. The place name is
// optional; coordinates always appear at 5 decimal places.
func EmergencyMessage(lat, lng float64, place string) string {
	at := ""
	if place != "" {
		at = " at " + place
	}
	return fmt.Sprintf(
		"EMERGENCY: SOS activated%s. Location: %.5f, %.5f. Map: %s",
		at, lat, lng, MapsLink(lat, lng),
	)
}

// ShareMessage composes the plain-text "share my location" message used
// by the generic share sheet outside SOS.
func ShareMessage(lat, lng float64, place string) string {
	at := ""
	if place != "" {
		at = ": " + place
	}
	return fmt.Sprintf(
		"My current location%s (lat: %.5f, lng: %.5f). Map: %s",
		at, lat, lng, MapsLink(lat, lng),
	)
}
