package sos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/geocode"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/location"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/notify"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/phone"
)

// ============================================================================
// SOS ORCHESTRATOR
// ============================================================================
// Ties permission acquisition, position sampling, reverse geocoding, contact
// notification, remote status publication and the continuous position watch
// into one user-triggered flow:
//
//   Idle → Activating → Active → Deactivating → Idle
//
// Every session owns at most one live position watch; activation refuses to
// start while a session is active, and deactivation is an idempotent
// release, so a prior handle can never leak. Individual steps stay
// best-effort, but each outcome is recorded in a completion report instead
// of being swallowed, leaving surfacing decisions to the caller.

// Confirmation texts shown before either transition (the only user-facing
// prompts in the whole flow).
const (
	ActivatePrompt   = "This will send your location to emergency contacts and local authorities. Are you sure?"
	DeactivatePrompt = "Are you safe now? This will stop location sharing and alert contacts."
)

var ErrAlreadyActive = errors.New("sos session already active")

// ContactSource supplies the user's saved emergency contacts.
type ContactSource interface {
	Load(userID int64) []models.Contact
}

// StatusPublisher upserts the remote user_status row.
type StatusPublisher interface {
	Publish(ctx context.Context, userID int64, lat, lng float64, status models.StatusValue, displayLocation string) error
}

// Config carries the orchestrator's tunables.
type Config struct {
	DefaultCountryCode string
	WatchInterval      time.Duration // minimum time between watch samples
	WatchDistance      float64       // minimum movement in meters between samples
	PublishTimeout     time.Duration
}

// DefaultConfig matches the reference flow: 5 seconds / 5 meters.
func DefaultConfig() Config {
	return Config{
		DefaultCountryCode: "+1",
		WatchInterval:      5 * time.Second,
		WatchDistance:      5,
		PublishTimeout:     10 * time.Second,
	}
}

// Session is the in-memory SOS state for one user. It is never persisted.
type session struct {
	mu         sync.Mutex
	active     bool
	startedAt  time.Time
	lastUpdate time.Time
	location   string // display string, falls back to coordinates
	watch      *location.Subscription
	watchDone  chan struct{}
}

// Orchestrator drives SOS sessions for all users.
type Orchestrator struct {
	provider  location.Provider
	geocoder  geocode.Geocoder
	contacts  ContactSource
	sms       notify.Sender
	publisher StatusPublisher
	cfg       Config

	mu       sync.Mutex
	sessions map[int64]*session
}

// New wires an orchestrator from its collaborators.
func New(provider location.Provider, geocoder geocode.Geocoder, contacts ContactSource, sms notify.Sender, publisher StatusPublisher, cfg Config) *Orchestrator {
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = 5 * time.Second
	}
	if cfg.WatchDistance <= 0 {
		cfg.WatchDistance = 5
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "+1"
	}
	return &Orchestrator{
		provider:  provider,
		geocoder:  geocoder,
		contacts:  contacts,
		sms:       sms,
		publisher: publisher,
		cfg:       cfg,
		sessions:  make(map[int64]*session),
	}
}

func (o *Orchestrator) session(userID int64) *session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[userID]
	if !ok {
		s = &session{}
		o.sessions[userID] = s
	}
	return s
}

// Activate runs the Idle → Active transition. A denied permission aborts
// the flow (report only, no error); any other step degrades gracefully and
// shows up in the report.
func (o *Orchestrator) Activate(ctx context.Context, userID int64) (models.SOSActivationReport, error) {
	s := o.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	report := models.SOSActivationReport{}

	if s.active {
		return report, ErrAlreadyActive
	}

	// Step 1: foreground location permission
	granted, err := o.provider.RequestPermission(ctx, userID)
	if err != nil || !granted {
		log.Printf("🚨 SOS activation aborted for user %d: location permission not granted", userID)
		return report, nil
	}
	report.PermissionGranted = true

	// Step 2: sample current position at high accuracy
	pos, err := o.provider.Current(ctx, userID, location.AccuracyHigh)
	if err != nil {
		log.Printf("🚨 SOS activation failed for user %d: no position available: %v", userID, err)
		return report, fmt.Errorf("sample position: %w", err)
	}

	// Step 3: reverse geocode, best effort
	place := o.resolvePlace(ctx, pos)
	report.Place = place

	// Step 4: session bookkeeping
	now := time.Now()
	s.active = true
	s.startedAt = now
	s.lastUpdate = now
	if place != "" {
		s.location = place
	} else {
		s.location = coordinateLabel(pos)
	}
	report.Activated = true
	report.StartedAt = now

	// Step 5: publish sos_active, failure logged not surfaced
	if err := o.publish(userID, pos, models.StatusSOSActive, place); err == nil {
		report.StatusPublished = true
	}

	// Step 6: notify saved contacts via SMS
	o.notifyContacts(ctx, userID, pos, place, &report)

	// Step 7: install the recurring position watch
	sub, err := o.provider.Watch(userID, location.WatchOptions{
		Accuracy:         location.AccuracyHigh,
		TimeInterval:     o.cfg.WatchInterval,
		DistanceInterval: o.cfg.WatchDistance,
	})
	if err != nil {
		log.Printf("⚠️ SOS watch could not start for user %d: %v", userID, err)
		return report, nil
	}
	s.watch = sub
	s.watchDone = make(chan struct{})
	go o.runWatch(userID, s, sub, s.watchDone)

	log.Printf("🚨 SOS activated for user %d at %s", userID, s.location)
	return report, nil
}

// runWatch republishes sos_active for every filtered position sample until
// the subscription is cancelled.
func (o *Orchestrator) runWatch(userID int64, s *session, sub *location.Subscription, done chan struct{}) {
	defer close(done)
	for pos := range sub.Positions {
		ctx, cancel := context.WithTimeout(context.Background(), o.cfg.PublishTimeout)
		place := o.resolvePlace(ctx, pos)
		cancel()

		s.mu.Lock()
		s.lastUpdate = time.Now()
		if place != "" {
			s.location = place
		}
		s.mu.Unlock()

		if err := o.publish(userID, pos, models.StatusSOSActive, place); err != nil {
			log.Printf("⚠️ SOS republish failed for user %d: %v", userID, err)
		}
	}
}

// Deactivate runs the Active → Idle transition. Calling it with no active
// session is harmless: the watch handle is released at most once.
func (o *Orchestrator) Deactivate(ctx context.Context, userID int64) models.SOSDeactivationReport {
	s := o.session(userID)
	s.mu.Lock()

	report := models.SOSDeactivationReport{WasActive: s.active}

	// Release the watch before anything else; this is the only explicit
	// resource-release point in the flow.
	if s.watch != nil {
		s.watch.Cancel()
		s.watch = nil
		report.WatchReleased = true
	}
	done := s.watchDone
	s.watchDone = nil

	s.active = false
	s.startedAt = time.Time{}
	s.mu.Unlock()

	if done != nil {
		<-done
	}

	// Best-effort final position, no permission re-check
	pos, err := o.provider.Current(ctx, userID, location.AccuracyBalanced)
	if err != nil {
		log.Printf("⚠️ SOS deactivation: no position for final publish (user %d): %v", userID, err)
		return report
	}
	if err := o.publish(userID, pos, models.StatusSafe, ""); err == nil {
		report.StatusPublished = true
	}

	log.Printf("✅ SOS deactivated for user %d", userID)
	return report
}

// Status reports the session for the emergency screen.
func (o *Orchestrator) Status(userID int64) models.SOSStatusResponse {
	s := o.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := models.SOSStatusResponse{
		Active:           s.active,
		ActivatePrompt:   ActivatePrompt,
		DeactivatePrompt: DeactivatePrompt,
	}
	if s.active {
		started := s.startedAt
		last := s.lastUpdate
		resp.StartedAt = &started
		resp.LastUpdate = &last
		resp.Elapsed = FormatElapsed(time.Since(started))
		resp.Location = s.location
	}
	return resp
}

// FormatElapsed renders a session duration as mm:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (o *Orchestrator) resolvePlace(ctx context.Context, pos location.Position) string {
	if o.geocoder == nil {
		return ""
	}
	place, err := o.geocoder.Reverse(ctx, pos.Latitude, pos.Longitude)
	if err != nil || place.IsZero() {
		return ""
	}
	return place.Label()
}

func (o *Orchestrator) publish(userID int64, pos location.Position, status models.StatusValue, place string) error {
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.PublishTimeout)
	defer cancel()
	display := place
	if display == "" {
		display = coordinateLabel(pos)
	}
	return o.publisher.Publish(ctx, userID, pos.Latitude, pos.Longitude, status, display)
}

// notifyContacts normalizes saved phone numbers, drops the unusable ones
// and dispatches the emergency message. Every failure here is recorded in
// the report and otherwise swallowed; SOS proceeds regardless.
func (o *Orchestrator) notifyContacts(ctx context.Context, userID int64, pos location.Position, place string, report *models.SOSActivationReport) {
	list := o.contacts.Load(userID)

	phones := make([]string, 0, len(list))
	for _, c := range list {
		if normalized, ok := phone.Normalize(c.Phone, o.cfg.DefaultCountryCode); ok {
			phones = append(phones, normalized)
		} else {
			report.SkippedContacts++
		}
	}
	if len(phones) == 0 {
		return
	}

	body := notify.EmergencyMessage(pos.Latitude, pos.Longitude, place)

	if o.sms != nil && o.sms.IsAvailable(ctx) {
		if err := o.sms.Send(ctx, phones, body); err != nil {
			log.Printf("⚠️ SOS contact notification failed for user %d: %v", userID, err)
			report.SMSDeepLink = notify.DeepLink(phones, body)
			return
		}
		report.ContactsNotified = true
		report.NotifiedCount = len(phones)
		return
	}

	// Native capability unavailable: hand the composer deep link back to
	// the device with the same recipients and body.
	report.SMSDeepLink = notify.DeepLink(phones, body)
	report.NotifiedCount = len(phones)
}

func coordinateLabel(pos location.Position) string {
	return fmt.Sprintf("%.5f, %.5f", pos.Latitude, pos.Longitude)
}
