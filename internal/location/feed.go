package location

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
)

// ============================================================================
// DEVICE POSITION FEED
// ============================================================================
// The mobile client is the only real source of positions: it pushes samples
// and its permission state over the API. The feed stores the latest sample
// per user and fans samples out to watch subscriptions, applying the
// min-time / min-distance filters the device watch would apply natively.

// Accuracy mirrors the device accuracy tiers. The feed itself does not
// degrade samples; the tier is forwarded so the device can pick a mode.
type Accuracy int

const (
	AccuracyBalanced Accuracy = iota
	AccuracyHigh
)

var (
	ErrPermissionDenied = errors.New("location permission not granted")
	ErrNoPosition       = errors.New("no position reported yet")
)

// Position is one device location sample.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters, 0 if unknown
	Timestamp time.Time
}

// WatchOptions parameterize a recurring position subscription.
type WatchOptions struct {
	Accuracy         Accuracy
	TimeInterval     time.Duration // minimum time between deliveries
	DistanceInterval float64       // minimum movement in meters between deliveries
}

// Provider is the device location capability as the orchestrator sees it.
type Provider interface {
	RequestPermission(ctx context.Context, userID int64) (bool, error)
	Current(ctx context.Context, userID int64, accuracy Accuracy) (Position, error)
	Watch(userID int64, opts WatchOptions) (*Subscription, error)
}

// Subscription is a cancellable position watch handle. Positions delivers
// filtered samples until Cancel is called.
type Subscription struct {
	Positions <-chan Position

	cancelOnce sync.Once
	cancel     func()
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.cancelOnce.Do(s.cancel)
}

type userState struct {
	permission    bool
	permissionSet bool
	latest        *Position
	subscribers   map[int64]*subscriber
}

type subscriber struct {
	ch            chan Position
	opts          WatchOptions
	lastDelivery  time.Time
	lastDelivered *Position
}

// Feed implements Provider on top of API-pushed samples.
type Feed struct {
	mu     sync.Mutex
	users  map[int64]*userState
	nextID int64
}

// NewFeed creates an empty position feed.
func NewFeed() *Feed {
	return &Feed{users: make(map[int64]*userState)}
}

func (f *Feed) state(userID int64) *userState {
	st, ok := f.users[userID]
	if !ok {
		st = &userState{subscribers: make(map[int64]*subscriber)}
		f.users[userID] = st
	}
	return st
}

// SetPermission records the device-reported foreground permission state.
func (f *Feed) SetPermission(userID int64, granted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.state(userID)
	st.permission = granted
	st.permissionSet = true
}

// RequestPermission reports the last device-communicated permission state.
// A device that never reported anything is treated as denied.
func (f *Feed) RequestPermission(ctx context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.state(userID)
	if !st.permissionSet {
		return false, nil
	}
	return st.permission, nil
}

// ReportPosition stores a sample and delivers it to subscriptions whose
// time/distance thresholds are met.
func (f *Feed) ReportPosition(userID int64, pos Position) {
	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now()
	}

	f.mu.Lock()
	st := f.state(userID)
	st.latest = &pos

	var deliveries []chan Position
	for _, sub := range st.subscribers {
		if !sub.accepts(pos) {
			continue
		}
		sub.lastDelivery = pos.Timestamp
		p := pos
		sub.lastDelivered = &p
		deliveries = append(deliveries, sub.ch)
	}
	f.mu.Unlock()

	// Deliver outside the lock; drop instead of blocking when a consumer
	// is not keeping up, the next sample supersedes this one anyway.
	for _, ch := range deliveries {
		select {
		case ch <- pos:
		default:
		}
	}
}

func (s *subscriber) accepts(pos Position) bool {
	if s.lastDelivered == nil {
		return true
	}
	if s.opts.TimeInterval > 0 && pos.Timestamp.Sub(s.lastDelivery) < s.opts.TimeInterval {
		return false
	}
	if s.opts.DistanceInterval > 0 {
		moved := DistanceMeters(
			s.lastDelivered.Latitude, s.lastDelivered.Longitude,
			pos.Latitude, pos.Longitude,
		)
		if moved < s.opts.DistanceInterval {
			return false
		}
	}
	return true
}

// Current returns the latest reported sample for the user.
func (f *Feed) Current(ctx context.Context, userID int64, accuracy Accuracy) (Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.state(userID)
	if st.latest == nil {
		return Position{}, ErrNoPosition
	}
	return *st.latest, nil
}

// Watch installs a filtered subscription for the user and returns its
// cancellable handle.
func (f *Feed) Watch(userID int64, opts WatchOptions) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.state(userID)
	f.nextID++
	id := f.nextID

	sub := &subscriber{
		ch:   make(chan Position, 8),
		opts: opts,
	}
	st.subscribers[id] = sub

	handle := &Subscription{Positions: sub.ch}
	handle.cancel = func() {
		f.mu.Lock()
		if cur, ok := st.subscribers[id]; ok && cur == sub {
			delete(st.subscribers, id)
			close(sub.ch)
		}
		f.mu.Unlock()
	}
	return handle, nil
}

// DistanceMeters computes the Haversine distance between two coordinates.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0 // meters

	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
