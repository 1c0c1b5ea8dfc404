package safety

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// ============================================================================
// SAFETY SCORE SERVICE
// ============================================================================
// Cosmetic real-time risk score shown on the home screen. The score drifts
// randomly (±5) every refresh interval and stays clamped to 0..100; it is
// presentation only and feeds no decision anywhere else in the system.

const (
	defaultScore    = 78
	refreshInterval = 30 * time.Second
)

// Score is the current safety reading with its display metadata.
type Score struct {
	Value     int       `json:"value"`
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service produces the drifting score.
type Service struct {
	mu        sync.RWMutex
	value     int
	updatedAt time.Time
	rng       *rand.Rand
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewService seeds the score at its default value and starts the
// background drift.
func NewService() *Service {
	s := &Service{
		value:     defaultScore,
		updatedAt: time.Now(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:      make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Service) run() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.drift()
		case <-s.stop:
			return
		}
	}
}

func (s *Service) drift() {
	s.mu.Lock()
	defer s.mu.Unlock()
	change := (s.rng.Float64() - 0.5) * 10
	s.value = Clamp(int(math.Round(float64(s.value) + change)))
	s.updatedAt = time.Now()
}

// Current returns the score with its label and color.
func (s *Service) Current() Score {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Score{
		Value:     s.value,
		Label:     Label(s.value),
		Color:     Color(s.value),
		UpdatedAt: s.updatedAt,
	}
}

// Stop halts the background drift.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Clamp bounds a score to 0..100.
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Label maps a score to its risk band.
func Label(score int) string {
	if score >= 70 {
		return "Safe"
	}
	if score >= 40 {
		return "Moderate"
	}
	return "High Risk"
}

// Color maps a score to the band's display color.
func Color(score int) string {
	if score >= 70 {
		return "#059669" // green
	}
	if score >= 40 {
		return "#D97706" // amber
	}
	return "#DC2626" // red
}
