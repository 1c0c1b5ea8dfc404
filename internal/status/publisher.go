package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
)

// ============================================================================
// STATUS PUBLISHER
// ============================================================================
// Maintains the single live row per user in user_status: a "who is in
// distress and where" board for downstream dashboards. The store exposes no
// native upsert, so the publisher does select-then-branch; a per-user lock
// serializes overlapping publishes (watch callbacks can fire back to back)
// so two of them can never both observe "no existing row".

// Publisher upserts user status rows.
type Publisher struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[int64]*sync.Mutex

	// onChange, when set, fires after every successful write with the row
	// as persisted. Used by the live status board.
	onChange func(models.UserStatus)
}

// NewPublisher creates a publisher over the given database.
func NewPublisher(db *sql.DB) *Publisher {
	return &Publisher{
		db:    db,
		locks: make(map[int64]*sync.Mutex),
	}
}

// OnChange registers the board notification hook.
func (p *Publisher) OnChange(fn func(models.UserStatus)) {
	p.onChange = fn
}

func (p *Publisher) userLock(userID int64) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[userID] = l
	}
	return l
}

// Publish records the user's position and status. A user id with no
// account row is a no-op. Errors are logged and returned so the caller
// can fold them into its completion report; they are never fatal to the
// SOS flow.
func (p *Publisher) Publish(ctx context.Context, userID int64, lat, lng float64, status models.StatusValue, displayLocation string) error {
	var name string
	var email string
	err := p.db.QueryRowContext(ctx,
		`SELECT name, email FROM users WHERE id = ?`, userID,
	).Scan(&name, &email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No authenticated account behind this id, nothing to publish
			return nil
		}
		log.Printf("⚠️ user_status: user lookup failed: %v", err)
		return fmt.Errorf("resolve user: %w", err)
	}
	if name == "" {
		name = email
	}
	if name == "" {
		name = "User"
	}

	lock := p.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()

	var existingID int64
	err = p.db.QueryRowContext(ctx,
		`SELECT id FROM user_status WHERE user_id = ?`, userID,
	).Scan(&existingID)

	switch {
	case err == nil:
		_, err = p.db.ExecContext(ctx, `
			UPDATE user_status
			SET name = ?, latitude = ?, longitude = ?, status = ?, last_update = ?, location = ?
			WHERE id = ?
		`, name, lat, lng, string(status), now, displayLocation, existingID)
		if err != nil {
			log.Printf("⚠️ user_status update failed: %v", err)
			return fmt.Errorf("update user_status: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		res, insertErr := p.db.ExecContext(ctx, `
			INSERT INTO user_status (user_id, name, latitude, longitude, status, last_update, location)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, userID, name, lat, lng, string(status), now, displayLocation)
		if insertErr != nil {
			log.Printf("⚠️ user_status insert failed: %v", insertErr)
			return fmt.Errorf("insert user_status: %w", insertErr)
		}
		existingID, _ = res.LastInsertId()
	default:
		log.Printf("⚠️ user_status select failed: %v", err)
		return fmt.Errorf("select user_status: %w", err)
	}

	if p.onChange != nil {
		p.onChange(models.UserStatus{
			ID:         existingID,
			UserID:     userID,
			Name:       name,
			Latitude:   lat,
			Longitude:  lng,
			Status:     status,
			LastUpdate: now,
			Location:   displayLocation,
		})
	}
	return nil
}

// Board returns every user_status row, most recently updated first.
func (p *Publisher) Board(ctx context.Context) ([]models.UserStatus, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, name, latitude, longitude, status, last_update, location
		FROM user_status
		ORDER BY last_update DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query user_status: %w", err)
	}
	defer rows.Close()

	board := []models.UserStatus{}
	for rows.Next() {
		var row models.UserStatus
		var status string
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.Name,
			&row.Latitude, &row.Longitude,
			&status, &row.LastUpdate, &row.Location,
		); err != nil {
			continue
		}
		row.Status = models.StatusValue(status)
		board = append(board, row)
	}
	return board, rows.Err()
}
