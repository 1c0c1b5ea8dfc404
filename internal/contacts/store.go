package contacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
)

// ============================================================================
// EMERGENCY CONTACT STORE
// ============================================================================
// Durable key-value store for emergency contacts, backed by Badger.
// Each user owns a single key holding the whole contact list as a JSON
// array; every mutation rewrites the list and persists it immediately.

const keyPrefix = "emergency_contacts:"

var ErrNotFound = errors.New("contact not found")

// Store persists emergency contact lists.
type Store struct {
	db *badger.DB
}

// Open creates (or reopens) the contact store at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logger is too chatty for our log output
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open contact store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the store is open and readable. Used by the health check.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return errors.New("contact store is closed")
	}
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyPrefix + "__ping__"))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func storageKey(userID int64) []byte {
	return []byte(fmt.Sprintf("%s%d", keyPrefix, userID))
}

// Load returns the user's contact list. Missing or unreadable values
// degrade to an empty list, matching the best-effort contract of the
// device store.
func (s *Store) Load(userID int64) []models.Contact {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey(userID))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Printf("⚠️ contact store read failed for user %d: %v", userID, err)
		}
		return []models.Contact{}
	}

	var list []models.Contact
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Printf("⚠️ contact store holds corrupt value for user %d: %v", userID, err)
		return []models.Contact{}
	}
	if list == nil {
		return []models.Contact{}
	}
	return list
}

// Save rewrites the user's whole contact list.
func (s *Store) Save(userID int64, list []models.Contact) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storageKey(userID), raw)
	})
	if err != nil {
		return fmt.Errorf("save contacts: %w", err)
	}
	return nil
}

// Add appends a new contact and persists the list. The first contact a
// user saves becomes the primary one.
func (s *Store) Add(userID int64, req models.ContactCreateRequest) (models.Contact, error) {
	list := s.Load(userID)

	relationship := req.Relationship
	if relationship == "" {
		relationship = "Other"
	}

	contact := models.Contact{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Relationship: relationship,
		IsPrimary:    len(list) == 0,
	}

	list = append(list, contact)
	if err := s.Save(userID, list); err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

// Delete removes the contact with the given id and persists the list.
func (s *Store) Delete(userID int64, contactID string) error {
	list := s.Load(userID)
	updated := make([]models.Contact, 0, len(list))
	found := false
	for _, c := range list {
		if c.ID == contactID {
			found = true
			continue
		}
		updated = append(updated, c)
	}
	if !found {
		return ErrNotFound
	}
	return s.Save(userID, updated)
}

// SetPrimary marks the contact with the given id as primary and clears
// the flag on every other contact, so at most one primary exists at any
// observable time.
func (s *Store) SetPrimary(userID int64, contactID string) error {
	list := s.Load(userID)
	found := false
	for i := range list {
		list[i].IsPrimary = list[i].ID == contactID
		if list[i].IsPrimary {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return s.Save(userID, list)
}
