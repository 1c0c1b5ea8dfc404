package contacts

import (
	"testing"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreLoadMissingUser(t *testing.T) {
	store := openTestStore(t)

	list := store.Load(42)
	if len(list) != 0 {
		t.Errorf("Expected empty list for unknown user, got %d contacts", len(list))
	}
}

func TestStoreAddAndLoad(t *testing.T) {
	store := openTestStore(t)

	contact, err := store.Add(1, models.ContactCreateRequest{
		Name:  "Alice",
		Phone: "+15551234567",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if contact.ID == "" {
		t.Error("Expected generated contact id")
	}
	if contact.Relationship != "Other" {
		t.Errorf("Expected default relationship 'Other', got %q", contact.Relationship)
	}

	list := store.Load(1)
	if len(list) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(list))
	}
	if list[0].Name != "Alice" {
		t.Errorf("Expected Alice, got %s", list[0].Name)
	}
}

func TestStoreFirstContactIsPrimary(t *testing.T) {
	store := openTestStore(t)

	first, _ := store.Add(1, models.ContactCreateRequest{Name: "Alice", Phone: "+15551234567"})
	second, _ := store.Add(1, models.ContactCreateRequest{Name: "Bob", Phone: "+15557654321"})

	if !first.IsPrimary {
		t.Error("Expected first contact to be primary")
	}
	if second.IsPrimary {
		t.Error("Expected second contact not to be primary")
	}
}

func TestStoreSetPrimaryIsExclusive(t *testing.T) {
	store := openTestStore(t)

	_, _ = store.Add(1, models.ContactCreateRequest{Name: "Alice", Phone: "+15551234567"})
	second, _ := store.Add(1, models.ContactCreateRequest{Name: "Bob", Phone: "+15557654321"})
	third, _ := store.Add(1, models.ContactCreateRequest{Name: "Carol", Phone: "+15550001111"})

	if err := store.SetPrimary(1, second.ID); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}

	primaries := 0
	for _, c := range store.Load(1) {
		if c.IsPrimary {
			primaries++
			if c.ID != second.ID {
				t.Errorf("Expected %s to be primary, found %s", second.ID, c.ID)
			}
		}
	}
	if primaries != 1 {
		t.Errorf("Expected exactly one primary contact, got %d", primaries)
	}

	// Moving the flag again keeps the invariant
	if err := store.SetPrimary(1, third.ID); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}
	primaries = 0
	for _, c := range store.Load(1) {
		if c.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Errorf("Expected exactly one primary contact after reassign, got %d", primaries)
	}
}

func TestStoreSetPrimaryUnknownContact(t *testing.T) {
	store := openTestStore(t)

	_, _ = store.Add(1, models.ContactCreateRequest{Name: "Alice", Phone: "+15551234567"})
	if err := store.SetPrimary(1, "does-not-exist"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	contact, _ := store.Add(1, models.ContactCreateRequest{Name: "Alice", Phone: "+15551234567"})

	if err := store.Delete(1, contact.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(store.Load(1)) != 0 {
		t.Error("Expected no contacts after delete")
	}

	if err := store.Delete(1, contact.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}

func TestStoreUsersAreIsolated(t *testing.T) {
	store := openTestStore(t)

	_, _ = store.Add(1, models.ContactCreateRequest{Name: "Alice", Phone: "+15551234567"})
	_, _ = store.Add(2, models.ContactCreateRequest{Name: "Bob", Phone: "+15557654321"})

	if len(store.Load(1)) != 1 || len(store.Load(2)) != 1 {
		t.Error("Expected each user to see only their own contact")
	}
	if store.Load(1)[0].Name != "Alice" {
		t.Error("Expected user 1 to see Alice")
	}
}

func TestStorePing(t *testing.T) {
	store := openTestStore(t)
	if err := store.Ping(); err != nil {
		t.Errorf("Expected open store to ping, got %v", err)
	}
}
