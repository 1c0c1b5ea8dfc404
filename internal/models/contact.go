package models

// Contact represents an emergency contact saved on the user's device store.
type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Relationship string `json:"relationship"`
	IsPrimary    bool   `json:"isPrimary"`
}

// ContactCreateRequest represents the add-contact form submission.
type ContactCreateRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}
