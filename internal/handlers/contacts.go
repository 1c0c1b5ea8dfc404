package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/contacts"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/phone"
)

type ContactsHandler struct {
	store              *contacts.Store
	defaultCountryCode string
}

func NewContactsHandler(store *contacts.Store, defaultCountryCode string) *ContactsHandler {
	return &ContactsHandler{store: store, defaultCountryCode: defaultCountryCode}
}

// ListContacts returns the user's saved emergency contacts.
func (h *ContactsHandler) ListContacts(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	list := h.store.Load(userID)
	return c.JSON(fiber.Map{
		"contacts": list,
		"count":    len(list),
	})
}

// CreateContact adds a new emergency contact. The first contact a user
// saves becomes the primary one.
func (h *ContactsHandler) CreateContact(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.ContactCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Phone == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Name and phone number are required",
		})
	}
	// Warn early about numbers that SOS dispatch would have to skip
	if _, ok := phone.Normalize(req.Phone, h.defaultCountryCode); !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Phone number is not dialable",
		})
	}

	contact, err := h.store.Add(userID, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save contact",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// DeleteContact removes an emergency contact by id.
func (h *ContactsHandler) DeleteContact(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	contactID := c.Params("id")
	if err := h.store.Delete(userID, contactID); err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Contact not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete contact",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Contact removed successfully",
	})
}

// SetPrimaryContact marks one contact as primary, clearing the flag on
// every other contact.
func (h *ContactsHandler) SetPrimaryContact(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	contactID := c.Params("id")
	if err := h.store.SetPrimary(userID, contactID); err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Contact not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update contact",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Primary contact updated",
	})
}
