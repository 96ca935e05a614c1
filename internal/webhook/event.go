package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/users"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Event is the delivery envelope.
type Event struct {
	Type string   `json:"type"`
	Data UserData `json:"data"`
}

type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData is the user object carried by user.* events. Pointer fields
// distinguish an absent attribute from an empty one.
type UserData struct {
	ID                    string                 `json:"id"`
	FirstName             *string                `json:"first_name"`
	LastName              *string                `json:"last_name"`
	ImageURL              *string                `json:"image_url"`
	EmailAddresses        []EmailAddress         `json:"email_addresses"`
	PrimaryEmailAddressID string                 `json:"primary_email_address_id"`
	PublicMetadata        map[string]interface{} `json:"public_metadata"`
}

// Parse decodes a delivery body.
func Parse(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, models.NewValidationError("body", fmt.Sprintf("invalid webhook payload: %v", err))
	}
	if ev.Type == "" {
		return nil, models.NewValidationError("type", "is required")
	}
	if ev.Data.ID == "" {
		return nil, models.NewValidationError("data.id", "is required")
	}
	return &ev, nil
}

// Email returns the primary address, falling back to the first one listed.
func (d UserData) Email() string {
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(d.EmailAddresses) > 0 {
		return d.EmailAddresses[0].EmailAddress
	}
	return ""
}

// Name joins first and last name. ok is false when neither is present.
func (d UserData) Name() (name string, ok bool) {
	if d.FirstName == nil && d.LastName == nil {
		return "", false
	}
	var parts []string
	if d.FirstName != nil {
		parts = append(parts, *d.FirstName)
	}
	if d.LastName != nil {
		parts = append(parts, *d.LastName)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), true
}

// Role reads public_metadata.role when it names a known role.
func (d UserData) Role() *models.Role {
	raw, _ := d.PublicMetadata["role"].(string)
	r := models.Role(raw)
	if !r.Valid() {
		return nil
	}
	return &r
}

// SyncInput maps a user.created payload onto the sync contract.
func (d UserData) SyncInput() users.SyncUserInput {
	name, _ := d.Name()
	in := users.SyncUserInput{
		Identity: d.ID,
		Email:    d.Email(),
		Name:     name,
		Image:    d.ImageURL,
		Role:     d.Role(),
	}
	if in.Name == "" {
		in.Name = in.Email
	}
	return in
}

// Update maps a user.updated payload onto a partial update carrying only
// the attributes present in the delivery.
func (d UserData) Update() users.WebhookUpdate {
	var u users.WebhookUpdate
	if name, ok := d.Name(); ok && name != "" {
		u.Name = &name
	}
	if d.ImageURL != nil {
		img := *d.ImageURL
		u.Image = &img
	}
	if email := d.Email(); email != "" {
		u.Email = &email
	}
	return u
}
