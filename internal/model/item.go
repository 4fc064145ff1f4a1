// Package model defines domain entities for the application.
package model

import "time"

// ItemsTable is the storage location for items in the external store.
const ItemsTable = "items"

// Item is a user-owned record persisted in the external store. The store
// assigns id and timestamps; user_id always equals the creator's id.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether the item belongs to the given user.
func (i *Item) OwnedBy(u *User) bool {
	return u != nil && i.UserID == u.ID
}

// ItemCreate is the insert payload sent to the external store.
type ItemCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	UserID      string  `json:"user_id"`
}

// ItemUpdate is the update payload sent to the external store. Only
// non-nil fields are transmitted; the id is never part of the payload.
type ItemUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
