package dto

import (
	"time"

	"github.com/supakit/supakit/internal/model"
)

// CreateItemRequest represents the request body for creating an item.
// The owner is always the authenticated caller; it cannot be supplied.
type CreateItemRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateItemRequest represents the request body for updating an item.
// Absent fields are left unchanged.
type UpdateItemRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ItemResponse represents an item in API responses.
type ItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemListResponse represents a list of items.
type ItemListResponse struct {
	Data []ItemResponse `json:"data"`
}

// ToItemResponse maps a domain item to its API representation.
func ToItemResponse(item *model.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		UserID:      item.UserID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToItemListResponse maps a slice of domain items to the list response.
func ToItemListResponse(items []model.Item) ItemListResponse {
	data := make([]ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, ToItemResponse(&items[i]))
	}
	return ItemListResponse{Data: data}
}
