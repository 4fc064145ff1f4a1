package repository

import (
	"github.com/supakit/supakit/internal/model"
	"github.com/supakit/supakit/internal/supabase"
)

// ItemRepository is the items table binding of the generic repository.
type ItemRepository = Repository[model.Item, model.ItemCreate, model.ItemUpdate]

// NewItemRepository creates the repository for the items table.
func NewItemRepository(client *supabase.Client) *ItemRepository {
	return New[model.Item, model.ItemCreate, model.ItemUpdate](client, model.ItemsTable)
}
