// Package repository translates typed CRUD operations into calls against
// the external tabular store. There is no local state: each operation is a
// single round trip and the store remains the sole source of truth.
package repository

import (
	"context"
	"errors"

	"github.com/supakit/supakit/internal/model"
	"github.com/supakit/supakit/internal/supabase"
)

// ErrNotFound is returned by Update and Delete when no row matches the id.
var ErrNotFound = errors.New("record not found")

// ownerColumn is the column tying a record to the user who created it.
const ownerColumn = "user_id"

// Repository provides CRUD access to one table. T is the stored record
// shape, C the insert payload and U the update payload. The compile-time
// pairing of table and payload types replaces the untyped row maps the
// store itself speaks.
type Repository[T any, C any, U any] struct {
	client *supabase.Client
	table  string
}

// New creates a Repository over the named table.
func New[T any, C any, U any](client *supabase.Client, table string) *Repository[T, C, U] {
	return &Repository[T, C, U]{client: client, table: table}
}

// Table returns the storage location name.
func (r *Repository[T, C, U]) Table() string {
	return r.table
}

// Get fetches one record by id. Absence is not an error; it returns
// (nil, nil).
func (r *Repository[T, C, U]) Get(ctx context.Context, token, id string) (*T, error) {
	var rows []T
	err := r.client.From(r.table).
		Select().
		Eq("id", id).
		Auth(token).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// GetAll fetches every record in the table, in whatever order the store
// returns them.
func (r *Repository[T, C, U]) GetAll(ctx context.Context, token string) ([]T, error) {
	var rows []T
	err := r.client.From(r.table).
		Select().
		Auth(token).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByOwner fetches every record owned by the given user.
func (r *Repository[T, C, U]) GetByOwner(ctx context.Context, token string, owner *model.User) ([]T, error) {
	var rows []T
	err := r.client.From(r.table).
		Select().
		Eq(ownerColumn, owner.ID).
		Auth(token).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts one record and returns it as stored, including the
// server-assigned id and timestamps.
func (r *Repository[T, C, U]) Create(ctx context.Context, token string, input C) (*T, error) {
	var rows []T
	err := r.client.From(r.table).
		Insert(input).
		Auth(token).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("store returned no row for insert")
	}
	return &rows[0], nil
}

// Update applies the non-empty fields of input to the record with the
// given id and returns the updated record. Returns ErrNotFound when the
// id does not exist.
func (r *Repository[T, C, U]) Update(ctx context.Context, token, id string, input U) (*T, error) {
	var rows []T
	err := r.client.From(r.table).
		Update(input).
		Eq("id", id).
		Auth(token).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Delete removes the record with the given id and returns its last-known
// values. Returns ErrNotFound when the id does not exist.
func (r *Repository[T, C, U]) Delete(ctx context.Context, token, id string) (*T, error) {
	var rows []T
	err := r.client.From(r.table).
		Delete().
		Eq("id", id).
		Auth(token).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
