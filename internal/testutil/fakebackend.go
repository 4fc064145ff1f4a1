package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// FakeBackend is an in-process stand-in for the hosted backend. It speaks
// the subset of the auth and table APIs the application uses: password and
// refresh grants, user lookup by token, admin user management, and
// filtered CRUD on tables with server-assigned ids and timestamps.
type FakeBackend struct {
	AnonKey    string
	ServiceKey string

	srv *httptest.Server

	mu      sync.Mutex
	users   map[string]*FakeUser          // by user id
	byEmail map[string]string             // email -> user id
	tokens  map[string]string             // access token -> user id
	refresh map[string]string             // refresh token -> user id
	tables  map[string][]map[string]any   // table name -> rows
}

// FakeUser is an account registered with the fake auth provider.
type FakeUser struct {
	ID        string
	Email     string
	Password  string
	Confirmed bool
	Metadata  map[string]any
}

// NewFakeBackend starts the fake backend. Callers must Close it.
func NewFakeBackend() *FakeBackend {
	f := &FakeBackend{
		AnonKey:    "anon-" + ulid.Make().String(),
		ServiceKey: "service-" + ulid.Make().String(),
		users:      make(map[string]*FakeUser),
		byEmail:    make(map[string]string),
		tokens:     make(map[string]string),
		refresh:    make(map[string]string),
		tables:     make(map[string][]map[string]any),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, map[string]string{"name": "GoTrue"})
	})
	mux.HandleFunc("/auth/v1/token", f.handleToken)
	mux.HandleFunc("/auth/v1/user", f.handleGetUser)
	mux.HandleFunc("/auth/v1/admin/users", f.handleAdminCreate)
	mux.HandleFunc("/auth/v1/admin/users/", f.handleAdminUpdate)
	mux.HandleFunc("/rest/v1/", f.handleTable)

	f.srv = httptest.NewServer(mux)
	return f
}

// URL returns the fake backend's base URL.
func (f *FakeBackend) URL() string {
	return f.srv.URL
}

// Close shuts the fake backend down.
func (f *FakeBackend) Close() {
	f.srv.Close()
}

// AddUser registers a confirmed account and returns it. Roles, when
// given, land in the user metadata the way the provider stores them.
func (f *FakeBackend) AddUser(email, password string, roles []string) *FakeUser {
	f.mu.Lock()
	defer f.mu.Unlock()

	metadata := map[string]any{}
	if len(roles) > 0 {
		anyRoles := make([]any, len(roles))
		for i, r := range roles {
			anyRoles[i] = r
		}
		metadata["roles"] = anyRoles
	}

	user := &FakeUser{
		ID:        ulid.Make().String(),
		Email:     email,
		Password:  password,
		Confirmed: true,
		Metadata:  metadata,
	}
	f.users[user.ID] = user
	f.byEmail[email] = user.ID
	return user
}

// AddUnconfirmedUser registers an account that cannot sign in yet.
func (f *FakeBackend) AddUnconfirmedUser(email, password string) *FakeUser {
	user := f.AddUser(email, password, nil)
	f.mu.Lock()
	user.Confirmed = false
	f.mu.Unlock()
	return user
}

// TokenFor mints a valid access token for the user without a sign-in.
func (f *FakeBackend) TokenFor(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	token := "access-" + ulid.Make().String()
	f.tokens[token] = userID
	return token
}

// RevokeToken invalidates a previously issued access token.
func (f *FakeBackend) RevokeToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// Seed inserts a row directly into a table, bypassing the API.
func (f *FakeBackend) Seed(table string, row map[string]any) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := f.newRow(row)
	f.tables[table] = append(f.tables[table], stored)
	return stored
}

// Rows returns a copy of all rows in a table.
func (f *FakeBackend) Rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows := make([]map[string]any, len(f.tables[table]))
	copy(rows, f.tables[table])
	return rows
}

func (f *FakeBackend) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAuthAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthAPIError(w, http.StatusBadRequest, "bad_json", "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var user *FakeUser
	switch r.URL.Query().Get("grant_type") {
	case "password":
		id, ok := f.byEmail[req.Email]
		if !ok || f.users[id].Password != req.Password {
			writeAuthAPIError(w, http.StatusBadRequest, "invalid_grant", "Invalid login credentials")
			return
		}
		user = f.users[id]
		if !user.Confirmed {
			writeAuthAPIError(w, http.StatusBadRequest, "email_not_confirmed", "Email not confirmed")
			return
		}
	case "refresh_token":
		id, ok := f.refresh[req.RefreshToken]
		if !ok {
			writeAuthAPIError(w, http.StatusBadRequest, "invalid_grant", "Invalid Refresh Token")
			return
		}
		delete(f.refresh, req.RefreshToken)
		user = f.users[id]
	default:
		writeAuthAPIError(w, http.StatusBadRequest, "unsupported_grant_type", "unsupported grant type")
		return
	}

	access := "access-" + ulid.Make().String()
	refresh := "refresh-" + ulid.Make().String()
	f.tokens[access] = user.ID
	f.refresh[refresh] = user.ID

	writeBody(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": refresh,
		"user":          authUserBody(user),
	})
}

func (f *FakeBackend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID, ok := f.tokens[bearerToken(r)]
	if !ok {
		writeAuthAPIError(w, http.StatusUnauthorized, "bad_jwt", "invalid JWT")
		return
	}

	writeBody(w, http.StatusOK, authUserBody(f.users[userID]))
}

func (f *FakeBackend) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAuthAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if bearerToken(r) != f.ServiceKey {
		writeAuthAPIError(w, http.StatusForbidden, "not_admin", "service role required")
		return
	}

	var req struct {
		Email        string         `json:"email"`
		Password     string         `json:"password"`
		UserMetadata map[string]any `json:"user_metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthAPIError(w, http.StatusBadRequest, "bad_json", "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byEmail[req.Email]; exists {
		writeAuthAPIError(w, http.StatusUnprocessableEntity, "email_exists", "A user with this email address has already been registered")
		return
	}

	user := &FakeUser{
		ID:        ulid.Make().String(),
		Email:     req.Email,
		Password:  req.Password,
		Confirmed: true,
		Metadata:  req.UserMetadata,
	}
	if user.Metadata == nil {
		user.Metadata = map[string]any{}
	}
	f.users[user.ID] = user
	f.byEmail[user.Email] = user.ID

	writeBody(w, http.StatusOK, authUserBody(user))
}

func (f *FakeBackend) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeAuthAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if bearerToken(r) != f.ServiceKey {
		writeAuthAPIError(w, http.StatusForbidden, "not_admin", "service role required")
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/auth/v1/admin/users/")

	var req struct {
		UserMetadata map[string]any `json:"user_metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthAPIError(w, http.StatusBadRequest, "bad_json", "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		writeAuthAPIError(w, http.StatusNotFound, "user_not_found", "User not found")
		return
	}
	user.Metadata = req.UserMetadata

	writeBody(w, http.StatusOK, authUserBody(user))
}

func (f *FakeBackend) handleTable(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	if table == "" || strings.Contains(table, "/") {
		writeBody(w, http.StatusNotFound, map[string]string{"message": "unknown table"})
		return
	}

	filters := parseFilters(r.URL.Query())

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		writeBody(w, http.StatusOK, f.matchRows(table, filters))

	case http.MethodPost:
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeBody(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		stored := f.newRow(row)
		f.tables[table] = append(f.tables[table], stored)
		writeBody(w, http.StatusCreated, []map[string]any{stored})

	case http.MethodPatch:
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeBody(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		matched := f.matchRows(table, filters)
		for _, row := range matched {
			for k, v := range patch {
				row[k] = v
			}
			row["updated_at"] = time.Now().UTC().Format(time.RFC3339)
		}
		writeBody(w, http.StatusOK, matched)

	case http.MethodDelete:
		matched := f.matchRows(table, filters)
		var kept []map[string]any
		for _, row := range f.tables[table] {
			if !rowMatches(row, filters) {
				kept = append(kept, row)
			}
		}
		f.tables[table] = kept
		writeBody(w, http.StatusOK, matched)

	default:
		writeBody(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

// newRow assigns the server-side fields of a freshly inserted row.
// Callers must hold the mutex.
func (f *FakeBackend) newRow(row map[string]any) map[string]any {
	stored := make(map[string]any, len(row)+3)
	for k, v := range row {
		stored[k] = v
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, ok := stored["id"]; !ok {
		stored["id"] = ulid.Make().String()
	}
	stored["created_at"] = now
	stored["updated_at"] = now
	return stored
}

// matchRows returns the rows of table matching every filter.
// Callers must hold the mutex.
func (f *FakeBackend) matchRows(table string, filters map[string]string) []map[string]any {
	matched := []map[string]any{}
	for _, row := range f.tables[table] {
		if rowMatches(row, filters) {
			matched = append(matched, row)
		}
	}
	return matched
}

func rowMatches(row map[string]any, filters map[string]string) bool {
	for column, want := range filters {
		got, ok := row[column].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// parseFilters extracts eq.* equality predicates from the query string.
func parseFilters(query url.Values) map[string]string {
	filters := make(map[string]string)
	for column, values := range query {
		if column == "select" || len(values) == 0 {
			continue
		}
		if strings.HasPrefix(values[0], "eq.") {
			filters[column] = strings.TrimPrefix(values[0], "eq.")
		}
	}
	return filters
}

func bearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func authUserBody(user *FakeUser) map[string]any {
	return map[string]any{
		"id":            user.ID,
		"email":         user.Email,
		"user_metadata": user.Metadata,
	}
}

func writeBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeAuthAPIError mirrors the auth provider's error envelope.
func writeAuthAPIError(w http.ResponseWriter, status int, code, description string) {
	writeBody(w, status, map[string]any{
		"error":             code,
		"error_description": description,
	})
}
