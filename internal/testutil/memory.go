// Package testutil provides in-memory stand-ins for the console's backing
// stores, for use in package tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/astra-console/internal/auth"
	"github.com/hongminglow/astra-console/internal/editor"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/storage"
)

// MemoryStore implements the relational store over maps.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	admins   map[string]bool
	profiles map[string]models.Profile

	// injected failures, set through the Fail* methods
	updateErr error
	listErr   error
	roleErr   error

	updates []models.ProfileUpdate
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: map[string]models.Account{},
		admins:   map[string]bool{},
		profiles: map[string]models.Profile{},
	}
}

// FailRoles makes every IsAdmin call return err; nil restores it.
func (s *MemoryStore) FailRoles(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleErr = err
}

// FailList makes every ListProfiles call return err; nil restores it.
func (s *MemoryStore) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// FailUpdates makes every UpdateProfile call return err; nil restores it.
func (s *MemoryStore) FailUpdates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErr = err
}

// UpdateCount is the number of UpdateProfile calls so far.
func (s *MemoryStore) UpdateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

// AddAccount registers credentials; the password is hashed with bcrypt.
func (s *MemoryStore) AddAccount(id, email, password string, admin bool) models.Account {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	role := models.RoleClient
	if admin {
		role = models.RoleAdmin
	}
	account := models.Account{ID: id, Email: email, Role: role, PasswordHash: hash, CreatedAt: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[id] = account
	s.admins[id] = admin
	return account
}

// AddProfile stores a profile row as-is.
func (s *MemoryStore) AddProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

// Profile returns the stored row for id.
func (s *MemoryStore) Profile(id string) (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	return p, ok
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}

func (s *MemoryStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roleErr != nil {
		return false, s.roleErr
	}
	return s.admins[userID], nil
}

func (s *MemoryStore) OwnProfile(ctx context.Context, userID string) (models.ProfileSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return models.ProfileSummary{}, storage.ErrNotFound
	}
	return models.ProfileSummary{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PUTotal:      p.PUTotal,
		PUConverted:  p.PUConverted,
		AutoConvert:  p.AutoConvert,
		CarryoverUSD: p.CarryoverUSD,
	}, nil
}

func (s *MemoryStore) ListProfiles(ctx context.Context, limit int) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	rows := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
	if s.updateErr != nil {
		return models.Profile{}, s.updateErr
	}
	p, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, storage.ErrNotFound
	}
	p.FirstName = update.FirstName
	p.LastName = update.LastName
	p.PUTotal = update.PUTotal
	p.PUConverted = update.PUConverted
	p.AutoConvert = update.AutoConvert
	p.CarryoverUSD = update.CarryoverUSD
	p.WalletDefault = update.WalletDefault
	p.BybitUID = update.BybitUID
	p.BTCAddress = update.BTCAddress
	s.profiles[id] = p
	return p, nil
}

// MemorySessions implements auth.SessionStore.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: map[string]auth.Session{}}
}

func (m *MemorySessions) Create(ctx context.Context, session auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *MemorySessions) Get(ctx context.Context, id string) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return auth.Session{}, auth.ErrNoSession
	}
	return session, nil
}

func (m *MemorySessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len is the number of live sessions.
func (m *MemorySessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MemoryEdits implements editor.Store.
type MemoryEdits struct {
	mu    sync.Mutex
	edits map[string]editor.EditSession
}

func NewMemoryEdits() *MemoryEdits {
	return &MemoryEdits{edits: map[string]editor.EditSession{}}
}

func (m *MemoryEdits) Load(ctx context.Context, key string) (editor.EditSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edits[key], nil
}

func (m *MemoryEdits) Save(ctx context.Context, key string, session editor.EditSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits[key] = session
	return nil
}

func (m *MemoryEdits) Clear(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.edits, key)
	return nil
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Dec parses a decimal literal, panicking on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MemoryCounter implements a fixed-window hit counter. Windows never expire.
type MemoryCounter struct {
	mu   sync.Mutex
	hits map[string]int64
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{hits: map[string]int64{}}
}

func (c *MemoryCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits[key]++
	return c.hits[key], window, nil
}
