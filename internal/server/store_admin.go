package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type AdminStore interface {
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}

type adminDoc struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type adminSessionDoc struct {
	ID        string `json:"id"`
	AdminID   string `json:"adminId"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}

// AdminDocStore keeps admins and their login sessions in JSONB tables
// created by the migrations package.
type AdminDocStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAdminDocStore(db *sql.DB) *AdminDocStore {
	return &AdminDocStore{db: db, now: time.Now}
}

// SeedAdmin creates the admin account when none exists yet. passwordHash is
// a bcrypt hash.
func (s *AdminDocStore) SeedAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	admin := adminDoc{
		ID:           newID(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
	}
	data, err := json.Marshal(admin)
	if err != nil {
		return false, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, data) VALUES (?, ?, jsonb(?))`,
		admin.ID, admin.Email, string(data),
	)
	if err != nil {
		return false, fmt.Errorf("seeding admin: %w", err)
	}
	return true, nil
}

func (s *AdminDocStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var a adminDoc
	if err := s.getDoc(ctx, `SELECT json(data) FROM admins WHERE email = ?`, email, &a); err != nil {
		return "", "", err
	}
	return a.ID, a.PasswordHash, nil
}

func (s *AdminDocStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var a adminDoc
	if err := s.getDoc(ctx, `SELECT json(data) FROM admins WHERE id = ?`, adminID, &a); err != nil {
		return "", err
	}

	sessionID := newID()
	data, err := json.Marshal(adminSessionDoc{
		ID:        sessionID,
		AdminID:   adminID,
		Email:     a.Email,
		ExpiresAt: s.now().Add(adminSessionTTL).UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO admin_sessions (id, data) VALUES (?, jsonb(?))`,
		sessionID, string(data),
	)
	return sessionID, err
}

func (s *AdminDocStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE id = ?`, sessionID,
	)
	return err
}

// AdminFromSession resolves a session cookie. Expired sessions are removed
// and reported as missing.
func (s *AdminDocStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var as adminSessionDoc
	err := s.getDoc(ctx, `SELECT json(data) FROM admin_sessions WHERE id = ?`, sessionID, &as)
	if errors.Is(err, ErrNotFound) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, err
	}

	if exp, err := time.Parse(time.RFC3339, as.ExpiresAt); err == nil && s.now().After(exp) {
		s.DeleteAdminSession(ctx, sessionID)
		return adminSession{}, errNoAdminSession
	}
	return adminSession{AdminID: as.AdminID, Email: as.Email}, nil
}

func (s *AdminDocStore) getDoc(ctx context.Context, query, arg string, dest any) error {
	var data string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

var _ AdminStore = (*AdminDocStore)(nil)
