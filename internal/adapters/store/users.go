package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/samber/lo"
)

const userColumns = `id, full_name, email, profile_pic, about, last_seen, read_receipts, privacy_profile_pic, privacy_about, push_tokens, linked_devices`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u               domain.User
		lastSeen        int64
		receipts        bool
		picVis, about   string
		tokens, devices string
	)
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.ProfilePic, &u.About, &lastSeen, &receipts, &picVis, &about, &tokens, &devices); err != nil {
		return nil, err
	}
	u.LastSeen = fromMillis(lastSeen)
	u.Privacy.ReadReceipts = receipts
	u.Privacy.ProfilePic = domain.Visibility(picVis)
	u.Privacy.About = domain.Visibility(about)
	if err := json.Unmarshal([]byte(tokens), &u.PushTokens); err != nil {
		return nil, fmt.Errorf("decode push tokens: %w", err)
	}
	if err := json.Unmarshal([]byte(devices), &u.LinkedDevices); err != nil {
		return nil, fmt.Errorf("decode linked devices: %w", err)
	}
	return &u, nil
}

func visibility(v domain.Visibility) string {
	if v == "" {
		return string(domain.VisibleEveryone)
	}
	return string(v)
}

// ListUsers returns every user but except, by name.
func (s *Store) ListUsers(ctx context.Context, except domain.UserID) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id <> ? ORDER BY full_name COLLATE NOCASE, id`, except)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *Store) FindUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// SaveUser upserts profile fields. Push tokens and linked devices are left alone.
func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, full_name, email, profile_pic, about, last_seen, read_receipts, privacy_profile_pic, privacy_about)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			profile_pic = excluded.profile_pic,
			about = excluded.about,
			read_receipts = excluded.read_receipts,
			privacy_profile_pic = excluded.privacy_profile_pic,
			privacy_about = excluded.privacy_about`,
		u.ID, u.FullName, u.Email, u.ProfilePic, u.About, millis(u.LastSeen), u.Privacy.ReadReceipts,
		visibility(u.Privacy.ProfilePic), visibility(u.Privacy.About))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, id domain.UserID, patch core.UserPatch) error {
	if patch.LastSeen == nil {
		return nil
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET last_seen = ? WHERE id = ?`, millis(*patch.LastSeen), id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return affected(res)
}

// mutateUser loads a user, applies fn and writes the JSON columns back in
// one transaction.
func (s *Store) mutateUser(ctx context.Context, id domain.UserID, fn func(u *domain.User)) (*domain.User, error) {
	var out *domain.User
	err := s.tx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
		if err != nil {
			return notFound(err)
		}
		fn(u)
		if u.PushTokens == nil {
			u.PushTokens = []string{}
		}
		if u.LinkedDevices == nil {
			u.LinkedDevices = []domain.LinkedDevice{}
		}
		tokens, err := toJSON(u.PushTokens)
		if err != nil {
			return err
		}
		devices, err := toJSON(u.LinkedDevices)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET push_tokens = ?, linked_devices = ? WHERE id = ?`, tokens, devices, id); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

// UpsertLinkedDevice replaces a device with the same id or appends it.
func (s *Store) UpsertLinkedDevice(ctx context.Context, id domain.UserID, dev domain.LinkedDevice) (*domain.User, error) {
	return s.mutateUser(ctx, id, func(u *domain.User) {
		i := slices.IndexFunc(u.LinkedDevices, func(d domain.LinkedDevice) bool { return d.DeviceID == dev.DeviceID })
		if i < 0 {
			u.LinkedDevices = append(u.LinkedDevices, dev)
			return
		}
		dev.LoginAt = u.LinkedDevices[i].LoginAt
		if dev.LoginAt.IsZero() {
			dev.LoginAt = dev.LastActiveAt
		}
		u.LinkedDevices[i] = dev
	})
}

func (s *Store) TouchLinkedDevice(ctx context.Context, id domain.UserID, deviceID string, at time.Time) error {
	_, err := s.mutateUser(ctx, id, func(u *domain.User) {
		for i := range u.LinkedDevices {
			if u.LinkedDevices[i].DeviceID == deviceID {
				u.LinkedDevices[i].LastActiveAt = at
			}
		}
	})
	return err
}

func (s *Store) RemoveLinkedDevice(ctx context.Context, id domain.UserID, deviceID string) error {
	_, err := s.mutateUser(ctx, id, func(u *domain.User) {
		u.LinkedDevices = lo.Reject(u.LinkedDevices, func(d domain.LinkedDevice, _ int) bool { return d.DeviceID == deviceID })
	})
	return err
}

// AddPushToken has set semantics; a repeated token is a no-op.
func (s *Store) AddPushToken(ctx context.Context, id domain.UserID, token string) error {
	_, err := s.mutateUser(ctx, id, func(u *domain.User) {
		if !lo.Contains(u.PushTokens, token) {
			u.PushTokens = append(u.PushTokens, token)
		}
	})
	return err
}

func (s *Store) RemovePushToken(ctx context.Context, id domain.UserID, token string) error {
	_, err := s.mutateUser(ctx, id, func(u *domain.User) {
		u.PushTokens = lo.Without(u.PushTokens, token)
	})
	return err
}
