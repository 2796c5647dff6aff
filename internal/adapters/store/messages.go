package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/samber/lo"
)

const messageColumns = `id, sender_id, receiver_id, group_id, type, text, media_url, file_name, location, contact, status, reactions, created_at`

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		m                 domain.Message
		location, contact sql.NullString
		reactions         string
		created           int64
	)
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.GroupID, &m.Type, &m.Text, &m.MediaURL, &m.FileName,
		&location, &contact, &m.Status, &reactions, &created); err != nil {
		return nil, err
	}
	m.CreatedAt = fromMillis(created)
	if location.Valid {
		m.Location = &domain.Location{}
		if err := json.Unmarshal([]byte(location.String), m.Location); err != nil {
			return nil, fmt.Errorf("decode location: %w", err)
		}
	}
	if contact.Valid {
		m.Contact = &domain.Contact{}
		if err := json.Unmarshal([]byte(contact.String), m.Contact); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(reactions), &m.Reactions); err != nil {
		return nil, fmt.Errorf("decode reactions: %w", err)
	}
	return &m, nil
}

func (s *Store) InsertMessage(ctx context.Context, msg *domain.Message) error {
	location, err := nullJSON(msg.Location)
	if err != nil {
		return err
	}
	contact, err := nullJSON(msg.Contact)
	if err != nil {
		return err
	}
	reactions, err := toJSON(lo.Ternary(msg.Reactions == nil, []domain.Reaction{}, msg.Reactions))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.GroupID, msg.Type, msg.Text, msg.MediaURL, msg.FileName,
		location, contact, msg.Status, reactions, millis(msg.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) FindMessage(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	m, err := scanMessage(s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (s *Store) listMessages(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ListConversation returns the direct messages between a and b, oldest first.
func (s *Store) ListConversation(ctx context.Context, a, b domain.UserID) ([]domain.Message, error) {
	return s.listMessages(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE group_id = '' AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))
		ORDER BY created_at, id`, a, b, b, a)
}

// LastDirectMessages returns the newest direct message uid exchanged with
// each counterpart.
func (s *Store) LastDirectMessages(ctx context.Context, uid domain.UserID) ([]domain.Message, error) {
	return s.listMessages(ctx, `SELECT `+messageColumns+` FROM (
		SELECT m.*, ROW_NUMBER() OVER (
			PARTITION BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
			ORDER BY created_at DESC, id DESC
		) AS rn
		FROM messages m
		WHERE group_id = '' AND (sender_id = ? OR receiver_id = ?)
	) WHERE rn = 1
	ORDER BY created_at DESC`, uid, uid, uid)
}

func (s *Store) ListGroupMessages(ctx context.Context, id domain.GroupID) ([]domain.Message, error) {
	return s.listMessages(ctx, `SELECT `+messageColumns+` FROM messages WHERE group_id = ? ORDER BY created_at, id`, id)
}

func (s *Store) UpdateManyMessages(ctx context.Context, filter core.MessageFilter, patch core.MessagePatch) (int64, error) {
	var (
		where []string
		args  = []any{patch.Status}
	)
	if filter.SenderID != "" {
		where = append(where, "sender_id = ?")
		args = append(args, filter.SenderID)
	}
	if filter.ReceiverID != "" {
		where = append(where, "receiver_id = ?")
		args = append(args, filter.ReceiverID)
	}
	if filter.StatusNot != "" {
		where = append(where, "status <> ?")
		args = append(args, filter.StatusNot)
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("update messages: empty filter")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET status = ? WHERE `+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("update messages: %w", err)
	}
	return res.RowsAffected()
}

// SetReaction replaces uid's earlier reaction, if any, in one transaction.
func (s *Store) SetReaction(ctx context.Context, id domain.MessageID, r domain.Reaction) (*domain.Message, error) {
	var out *domain.Message
	err := s.tx(ctx, func(tx *sql.Tx) error {
		m, err := scanMessage(tx.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
		if err != nil {
			return notFound(err)
		}
		m.Reactions = lo.Reject(m.Reactions, func(x domain.Reaction, _ int) bool { return x.UserID == r.UserID })
		m.Reactions = append(m.Reactions, r)
		reactions, err := toJSON(m.Reactions)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE messages SET reactions = ? WHERE id = ?`, reactions, id); err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}
