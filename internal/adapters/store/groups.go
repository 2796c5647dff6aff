package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkeye/Pulse/internal/domain"
)

const groupColumns = `id, name, admin, members, group_pic, created_at`

func scanGroup(row rowScanner) (*domain.Group, error) {
	var (
		g       domain.Group
		members string
		created int64
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Admin, &members, &g.GroupPic, &created); err != nil {
		return nil, err
	}
	g.CreatedAt = fromMillis(created)
	if err := json.Unmarshal([]byte(members), &g.Members); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	return &g, nil
}

func (s *Store) FindGroup(ctx context.Context, id domain.GroupID) (*domain.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM chat_groups WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *Store) InsertGroup(ctx context.Context, g *domain.Group) error {
	members, err := toJSON(g.Members)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO chat_groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Admin, members, g.GroupPic, millis(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// ListGroupsForUser returns the groups uid belongs to, newest first.
func (s *Store) ListGroupsForUser(ctx context.Context, uid domain.UserID) ([]domain.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM chat_groups g
		WHERE EXISTS (SELECT 1 FROM json_each(g.members) WHERE json_each.value = ?)
		ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
