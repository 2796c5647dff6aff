package domain

import (
	"time"

	"github.com/samber/lo"
)

type GroupID string

type Group struct {
	ID        GroupID   `json:"_id"`
	Name      string    `json:"name"`
	Admin     UserID    `json:"admin"`
	Members   []UserID  `json:"members"`
	GroupPic  string    `json:"groupPic"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g *Group) HasMember(uid UserID) bool {
	return lo.Contains(g.Members, uid)
}
