package models

import "time"

// Direction is a user's vote on a post. "none" is a real value: it cancels
// a previous up/down without casting the opposite one.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = "none"
)

// Score is the signed unit this direction contributes to a post's rating.
func (d Direction) Score() int {
	switch d {
	case DirectionUp:
		return 1
	case DirectionDown:
		return -1
	default:
		return 0
	}
}

func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionNone:
		return true
	}
	return false
}

// RatedPost is a user's current vote on a single post. The composite
// primary key guarantees at most one row per (user, post).
type RatedPost struct {
	UserID    string    `gorm:"primaryKey;size:100" json:"-"`
	PostID    int64     `gorm:"primaryKey;autoIncrement:false" json:"post"`
	Rating    Direction `gorm:"size:8;not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RatedPost) TableName() string {
	return "rated_posts"
}
