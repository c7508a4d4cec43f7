package ratings

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alexandria-archive/backend/internal/models"
)

// Ledger tracks each user's single outstanding vote per post and keeps the
// post's aggregate rating equal to the sum of current votes.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Delta is the net change to a post's rating when a user's vote moves from
// prev to next. Re-casting the same direction nets zero.
func Delta(prev, next models.Direction) int {
	return next.Score() - prev.Score()
}

// Apply records dir as the user's current vote on the post and adjusts the
// post's rating by the net delta. The ledger upsert and the score update
// run in one transaction; the score update is an SQL expression so
// concurrent votes on the same post merge instead of clobbering.
func (l *Ledger) Apply(ctx context.Context, userID string, postID int64, dir models.Direction) (*models.Post, error) {
	if !dir.Valid() {
		return nil, ErrInvalidDirection
	}

	var post models.Post
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the post row first. All votes on a post serialize on this
		// lock, so a reentrant vote by the same user can't read a stale
		// ledger entry and double-apply its delta.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		old := models.DirectionNone
		var existing models.RatedPost
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case err == nil:
			old = existing.Rating
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		entry := models.RatedPost{UserID: userID, PostID: postID, Rating: dir}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).Create(&entry).Error; err != nil {
			return err
		}

		if delta := Delta(old, dir); delta != 0 {
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("rating", gorm.Expr("rating + ?", delta)).Error; err != nil {
				return err
			}
			post.Rating += delta
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}
