package repository

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type duelRepository struct {
	db *gorm.DB
}

// NewDuelRepository returns a new DuelRepository implementation.
func NewDuelRepository(db *gorm.DB) DuelRepository {
	return &duelRepository{db: db}
}

func (r *duelRepository) Create(ctx context.Context, duel *models.Duel) error {
	defer observability.TrackQuery("create", "duels")()

	models.Stamp(&duel.ID, &duel.CreatedAt)
	if err := r.db.WithContext(ctx).Create(duel).Error; err != nil {
		return models.NewStoreError("duels.create", err)
	}
	return nil
}

func (r *duelRepository) CountWinsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count_wins", "duels")()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.Duel{}).
		Joins("JOIN posts ON posts.id = duels.winner_post_id").
		Where("posts.author_id = ?", authorID).
		Count(&n).Error
	if err != nil {
		return 0, models.NewStoreError("duels.count_wins", err)
	}
	return n, nil
}

// WinTallies loads the category's (winner, date) pairs and folds them in
// memory so the earliest-win timestamp keeps its column type on every driver.
func (r *duelRepository) WinTallies(ctx context.Context, category models.Category) ([]models.WinTally, error) {
	defer observability.TrackQuery("tally", "duels")()

	var duels []models.Duel
	if err := r.db.WithContext(ctx).Select("winner_post_id", "created_at").
		Where("category = ?", category).Find(&duels).Error; err != nil {
		return nil, models.NewStoreError("duels.tally", err)
	}
	return tallyWins(duels), nil
}

func tallyWins(duels []models.Duel) []models.WinTally {
	index := make(map[uuid.UUID]int, len(duels))
	var tallies []models.WinTally
	for _, d := range duels {
		i, ok := index[d.WinnerPostID]
		if !ok {
			index[d.WinnerPostID] = len(tallies)
			tallies = append(tallies, models.WinTally{PostID: d.WinnerPostID, Wins: 1, FirstWonAt: d.CreatedAt})
			continue
		}
		tallies[i].Wins++
		if d.CreatedAt.Before(tallies[i].FirstWonAt) {
			tallies[i].FirstWonAt = d.CreatedAt
		}
	}
	return tallies
}

func (r *duelRepository) DeleteByWinner(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_winner", "duels")()

	res := r.db.WithContext(ctx).Where("winner_post_id = ?", postID).Delete(&models.Duel{})
	if res.Error != nil {
		return 0, models.NewStoreError("duels.delete_by_winner", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *duelRepository) DeleteByContender(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_contender", "duels")()

	res := r.db.WithContext(ctx).Where("post1_id = ? OR post2_id = ?", postID, postID).Delete(&models.Duel{})
	if res.Error != nil {
		return 0, models.NewStoreError("duels.delete_by_contender", res.Error)
	}
	return res.RowsAffected, nil
}
