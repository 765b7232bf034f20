package service

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"
	"epicfails/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type StatsService struct {
	store *repository.Store
}

func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

type counter struct {
	dst   *int64
	count func(ctx context.Context, id uuid.UUID) (int64, error)
}

// ComputeStats scores a user's own activity and the community's activity on
// their posts. Results are always computed from the store, never cached.
func (s *StatsService) ComputeStats(ctx context.Context, userID uuid.UUID) (stats *models.Stats, err error) {
	span, ctx := observability.NewSpan(ctx, "StatsService.ComputeStats",
		attribute.String("user.id", userID.String()),
	)
	defer func() { span.End(err) }()

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var self models.SelfActivity
	var community models.CommunityActivity
	counters := []counter{
		{&self.NbPosts, s.store.Posts.CountByAuthor},
		{&self.NbLikes, s.store.Likes.CountByUser},
		{&self.NbBookmarks, s.store.Bookmarks.CountByUser},
		{&self.NbComments, s.store.Comments.CountByUser},
		{&community.NbLikes, s.store.Likes.CountOnAuthorPosts},
		{&community.NbBookmarks, s.store.Bookmarks.CountOnAuthorPosts},
		{&community.NbComments, s.store.Comments.CountOnAuthorPosts},
		{&community.NbWonDuels, s.store.Duels.CountWinsByAuthor},
	}
	for _, c := range counters {
		if *c.dst, err = c.count(ctx, userID); err != nil {
			return nil, err
		}
	}

	points := models.Score(self, community)
	span.AddAttributes(attribute.Int64("points.total", points.Total))

	return &models.Stats{
		User:          user.Summary(),
		FromUser:      self,
		FromCommunity: community,
		Points:        points,
	}, nil
}
