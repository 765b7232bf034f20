package service

import (
	"context"
	"errors"
	"strconv"

	"epicfails/internal/middleware"
	"epicfails/internal/models"
	"epicfails/internal/notifications"
	"epicfails/internal/observability"
	"epicfails/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type EngagementService struct {
	store  *repository.Store
	events EventPublisher
}

func NewEngagementService(store *repository.Store, events EventPublisher) *EngagementService {
	return &EngagementService{store: store, events: events}
}

// Toggle flips the user's relation of the given kind on a post and returns
// the resulting state with the post's relation count.
func (s *EngagementService) Toggle(ctx context.Context, kind models.RelationKind, userID, postID uuid.UUID) (result *models.ToggleResult, err error) {
	repo := s.store.Relations(kind)
	if repo == nil {
		return nil, models.NewValidationError("BadKind", "Unknown relation kind")
	}

	span, ctx := observability.NewSpan(ctx, "EngagementService.Toggle",
		attribute.String("relation.kind", string(kind)),
		attribute.String("post.id", postID.String()),
	)
	defer func() { span.End(err) }()

	if _, err = s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err = s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	prior, err := repo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	exists, err := repo.Exists(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	result = &models.ToggleResult{Kind: kind, PostID: postID}
	if !exists {
		result.Active = true
		err = repo.Insert(ctx, userID, postID)
		switch {
		case errors.Is(err, models.ErrDuplicateRelation):
			// Lost an insert race: the relation exists, report the live count.
			observability.RelationConflicts.WithLabelValues(string(kind)).Inc()
			middleware.Logger.WarnContext(ctx, "Recovered duplicate relation insert",
				"kind", kind,
				"post_id", postID,
			)
			if result.CountAfter, err = repo.CountByPost(ctx, postID); err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		default:
			result.CountAfter = prior + 1
		}
	} else {
		var removed bool
		if removed, err = repo.Remove(ctx, userID, postID); err != nil {
			return nil, err
		}
		if removed {
			result.CountAfter = prior - 1
		} else if result.CountAfter, err = repo.CountByPost(ctx, postID); err != nil {
			return nil, err
		}
	}

	observability.RelationToggles.WithLabelValues(string(kind), strconv.FormatBool(result.Active)).Inc()
	span.AddAttributes(attribute.Bool("relation.active", result.Active))
	publish(ctx, s.events, notifications.EventRelationToggled, result)
	return result, nil
}

// Engagement returns the post with its counts and, for a non-nil viewer,
// which relations the viewer holds on it.
func (s *EngagementService) Engagement(ctx context.Context, viewerID, postID uuid.UUID) (*models.PostView, error) {
	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return postView(ctx, s.store, viewerID, post)
}

func postView(ctx context.Context, store *repository.Store, viewerID uuid.UUID, post *models.Post) (*models.PostView, error) {
	v := &models.PostView{Post: *post}
	var err error

	if v.LikesCount, err = store.Likes.CountByPost(ctx, post.ID); err != nil {
		return nil, err
	}
	if v.BookmarkCount, err = store.Bookmarks.CountByPost(ctx, post.ID); err != nil {
		return nil, err
	}
	if v.CommentsCount, err = store.Comments.CountByPost(ctx, post.ID); err != nil {
		return nil, err
	}

	if viewerID != uuid.Nil {
		if v.Liked, err = store.Likes.Exists(ctx, viewerID, post.ID); err != nil {
			return nil, err
		}
		if v.Bookmarked, err = store.Bookmarks.Exists(ctx, viewerID, post.ID); err != nil {
			return nil, err
		}
		if v.Commented, err = store.Comments.ExistsForUser(ctx, viewerID, post.ID); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// postViews builds views for a page of posts with one grouped count per
// relation instead of one query per post.
func postViews(ctx context.Context, store *repository.Store, viewerID uuid.UUID, posts []*models.Post) ([]*models.PostView, error) {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	likes, err := store.Likes.CountByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	bookmarks, err := store.Bookmarks.CountByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := store.Comments.CountByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	var liked, bookmarked, commented map[uuid.UUID]bool
	if viewerID != uuid.Nil {
		if liked, err = store.Likes.ExistingForUser(ctx, viewerID, ids); err != nil {
			return nil, err
		}
		if bookmarked, err = store.Bookmarks.ExistingForUser(ctx, viewerID, ids); err != nil {
			return nil, err
		}
		if commented, err = store.Comments.ExistingForUser(ctx, viewerID, ids); err != nil {
			return nil, err
		}
	}

	views := make([]*models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, &models.PostView{
			Post:          *p,
			LikesCount:    likes[p.ID],
			BookmarkCount: bookmarks[p.ID],
			CommentsCount: comments[p.ID],
			Liked:         liked[p.ID],
			Bookmarked:    bookmarked[p.ID],
			Commented:     commented[p.ID],
		})
	}
	return views, nil
}
