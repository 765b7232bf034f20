package service

import (
	"context"
	"strings"

	"epicfails/internal/cache"
	"epicfails/internal/featureflags"
	"epicfails/internal/middleware"
	"epicfails/internal/models"
	"epicfails/internal/notifications"
	"epicfails/internal/observability"
	"epicfails/internal/repository"
	"epicfails/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen       = 300
	maxDescriptionLen = 5000
)

type PostService struct {
	store  *repository.Store
	cache  *cache.Cache
	flags  *featureflags.Manager
	events EventPublisher
}

type CreatePostInput struct {
	UserID           uuid.UUID
	Title            string
	Category         string
	Description      string
	ExpectedPhotoURL string
	ActualPhotoURL   string
}

type ListPostsInput struct {
	Category string
	Limit    int
	Offset   int
	ViewerID uuid.UUID
}

func NewPostService(
	store *repository.Store,
	c *cache.Cache,
	flags *featureflags.Manager,
	events EventPublisher,
) *PostService {
	return &PostService{
		store:  store,
		cache:  c,
		flags:  flags,
		events: events,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("MissingTitle", "Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("TitleTooLong", "Title too long (max 300 characters)")
	}
	if err := validation.ValidateTitle(title); err != nil {
		return nil, models.NewValidationError("BadTitle", err.Error())
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("DescriptionTooLong", "Description too long (max 5000 characters)")
	}
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, models.NewValidationError("BadCategory", "Unknown category")
	}
	if strings.TrimSpace(in.ActualPhotoURL) == "" {
		return nil, models.NewValidationError("MissingPhoto", "actual_photo_url is required")
	}
	for _, raw := range []string{in.ActualPhotoURL, in.ExpectedPhotoURL} {
		if raw == "" {
			continue
		}
		if err := validation.ValidatePhotoURL(raw); err != nil {
			return nil, models.NewValidationError("BadPhotoURL", err.Error())
		}
	}

	author, err := s.store.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:         in.UserID,
		Title:            title,
		Category:         category,
		Description:      in.Description,
		ExpectedPhotoURL: in.ExpectedPhotoURL,
		ActualPhotoURL:   in.ActualPhotoURL,
	}
	if err := s.store.Posts.Create(ctx, post); err != nil {
		return nil, err
	}

	summary := author.PublicSummary()
	view := &models.PostView{Post: *post, Author: &summary}
	publish(ctx, s.events, notifications.EventPostCreated, view)
	return view, nil
}

// GetPost returns the post with engagement counts and the viewer's relations.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uuid.UUID) (*models.PostView, error) {
	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	view, err := postView(ctx, s.store, viewerID, post)
	if err != nil {
		return nil, err
	}
	if author, err := s.store.Users.GetByID(ctx, post.AuthorID); err == nil {
		summary := author.PublicSummary()
		view.Author = &summary
	} else if !models.IsNotFound(err, "User") {
		return nil, err
	}
	return view, nil
}

// ListPosts returns posts newest first, optionally restricted to one category.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.PostView, error) {
	filter := repository.PostFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Category != "" {
		category, ok := models.ParseCategory(in.Category)
		if !ok {
			return nil, models.NewValidationError("BadCategory", "Unknown category")
		}
		filter.Category = category
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	posts, err := s.store.Posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	authors, err := s.store.Users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views, err := postViews(ctx, s.store, in.ViewerID, posts)
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		if author, ok := authors[view.AuthorID]; ok {
			summary := author.PublicSummary()
			view.Author = &summary
		}
	}
	return views, nil
}

type cascadeStep struct {
	name  string
	run   func(ctx context.Context, postID uuid.UUID) (int64, error)
	count *int64
}

// DeletePost removes a post and everything that depends on it. Dependents go
// first so an interrupted cascade can be retried by the author.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uuid.UUID) (report *models.CascadeReport, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.DeletePost",
		attribute.String("post.id", postID.String()),
	)
	defer func() { span.End(err) }()

	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError(models.ReasonNotAuthor, "You can only delete your own posts")
	}

	withReferences := s.flags.Enabled(featureflags.CascadeDuelReferences, userID.String())
	report = &models.CascadeReport{PostID: postID}

	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		steps := []cascadeStep{
			{name: "likes", run: tx.Likes.DeleteByPost, count: &report.Likes},
			{name: "bookmarks", run: tx.Bookmarks.DeleteByPost, count: &report.Bookmarks},
			{name: "comments", run: tx.Comments.DeleteByPost, count: &report.Comments},
			{name: "duels", run: tx.Duels.DeleteByWinner, count: &report.WonDuels},
		}
		if withReferences {
			steps = append(steps, cascadeStep{
				name: "duel_references", run: tx.Duels.DeleteByContender, count: &report.DuelReferences,
			})
		}

		for _, step := range steps {
			n, err := step.run(ctx, postID)
			if err != nil {
				observability.CascadeFailures.WithLabelValues(step.name).Inc()
				return models.NewStoreError("cascade:"+step.name, err)
			}
			*step.count = n
		}

		deleted, err := tx.Posts.Delete(ctx, postID)
		if err != nil {
			observability.CascadeFailures.WithLabelValues("post").Inc()
			return models.NewStoreError("cascade:post", err)
		}
		if deleted == 0 {
			return models.NewNotFoundError("Post", postID)
		}
		return nil
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Post cascade aborted", "post_id", postID, "error", err)
		return nil, err
	}

	observability.CascadeDeletedRecords.WithLabelValues("likes").Add(float64(report.Likes))
	observability.CascadeDeletedRecords.WithLabelValues("bookmarks").Add(float64(report.Bookmarks))
	observability.CascadeDeletedRecords.WithLabelValues("comments").Add(float64(report.Comments))
	observability.CascadeDeletedRecords.WithLabelValues("duels").Add(float64(report.WonDuels + report.DuelReferences))
	observability.CascadeDeletedRecords.WithLabelValues("posts").Inc()

	// A duel's category need not match its contenders', so any podium may hold the post.
	s.cache.Invalidate(ctx, cache.PodiumKeys()...)

	middleware.Logger.InfoContext(ctx, "Post cascade completed",
		"post_id", postID,
		"likes", report.Likes,
		"bookmarks", report.Bookmarks,
		"comments", report.Comments,
		"won_duels", report.WonDuels,
		"duel_references", report.DuelReferences,
	)
	publish(ctx, s.events, notifications.EventPostDeleted, report)
	return report, nil
}
