package service

import (
	"context"
	"strings"

	"epicfails/internal/models"
	"epicfails/internal/notifications"
	"epicfails/internal/repository"

	"github.com/google/uuid"
)

type CommentService struct {
	store  *repository.Store
	events EventPublisher
}

type AddCommentInput struct {
	UserID uuid.UUID
	PostID uuid.UUID
	Text   string
}

type DeleteCommentInput struct {
	UserID    uuid.UUID
	CommentID uuid.UUID
}

func NewCommentService(store *repository.Store, events EventPublisher) *CommentService {
	return &CommentService{store: store, events: events}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.CommentView, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("EmptyText", "Comment text is required")
	}
	if len(in.Text) > models.MaxCommentLength {
		return nil, models.NewValidationError("TextTooLong", "Comment too long (max 10000 characters)")
	}

	user, err := s.store.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Posts.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID: in.UserID,
		PostID: in.PostID,
		Text:   in.Text,
	}
	if err := s.store.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	summary := user.PublicSummary()
	view := &models.CommentView{Comment: *comment, Author: &summary}
	publish(ctx, s.events, notifications.EventCommentAdded, view)
	return view, nil
}

// DeleteComment removes a comment; only its author may do so.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.store.Comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.UserID != in.UserID {
		return models.NewForbiddenError(models.ReasonNotAuthor, "You can only delete your own comments")
	}

	if err := s.store.Comments.Delete(ctx, in.CommentID); err != nil {
		return err
	}

	publish(ctx, s.events, notifications.EventCommentDeleted, map[string]uuid.UUID{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
	})
	return nil
}

// ListComments returns the post's comments newest first with their authors.
func (s *CommentService) ListComments(ctx context.Context, postID uuid.UUID) ([]*models.CommentView, error) {
	if _, err := s.store.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := s.store.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*models.CommentView, 0, len(comments))
	for _, c := range comments {
		view := &models.CommentView{Comment: *c}
		if author, ok := authors[c.UserID]; ok {
			summary := author.PublicSummary()
			view.Author = &summary
		}
		views = append(views, view)
	}
	return views, nil
}
