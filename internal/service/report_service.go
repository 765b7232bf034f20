package service

import (
	"context"
	"fmt"
	"strings"

	"epicfails/internal/mail"
	"epicfails/internal/middleware"
	"epicfails/internal/models"
	"epicfails/internal/observability"
	"epicfails/internal/repository"

	"github.com/google/uuid"
)

type ReportService struct {
	store      *repository.Store
	mailer     mail.Sender
	adminEmail string
}

type ReportPostInput struct {
	UserID  uuid.UUID
	PostID  uuid.UUID
	Reasons []string
}

func NewReportService(store *repository.Store, mailer mail.Sender, adminEmail string) *ReportService {
	return &ReportService{store: store, mailer: mailer, adminEmail: adminEmail}
}

// ReportPost records a moderation report and mails the admin. A user may file
// at most models.MaxReportsPerUser reports.
func (s *ReportService) ReportPost(ctx context.Context, in ReportPostInput) (*models.Report, error) {
	reasons := make([]string, 0, len(in.Reasons))
	for _, r := range in.Reasons {
		if r = strings.TrimSpace(r); r != "" {
			reasons = append(reasons, r)
		}
	}
	if len(reasons) == 0 {
		return nil, models.NewValidationError("NoReasons", "At least one reason is required")
	}

	user, err := s.store.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	filed, err := s.store.Reports.CountByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if filed >= models.MaxReportsPerUser {
		return nil, models.NewForbiddenError(models.ReasonReportLimit, "Report limit reached")
	}
	post, err := s.store.Posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{UserID: in.UserID, PostID: in.PostID, Reasons: reasons}
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		if err := tx.Reports.Create(ctx, report); err != nil {
			return err
		}
		return tx.Users.IncrementReportCount(ctx, in.UserID)
	})
	if err != nil {
		return nil, err
	}
	observability.ReportsFiled.Inc()

	s.notifyAdmin(ctx, user, post, report)
	return report, nil
}

func (s *ReportService) notifyAdmin(ctx context.Context, user *models.User, post *models.Post, report *models.Report) {
	if s.mailer == nil || s.adminEmail == "" {
		return
	}
	subject := fmt.Sprintf("Post reported: %s", post.Title)
	body := fmt.Sprintf("User %s (%s) reported post %q (%s).\n\nReasons:\n- %s\n",
		user.Username, user.ID, post.Title, post.ID, strings.Join(report.Reasons, "\n- "))

	if err := s.mailer.Send(ctx, s.adminEmail, subject, body); err != nil {
		observability.MailFailures.WithLabelValues("report").Inc()
		middleware.Logger.ErrorContext(ctx, "Failed to mail report to admin",
			"report_id", report.ID,
			"error", err,
		)
	}
}
