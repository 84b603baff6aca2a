package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"helpdesk/internal/repository"
)

// Services is every domain service wired to one store.
type Services struct {
	store repository.Store

	Notifications *NotificationService
	Tickets       *TicketService
	Comments      *CommentService
	Auth          *AuthService
	Users         *UserService
	Articles      *ArticleService
	Reports       *ReportService
}

func New(store repository.Store, sessionSecret string, sessionTTL time.Duration, log zerolog.Logger) *Services {
	s := &Services{store: store}
	s.Notifications = NewNotificationService(store, log.With().Str("component", "notifications").Logger())
	s.Articles = NewArticleService(store, log.With().Str("component", "articles").Logger())
	s.Tickets = NewTicketService(store, s.Notifications, s.Articles, log.With().Str("component", "tickets").Logger())
	s.Comments = NewCommentService(store, s.Notifications, log.With().Str("component", "comments").Logger())
	s.Auth = NewAuthService(store.Users(), sessionSecret, sessionTTL, log.With().Str("component", "auth").Logger())
	s.Users = NewUserService(store.Users(), log.With().Str("component", "users").Logger())
	s.Reports = NewReportService(store.Tickets(), log.With().Str("component", "reports").Logger())
	return s
}

func (s *Services) SeedDemo(ctx context.Context) error {
	return seedDemo(ctx, s.store, s.Users, s.Tickets, s.Articles)
}
