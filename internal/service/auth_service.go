package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"helpdesk/internal/access"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/utils"
)

type AuthService struct {
	users         repository.UserRepository
	sessionSecret string
	sessionTTL    time.Duration
	log           zerolog.Logger
}

func NewAuthService(users repository.UserRepository, sessionSecret string, sessionTTL time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, sessionSecret: sessionSecret, sessionTTL: sessionTTL, log: log}
}

// Profile is the signed-in user with the capability set the client gates its UI on.
type Profile struct {
	models.User
	Home         string           `json:"inicio"`
	Capabilities []access.Action  `json:"capacidades"`
	Navigation   []access.NavItem `json:"navegacao"`
}

// Login checks a login handle and password. Unknown logins, wrong passwords and
// deactivated accounts all fail the same way.
func (a *AuthService) Login(ctx context.Context, login, password string) (token string, user *models.User, err error) {
	u, hash, err := a.users.GetByLogin(ctx, login)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !u.Active {
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(hash, password) {
		a.log.Info().Str("user_id", u.ID).Msg("login rejected")
		return "", nil, ErrInvalidCredentials
	}
	tok, err := utils.SignJWT(a.sessionSecret, u.ID, u.Role.String(), a.sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (a *AuthService) Me(ctx context.Context, actor Actor) (*Profile, error) {
	u, err := a.users.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", actor.ID)
	}
	return &Profile{
		User:         *u,
		Home:         access.HomePath(u.Role),
		Capabilities: access.Capabilities(u.Role),
		Navigation:   access.Navigation(u.Role),
	}, nil
}
