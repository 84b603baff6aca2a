package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"helpdesk/internal/access"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/utils"
)

const minPasswordLen = 6

type UserService struct {
	users repository.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(users repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log, now: time.Now}
}

type NewUser struct {
	Name     string
	Login    string
	Password string
	Role     models.Role
}

// UserPatch is a partial update; nil fields are left alone.
type UserPatch struct {
	Name   *string
	Role   *models.Role
	Active *bool
}

func (s *UserService) Create(ctx context.Context, actor Actor, in NewUser) (*models.User, error) {
	if err := actor.require(access.UserManage); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in NewUser) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	login := strings.TrimSpace(in.Login)
	if name == "" || login == "" {
		return nil, invalid("name and login are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, invalid("password must have at least %d characters", minPasswordLen)
	}
	role := in.Role
	if !role.Valid() {
		role = models.RoleCollaborator
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Login:     login,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u, hash); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: login %q is already taken", ErrConflict, login)
		}
		return nil, err
	}
	s.log.Info().Str("user_id", u.ID).Str("role", role.String()).Msg("user created")
	return u, nil
}

func (s *UserService) Get(ctx context.Context, actor Actor, id string) (*models.User, error) {
	if actor.ID != id {
		if err := actor.require(access.UserManage); err != nil {
			return nil, err
		}
	}
	return s.get(ctx, id)
}

func (s *UserService) get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", id)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, actor Actor, f repository.UserFilter) ([]models.User, int, error) {
	if err := actor.require(access.UserManage); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, f)
}

func (s *UserService) Update(ctx context.Context, actor Actor, id string, p UserPatch) (*models.User, error) {
	if err := actor.require(access.UserManage); err != nil {
		return nil, err
	}
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if n == "" {
			return nil, invalid("name cannot be empty")
		}
		u.Name = n
	}
	if p.Role != nil {
		if !p.Role.Valid() {
			return nil, invalid("unknown role")
		}
		u.Role = *p.Role
	}
	if p.Active != nil {
		if !*p.Active && id == actor.ID {
			return nil, invalid("administrators cannot deactivate themselves")
		}
		u.Active = *p.Active
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Deactivate keeps the account and its history but blocks further logins.
func (s *UserService) Deactivate(ctx context.Context, actor Actor, id string) (*models.User, error) {
	inactive := false
	return s.Update(ctx, actor, id, UserPatch{Active: &inactive})
}

func (s *UserService) ResetPassword(ctx context.Context, actor Actor, id, password string) error {
	if actor.ID != id {
		if err := actor.require(access.UserManage); err != nil {
			return err
		}
	}
	if len(password) < minPasswordLen {
		return invalid("password must have at least %d characters", minPasswordLen)
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, id, hash)
}

// Seed creates the given accounts, skipping logins that already exist.
func (s *UserService) Seed(ctx context.Context, users []NewUser) ([]models.User, error) {
	var out []models.User
	for _, in := range users {
		existing, _, err := s.users.GetByLogin(ctx, in.Login)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			out = append(out, *existing)
			continue
		}
		u, err := s.create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("seeding %s: %w", in.Login, err)
		}
		out = append(out, *u)
	}
	return out, nil
}
