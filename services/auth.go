package services

import (
	"context"
	"edhub/logger"
	"edhub/models"
	"edhub/repository"
	"edhub/utils"
	stderrors "errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // student or instructor
	Avatar   string
	Bio      string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repository.UserRepo
	mailer    utils.Mailer
	saltRound int
}

func NewAuthService(db *gorm.DB, log *logger.Logger, users repository.UserRepo, mailer utils.Mailer, saltRound int) AuthService {
	if saltRound < bcrypt.MinCost {
		saltRound = bcrypt.DefaultCost
	}
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		users:     users,
		mailer:    mailer,
		saltRound: saltRound,
	}
}

// Register creates a learner or instructor account. Admins are never self-registered.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, nil, email); err == nil {
		return nil, ErrEmailTaken
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.saltRound)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role != models.RoleInstructor {
		role = models.RoleStudent
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hash),
		Role:     role,
		Avatar:   in.Avatar,
		Bio:      in.Bio,
	}
	if err := s.users.Create(ctx, nil, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info("User registered", "userId", user.ID, "role", user.Role)

	subject, body := utils.WelcomeEmail(user.Name)
	if err := s.mailer.Send(ctx, user.Email, user.Name, subject, body); err != nil {
		s.log.Warn("Welcome email failed", "userId", user.ID, "error", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, nil, normalizeEmail(email))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
