package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/tour-booking/internal/domain/models"
	"github.com/linemk/tour-booking/internal/session"
	"github.com/linemk/tour-booking/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, sess *session.Session, username, password string) error
	Logout(ctx context.Context, sess *session.Session) error
}

type authService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	sessions session.Store
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, sessions session.Store) AuthService {
	return &authService{
		log:      log,
		userRepo: userRepo,
		sessions: sessions,
	}
}

// Register создаёт пользователя с bcrypt-хэшем пароля (хэш с солью, в отличие от
// исходного хранения в открытом виде). Предварительной проверки дубликата нет:
// занятое имя всплывает как нарушение уникальности из БД.
func (a *authService) Register(ctx context.Context, username, password string) error {
	const op = "service.AuthService.Register"
	logger := a.log.With(slog.String("op", op), slog.String("username", username))

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	newUser := &models.User{
		Username: username,
		PassHash: passHash,
	}
	if _, err := a.userRepo.CreateUser(ctx, newUser); err != nil {
		logger.Error("failed to create user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered")
	return nil
}

// Login сверяет пароль и привязывает пользователя к текущей сессии.
// Несовпадение пароля и отсутствие пользователя неразличимы для клиента.
func (a *authService) Login(ctx context.Context, sess *session.Session, username, password string) error {
	const op = "service.AuthService.Login"
	logger := a.log.With(slog.String("op", op), slog.String("username", username))

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return ErrInvalidCredentials
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return ErrInvalidCredentials
	}

	sess.UserID = user.ID
	sess.Admin = user.Admin
	if err := a.sessions.Save(ctx, sess); err != nil {
		logger.Error("failed to save session", slog.Any("error", err))
		return fmt.Errorf("%s: failed to save session: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return nil
}

// Logout снимает аутентификацию с сессии, корзина при этом сохраняется.
func (a *authService) Logout(ctx context.Context, sess *session.Session) error {
	const op = "service.AuthService.Logout"

	sess.ClearIdentity()
	if err := a.sessions.Save(ctx, sess); err != nil {
		a.log.Error("failed to save session", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to save session: %w", op, err)
	}
	return nil
}
