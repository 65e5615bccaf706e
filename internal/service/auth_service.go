package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/events"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/jwt"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/mail"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/repository"
)

const tokenTTL = time.Hour * 24 * 30

type RegisterUserDTO struct {
	LoginID  string
	Nickname string
	Email    string
	Password string
	Birthday *time.Time
}

type AuthService interface {
	RegisterUser(ctx context.Context, dto RegisterUserDTO) (*model.User, error)
	LoginUser(ctx context.Context, loginID, password string) (*model.AuthToken, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	LogoutUser(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	publisher events.EventPublisher
	mailer    mail.Mailer
	appURL    string
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, publisher events.EventPublisher, mailer mail.Mailer, appURL string) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		publisher: publisher,
		mailer:    mailer,
		appURL:    appURL,
	}
}

func (s *authService) RegisterUser(ctx context.Context, dto RegisterUserDTO) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)

	if err != nil {
		return nil, err
	}

	user := &model.User{
		LoginID:      dto.LoginID,
		Nickname:     dto.Nickname,
		Email:        dto.Email,
		Birthday:     dto.Birthday,
		PasswordHash: string(hashedPassword),
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	user.ID = newID

	go s.publisher.PublishUserRegistered(user.ID, user.Nickname)

	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, loginID, password string) (*model.AuthToken, error) {
	user, err := s.userRepo.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	token := &model.AuthToken{
		UserID:    user.ID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(tokenTTL),
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// Authenticate resolves an opaque bearer token to its owning user. Any
// miss, including an expired token, is reported as ErrUnauthenticated so
// callers cannot tell which case occurred. Logs never carry the full
// credential.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	stored, err := s.tokenRepo.FindValid(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "rejected bearer token", slog.String("token_prefix", tokenPrefix(token)))
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) LogoutUser(ctx context.Context, token string) error {
	return s.tokenRepo.Delete(ctx, token)
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No account enumeration: an unknown email is not an error.
			return nil
		}
		return err
	}

	resetToken, err := jwt.GeneratePasswordResetToken(user.ID)
	if err != nil {
		return err
	}

	resetLink := s.appURL + "/password/reset?token=" + resetToken

	return s.mailer.SendPasswordReset(user.Email, user.Nickname, user.LoginID, resetLink)
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	userID, err := jwt.ValidatePasswordResetToken(resetToken)
	if err != nil {
		return ErrResetTokenInvalid
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return err
	}

	// Revoke every live token so stolen sessions die with the old password.
	return s.tokenRepo.DeleteByUserID(ctx, userID)
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
