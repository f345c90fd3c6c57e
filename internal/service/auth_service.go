package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/config"
	"auctionhub/api/internal/mail"
	"auctionhub/api/internal/models"
	"auctionhub/api/internal/security"
)

// UserStore is the persistence surface auth needs.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	Statuses(ctx context.Context, userID string) ([]models.UserStatus, error)
	AddStatus(ctx context.Context, userID string, status models.UserStatus) error
	DeleteStatus(ctx context.Context, userID string, status models.UserStatus) error
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	mailer mail.Sender
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAuthService(users UserStore, tokens *TokenService, mailer mail.Sender, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
	}
}

var (
	idPattern       = regexp.MustCompile(`^[a-zA-Z0-9]{4,15}$`)
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*_\-]{8,20}$`)
	nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{1,45}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type RegisterInput struct {
	ID       string
	Password string
	Email    string
	Nickname string
}

var ErrInvalidInput = errors.New("invalid input")

func (in RegisterInput) validate() error {
	switch {
	case !idPattern.MatchString(in.ID):
		return errors.Join(ErrInvalidInput, errors.New("id must be 4-15 alphanumeric characters"))
	case !passwordPattern.MatchString(in.Password):
		return errors.Join(ErrInvalidInput, errors.New("password must be 8-20 characters"))
	case !emailPattern.MatchString(in.Email):
		return errors.Join(ErrInvalidInput, errors.New("email is malformed"))
	case !nicknamePattern.MatchString(in.Nickname):
		return errors.Join(ErrInvalidInput, errors.New("nickname must be 1-45 alphanumeric characters"))
	}
	return nil
}

// Register creates the user, marks them email-unverified, issues a
// verification code and mails it. The mail itself is fire-and-forget.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if err := input.validate(); err != nil {
		return err
	}

	if err := s.CheckIDAvailable(ctx, input.ID); err != nil {
		return err
	}
	if err := s.CheckEmailAvailable(ctx, input.Email); err != nil {
		return err
	}
	if err := s.CheckNicknameAvailable(ctx, input.Nickname); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return err
	}

	user := models.User{
		ID:           input.ID,
		PasswordHash: passwordHash,
		Email:        input.Email,
		Nickname:     input.Nickname,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	if err := s.users.AddStatus(ctx, user.ID, models.UserStatusEmailVerifyRequired); err != nil {
		return err
	}

	code, err := s.tokens.IssueEmailVerificationToken(ctx, user.ID)
	if err != nil {
		return err
	}

	s.mailer.Send(
		user.Email,
		"Auction account verification",
		s.tokens.VerificationMailBody(s.cfg.Mail.VerifyLinkBase, code),
	)

	return nil
}

// VerifyEmail consumes the emailed code and lifts the login block.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) error {
	userID, err := s.tokens.ConsumeEmailVerificationToken(ctx, code)
	if err != nil {
		return err
	}
	if err := s.users.DeleteStatus(ctx, userID, models.UserStatusEmailVerifyRequired); err != nil {
		if !errors.Is(err, apperrors.ErrNoRowsAffected) {
			return err
		}
	}
	return nil
}

type LoginResult struct {
	UserID       string
	Nickname     string
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Login(ctx context.Context, id, password string) (LoginResult, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, apperrors.ErrUserNotFound
	}

	statuses, err := s.users.Statuses(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	for _, status := range statuses {
		if _, blocking := models.BlockingStatuses[status]; blocking {
			return LoginResult{}, apperrors.ErrEmailVerifyRequired
		}
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	refreshToken, _, err := s.tokens.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		UserID:       user.ID,
		Nickname:     user.Nickname,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh cookie for a new access token. The
// refresh token itself is not rotated here; a fresh login supersedes it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.ErrRefreshTokenRequired
	}

	userID, _, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	return s.tokens.IssueAccessToken(userID)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeRefreshTokens(ctx, userID)
}

func (s *AuthService) CheckIDAvailable(ctx context.Context, id string) error {
	taken, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrDuplicateID
	}
	return nil
}

func (s *AuthService) CheckEmailAvailable(ctx context.Context, email string) error {
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrDuplicateEmail
	}
	return nil
}

func (s *AuthService) CheckNicknameAvailable(ctx context.Context, nickname string) error {
	taken, err := s.users.ExistsByNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrDuplicateNickname
	}
	return nil
}
