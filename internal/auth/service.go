package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/adiwarna/identity-admin/internal"
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
	"github.com/adiwarna/identity-admin/internal/core/events"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetUserByEmail(email string) (*userDatamodel.User, error)
	GetUserByID(id int64) (*userDatamodel.User, error)
	PermissionsForUser(userID int64) ([]string, error)
	UpdateLastLogin(userID int64, at time.Time) error
	SetTOTP(userID int64, secret *string, enabled bool) error

	CreateEmailOTP(otp *userDatamodel.EmailOTP) error
	GetEmailOTP(challengeID string) (*userDatamodel.EmailOTP, error)
	ConsumeEmailOTP(id int64, at time.Time) error
}

// Mailer delivers one-time codes. The server ships with a log-only
// implementation; production deployments plug in a real sender.
type Mailer interface {
	SendOTP(email, code string) error
}

type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendOTP(email, code string) error {
	m.Logger.Info("email otp issued", "email", email, "code", code)
	return nil
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResult, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	PrincipalForUserID(userID int64) (*User, error)
	VerifyTOTP(dto VerifyTOTPDTO) (AuthTokens, error)
	RequestEmailOTP(dto RequestEmailOTPDTO) (*EmailOTPChallengeResponse, error)
	VerifyEmailOTP(dto VerifyEmailOTPDTO) (AuthTokens, error)
	EnrollTOTP(userID int64, issuer string) (*EnrollTOTPResponse, error)
	ActivateTOTP(userID int64, dto ActivateTOTPDTO) error
	DisableMFA(userID int64) error
}

type Service struct {
	repo        RepositoryAPI
	tokens      TokenGeneratorAPI
	mailer      Mailer
	totpIssuer  string
	emailOTPTTL time.Duration
	bus         *events.EventBus
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, mailer Mailer, totpIssuer string, emailOTPTTL time.Duration, bus *events.EventBus, logger *slog.Logger) *Service {
	if emailOTPTTL <= 0 {
		emailOTPTTL = 10 * time.Minute
	}
	return &Service{
		repo:        repo,
		tokens:      tokens,
		mailer:      mailer,
		totpIssuer:  totpIssuer,
		emailOTPTTL: emailOTPTTL,
		bus:         bus,
		logger:      logger,
	}
}

var _ ServiceAPI = (*Service)(nil)

// Authenticate checks the password and either issues tokens directly or, for
// MFA-enabled accounts, returns a challenge token the client must complete.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, internal.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected: bad password", "email", dto.Email)
		return nil, internal.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, internal.ErrUserInactive
	}

	userID := strconv.FormatInt(user.ID, 10)
	if user.MFAEnabled {
		mfaToken, err := s.tokens.GenerateMFAToken(userID, user.Email)
		if err != nil {
			return nil, err
		}
		s.logger.Info("login pending second factor", "user_id", user.ID)
		return &LoginResult{MFARequired: true, MFAToken: mfaToken}, nil
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.publishLoggedIn(user)
	return &LoginResult{Tokens: &tokens}, nil
}

func (s *Service) issueTokens(user *userDatamodel.User) (AuthTokens, error) {
	userID := strconv.FormatInt(user.ID, 10)

	accessToken, err := s.tokens.GenerateAccessToken(userID, user.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(userID, user.Email)
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.repo.UpdateLastLogin(user.ID, time.Now()); err != nil {
		s.logger.Warn("failed to record last login", "error", err, "user_id", user.ID)
	}

	s.logger.Info("user authenticated", "user_id", user.ID)
	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) publishLoggedIn(user *userDatamodel.User) {
	if s.bus == nil {
		return
	}
	event := events.NewUserLoggedInEvent(user.ID, user.Email)
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish login event", "error", err)
	}
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return AuthTokens{}, err
	}
	if user == nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !user.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(user)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// PrincipalForUserID loads the request principal: the user row plus the
// flattened permission union of their active functional roles.
func (s *Service) PrincipalForUserID(userID int64) (*User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, internal.ErrUserNotFound
	}

	permissions, err := s.repo.PermissionsForUser(userID)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Permissions: permissions,
	}, nil
}

func (s *Service) userForMFAToken(mfaToken string) (*userDatamodel.User, error) {
	claims, err := s.tokens.ValidateMFAToken(mfaToken)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, internal.ErrInvalidToken
	}
	return user, nil
}

func (s *Service) VerifyTOTP(dto VerifyTOTPDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.userForMFAToken(dto.MFAToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if !user.MFAEnabled || user.TOTPSecret == nil {
		return AuthTokens{}, internal.ErrInvalidOTP
	}

	if !ValidateTOTP(*user.TOTPSecret, dto.Code, time.Now()) {
		s.logger.Warn("totp verification failed", "user_id", user.ID)
		return AuthTokens{}, internal.ErrInvalidOTP
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return AuthTokens{}, err
	}
	s.publishLoggedIn(user)
	return tokens, nil
}

func (s *Service) RequestEmailOTP(dto RequestEmailOTPDTO) (*EmailOTPChallengeResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.userForMFAToken(dto.MFAToken)
	if err != nil {
		return nil, err
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate one-time code", err)
	}

	challengeID := uuid.New().String()
	otp := &userDatamodel.EmailOTP{
		UserID:      user.ID,
		ChallengeID: challengeID,
		CodeHash:    hashOTPCode(code),
		ExpiresAt:   time.Now().Add(s.emailOTPTTL),
	}
	if err := s.repo.CreateEmailOTP(otp); err != nil {
		return nil, err
	}

	if err := s.mailer.SendOTP(user.Email, code); err != nil {
		s.logger.Error("failed to send one-time code", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to send one-time code", err)
	}

	s.logger.Info("email otp challenge created", "user_id", user.ID, "challenge_id", challengeID)
	return &EmailOTPChallengeResponse{ChallengeID: challengeID}, nil
}

func (s *Service) VerifyEmailOTP(dto VerifyEmailOTPDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.userForMFAToken(dto.MFAToken)
	if err != nil {
		return AuthTokens{}, err
	}

	otp, err := s.repo.GetEmailOTP(dto.ChallengeID)
	if err != nil {
		return AuthTokens{}, err
	}
	if otp == nil || otp.UserID != user.ID {
		return AuthTokens{}, internal.ErrInvalidOTP
	}
	if otp.ConsumedAt != nil || time.Now().After(otp.ExpiresAt) {
		return AuthTokens{}, internal.ErrInvalidOTP
	}
	if hashOTPCode(dto.Code) != otp.CodeHash {
		s.logger.Warn("email otp verification failed", "user_id", user.ID, "challenge_id", dto.ChallengeID)
		return AuthTokens{}, internal.ErrInvalidOTP
	}

	if err := s.repo.ConsumeEmailOTP(otp.ID, time.Now()); err != nil {
		return AuthTokens{}, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return AuthTokens{}, err
	}
	s.publishLoggedIn(user)
	return tokens, nil
}

// EnrollTOTP provisions a new authenticator secret for the user. MFA stays
// off until ActivateTOTP proves the client can produce codes.
func (s *Service) EnrollTOTP(userID int64, issuer string) (*EnrollTOTPResponse, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, internal.ErrUserNotFound
	}

	secret, err := GenerateTOTPSecret()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate totp secret", err)
	}

	if issuer == "" {
		issuer = s.totpIssuer
	}
	if err := s.repo.SetTOTP(userID, &secret, false); err != nil {
		return nil, err
	}

	s.logger.Info("totp enrollment started", "user_id", userID)
	return &EnrollTOTPResponse{
		Secret:          secret,
		ProvisioningURL: TOTPProvisioningURL(issuer, user.Email, secret),
	}, nil
}

func (s *Service) ActivateTOTP(userID int64, dto ActivateTOTPDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return internal.ErrUserNotFound
	}
	if user.TOTPSecret == nil {
		return internal.NewValidationError("totp enrollment has not been started", internal.ErrCodeValidationFailed)
	}

	if !ValidateTOTP(*user.TOTPSecret, dto.Code, time.Now()) {
		return internal.ErrInvalidOTP
	}

	if err := s.repo.SetTOTP(userID, user.TOTPSecret, true); err != nil {
		return err
	}

	s.logger.Info("mfa enabled", "user_id", userID)
	return nil
}

func (s *Service) DisableMFA(userID int64) error {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.SetTOTP(userID, nil, false); err != nil {
		return err
	}

	s.logger.Info("mfa disabled", "user_id", userID)
	return nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashOTPCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
