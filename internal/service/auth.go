// Package service implements the authentication business logic,
// delegating persistence to a UserRepository.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkoval/authkit/cookie"
	"github.com/dkoval/authkit/internal/repository"
	"github.com/dkoval/authkit/models"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// FindByUsername returns the user record, or nil when absent.
	FindByUsername(ctx context.Context, username string) (*repository.UserRecord, error)
	// CreateUser inserts a new user row.
	CreateUser(ctx context.Context, rec repository.UserRecord) error
	// RecordFailedAttempt increments and returns the failure counter.
	RecordFailedAttempt(ctx context.Context, username string) (int, error)
	// LockUser sets the lockout expiry, unix seconds.
	LockUser(ctx context.Context, username string, until int64) error
	// ResetFailedAttempts clears the failure counter and lockout.
	ResetFailedAttempts(ctx context.Context, username string) error
	// Reactivate moves a deactivated account back to active.
	Reactivate(ctx context.Context, username string) error
	// Roles returns the user's role names.
	Roles(ctx context.Context, userID string) ([]string, error)
	// Privileges returns the user's capability tree.
	Privileges(ctx context.Context, userID string) ([]models.Privilege, error)
}

const (
	// maxFailedAttempts locks the account when reached.
	maxFailedAttempts = 5
	// lockoutDuration is how long a lockout lasts.
	lockoutDuration = 30 * time.Minute
	// passwordMaxAgeDays expires passwords older than this.
	passwordMaxAgeDays = 90
)

// Authenticator implements password and passcode authentication against
// a UserRepository, issuing signed session tokens on success.
type Authenticator struct {
	repo     UserRepository
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewAuthenticator constructs an Authenticator. secret signs issued
// tokens; tokenTTL bounds their validity.
func NewAuthenticator(repo UserRepository, secret []byte, tokenTTL time.Duration, log *zap.Logger) *Authenticator {
	return &Authenticator{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
		now:      time.Now,
	}
}

// Privileges returns the capability tree of the user.
func (a *Authenticator) Privileges(ctx context.Context, userID string) ([]models.Privilege, error) {
	return a.repo.Privileges(ctx, userID)
}

// Authenticate checks the submission and returns the outcome. Business
// failures (wrong password, locked account, ...) are reported through
// the result status; the error return is reserved for repository and
// infrastructure failures.
func (a *Authenticator) Authenticate(ctx context.Context, user models.AuthInfo) (models.AuthResult, error) {
	rec, err := a.repo.FindByUsername(ctx, user.Username)
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("find user: %w", err)
	}
	if rec == nil {
		return models.AuthResult{Status: models.StatusFail}, nil
	}

	now := a.now()

	switch rec.Status {
	case repository.StateSuspended:
		return models.AuthResult{Status: models.StatusSuspended}, nil
	case repository.StateDisabled:
		return models.AuthResult{Status: models.StatusDisabled}, nil
	}

	if rec.LockedUntil.Valid && rec.LockedUntil.Int64 > now.Unix() {
		return models.AuthResult{Status: models.StatusLocked}, nil
	}
	if rec.FailedAttempts >= maxFailedAttempts {
		return models.AuthResult{Status: models.StatusLocked}, nil
	}

	if !withinAccessWindow(rec, now) {
		return models.AuthResult{Status: models.StatusAccessTimeLocked}, nil
	}

	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(user.Password)); err != nil {
		return a.recordFailure(ctx, rec, now)
	}

	changedAt := time.Unix(rec.PasswordChangedAt, 0)
	if age := cookie.DayDiff(&changedAt, &now); age != nil && *age >= passwordMaxAgeDays {
		return models.AuthResult{Status: models.StatusPasswordExpired}, nil
	}

	// Second factor, when the account has one enrolled.
	if rec.TOTPSecret.Valid && rec.TOTPSecret.String != "" {
		if user.Step == 0 {
			return models.AuthResult{Status: models.StatusTwoFactorRequired}, nil
		}
		if !totp.Validate(user.Passcode, rec.TOTPSecret.String) {
			return a.recordFailure(ctx, rec, now)
		}
	}

	if err := a.repo.ResetFailedAttempts(ctx, rec.Username); err != nil {
		return models.AuthResult{}, fmt.Errorf("reset failed attempts: %w", err)
	}

	status := models.StatusSuccess
	if rec.Status == repository.StateDeactivated {
		if err := a.repo.Reactivate(ctx, rec.Username); err != nil {
			return models.AuthResult{}, fmt.Errorf("reactivate user: %w", err)
		}
		status = models.StatusSuccessAndReactivated
		a.log.Info("reactivated dormant account", zap.String("username", rec.Username))
	}

	account, err := a.buildAccount(ctx, rec, now)
	if err != nil {
		return models.AuthResult{}, err
	}
	return models.AuthResult{Status: status, User: account}, nil
}

// recordFailure counts a failed attempt and reports WrongPassword, or
// Locked when the attempt crossed the threshold.
func (a *Authenticator) recordFailure(ctx context.Context, rec *repository.UserRecord, now time.Time) (models.AuthResult, error) {
	count, err := a.repo.RecordFailedAttempt(ctx, rec.Username)
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("record failed attempt: %w", err)
	}
	if count >= maxFailedAttempts {
		until := now.Add(lockoutDuration).Unix()
		if err := a.repo.LockUser(ctx, rec.Username, until); err != nil {
			return models.AuthResult{}, fmt.Errorf("lock user: %w", err)
		}
		a.log.Warn("account locked after repeated failures",
			zap.String("username", rec.Username), zap.Int("attempts", count))
		return models.AuthResult{Status: models.StatusLocked}, nil
	}
	return models.AuthResult{Status: models.StatusWrongPassword}, nil
}

// withinAccessWindow reports whether now falls inside the account's
// allowed login window. An account without a window is unrestricted.
func withinAccessWindow(rec *repository.UserRecord, now time.Time) bool {
	if !rec.AccessStartMinute.Valid || !rec.AccessEndMinute.Valid {
		return true
	}
	minute := int64(now.Hour()*60 + now.Minute())
	start, end := rec.AccessStartMinute.Int64, rec.AccessEndMinute.Int64
	if start <= end {
		return minute >= start && minute < end
	}
	// Window crossing midnight.
	return minute >= start || minute < end
}

// buildAccount assembles the profile handed back on success, including
// a freshly signed session token.
func (a *Authenticator) buildAccount(ctx context.Context, rec *repository.UserRecord, now time.Time) (*models.Account, error) {
	tokenExpiry := now.Add(a.tokenTTL)
	token, err := a.signToken(rec, tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	roles, err := a.repo.Roles(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	privileges, err := a.repo.Privileges(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load privileges: %w", err)
	}

	passwordExpiry := time.Unix(rec.PasswordChangedAt, 0).AddDate(0, 0, passwordMaxAgeDays)
	return &models.Account{
		UserID:              rec.ID,
		Username:            rec.Username,
		Contact:             rec.Contact.String,
		DisplayName:         rec.DisplayName.String,
		PasswordExpiredTime: models.NewFlexTime(passwordExpiry),
		Token:               token,
		TokenExpiredTime:    models.NewFlexTime(tokenExpiry),
		Roles:               roles,
		Privileges:          privileges,
		Language:            rec.Language.String,
		DateFormat:          rec.DateFormat.String,
		TimeFormat:          rec.TimeFormat.String,
		Gender:              models.Gender(rec.Gender.String),
		ImageURL:            rec.ImageURL.String,
	}, nil
}

// Claims are the registered claims plus the authenticated username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

func (a *Authenticator) signToken(rec *repository.UserRecord, expiry time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.ID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		Username: rec.Username,
	})
	return token.SignedString(a.secret)
}

// CreateUser provisions a user: a random id, a bcrypt password hash,
// and optionally a fresh TOTP secret for the second factor. It returns
// the otpauth provisioning URL when TOTP was enabled, otherwise an
// empty string.
func (a *Authenticator) CreateUser(ctx context.Context, username, password string, enableTOTP bool) (string, error) {
	existing, err := a.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return "", fmt.Errorf("user %q already exists", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	rec := repository.UserRecord{
		ID:                uuid.NewString(),
		Username:          username,
		PasswordHash:      hash,
		Status:            repository.StateActive,
		PasswordChangedAt: a.now().Unix(),
	}

	var provisioningURL string
	if enableTOTP {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      "authkit",
			AccountName: username,
		})
		if err != nil {
			return "", fmt.Errorf("generate totp secret: %w", err)
		}
		rec.TOTPSecret.String = key.Secret()
		rec.TOTPSecret.Valid = true
		provisioningURL = key.URL()
	}

	if err := a.repo.CreateUser(ctx, rec); err != nil {
		return "", err
	}
	return provisioningURL, nil
}
