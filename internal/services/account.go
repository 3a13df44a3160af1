package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/auth"
	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
	"github.com/Ananth-NQI/fleetiva-backend/internal/utils"
)

const minPasswordLength = 8

// DefaultOTPTTL is how long a password reset code stays valid.
const DefaultOTPTTL = 10 * time.Minute

// AccountService handles registration, login and password recovery.
type AccountService struct {
	store   storage.Store
	tokens  *auth.TokenService
	caps    Capabilities
	otpTTL  time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewAccountService(store storage.Store, tokens *auth.TokenService, caps Capabilities, otpTTL time.Duration, m *metrics.Metrics, logger *zap.Logger) *AccountService {
	if otpTTL <= 0 {
		otpTTL = DefaultOTPTTL
	}
	return &AccountService{
		store:   store,
		tokens:  tokens,
		caps:    caps,
		otpTTL:  otpTTL,
		metrics: m,
		logger:  logger.Named("account"),
	}
}

// RequestMeta identifies where an authentication attempt came from.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuthResult is a signed-in user and their access token.
type AuthResult struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// RegisterInput is a local sign-up.
type RegisterInput struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	Role        string
	CompanyName string
}

func checkSignupRole(role string) error {
	switch role {
	case models.RoleCustomer, models.RoleDriver, models.RoleAdmin:
		return nil
	}
	return Invalid("Invalid role.")
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, Invalid("Name, email, phone, and password are required.")
	}
	if len(in.Password) < minPasswordLength {
		return nil, Invalid("Password must be at least 8 characters.")
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if err := checkSignupRole(in.Role); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		CompanyName:  strings.TrimSpace(in.CompanyName),
		AuthProvider: models.ProviderLocal,
		IsVerified:   true,
	}
	user.Normalize()

	if _, err := s.store.GetUserByEmail(ctx, user.Email); err == nil {
		return nil, Conflict("Email already registered.")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, Conflict("Email already registered.")
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return s.signIn(user)
}

func (s *AccountService) Login(ctx context.Context, email, password string, meta RequestMeta) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.recordLogin(ctx, meta, nil, email, models.ProviderLocal, models.LoginReasonMissingCredentials)
		return nil, Invalid("Email and password are required.")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		s.recordLogin(ctx, meta, nil, email, models.ProviderLocal, models.LoginReasonInvalidCredentials)
		return nil, Unauthorized("Invalid credentials.")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.recordLogin(ctx, meta, user, email, models.ProviderLocal, models.LoginReasonInvalidCredentials)
		return nil, Unauthorized("Invalid credentials.")
	}

	s.recordLogin(ctx, meta, user, email, models.ProviderLocal, "")
	return s.signIn(user)
}

// verifyExternal checks an ID token with the identity provider, logging
// the failure reason when it cannot.
func (s *AccountService) verifyExternal(ctx context.Context, idToken string, meta RequestMeta) (*auth.ExternalIdentity, error) {
	if idToken == "" {
		s.recordLogin(ctx, meta, nil, "", models.ProviderFirebase, models.LoginReasonMissingToken)
		return nil, Invalid("Firebase ID token is required.")
	}
	if s.caps.Identity == nil {
		s.recordLogin(ctx, meta, nil, "", models.ProviderFirebase, models.LoginReasonFirebaseUnavailable)
		return nil, Unavailable("Firebase authentication unavailable.")
	}
	ext, err := s.caps.Identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Debug("identity token rejected", zap.Error(err))
		s.recordLogin(ctx, meta, nil, "", models.ProviderFirebase, models.LoginReasonInvalidToken)
		return nil, Unauthorized("Invalid identity token.")
	}
	ext.Email = strings.ToLower(strings.TrimSpace(ext.Email))
	return ext, nil
}

// findExternalUser looks a provider identity up by uid, then by email.
func (s *AccountService) findExternalUser(ctx context.Context, ext *auth.ExternalIdentity) (*models.User, error) {
	user, err := s.store.GetUserByFirebaseUID(ctx, ext.UID)
	if err == nil || !errors.Is(err, storage.ErrNotFound) {
		return user, err
	}
	if ext.Email == "" {
		return nil, storage.ErrNotFound
	}
	return s.store.GetUserByEmail(ctx, ext.Email)
}

// FirebaseLogin signs in a provider identity, linking it to an existing
// account with the same email or creating a customer account.
func (s *AccountService) FirebaseLogin(ctx context.Context, idToken string, meta RequestMeta) (*AuthResult, error) {
	ext, err := s.verifyExternal(ctx, idToken, meta)
	if err != nil {
		return nil, err
	}

	user, err := s.findExternalUser(ctx, ext)
	switch {
	case err == nil:
		if user.FirebaseUID == nil {
			uid := ext.UID
			user.FirebaseUID = &uid
			if err := s.store.UpdateUser(ctx, user); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, storage.ErrNotFound):
		if ext.Email == "" {
			return nil, Invalid("Identity token carries no email.")
		}
		name := ext.Name
		if name == "" {
			name = ext.Email
		}
		uid := ext.UID
		user = &models.User{
			Name:         name,
			Email:        ext.Email,
			Phone:        ext.Phone,
			Role:         models.RoleCustomer,
			AuthProvider: models.ProviderFirebase,
			FirebaseUID:  &uid,
			IsVerified:   true,
		}
		user.Normalize()
		if err := s.store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return nil, Conflict("Account already exists. Please login.")
			}
			return nil, err
		}
	default:
		return nil, err
	}

	s.recordLogin(ctx, meta, user, user.Email, models.ProviderFirebase, "")
	return s.signIn(user)
}

// FirebaseRegisterInput is a sign-up backed by a provider identity.
type FirebaseRegisterInput struct {
	IDToken     string
	Name        string
	Phone       string
	Role        string
	CompanyName string
}

func (s *AccountService) FirebaseRegister(ctx context.Context, in FirebaseRegisterInput, meta RequestMeta) (*AuthResult, error) {
	if in.IDToken == "" || in.Name == "" || in.Phone == "" {
		return nil, Invalid("ID token, name, and phone are required.")
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if err := checkSignupRole(in.Role); err != nil {
		return nil, err
	}

	ext, err := s.verifyExternal(ctx, in.IDToken, meta)
	if err != nil {
		return nil, err
	}
	if ext.Email == "" {
		return nil, Invalid("Identity token carries no email.")
	}

	if _, err := s.findExternalUser(ctx, ext); err == nil {
		return nil, Conflict("Account already exists. Please login.")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	uid := ext.UID
	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        ext.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		CompanyName:  strings.TrimSpace(in.CompanyName),
		AuthProvider: models.ProviderFirebase,
		FirebaseUID:  &uid,
		IsVerified:   true,
	}
	user.Normalize()
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, Conflict("Account already exists. Please login.")
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("provider", models.ProviderFirebase))
	return s.signIn(user)
}

// Me returns the caller's account.
func (s *AccountService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("User not found.")
	}
	return user, err
}

// ListUsers returns every account for admins, newest first.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// ForgotPassword texts a reset code to the account's phone. Both the OTP
// store and the SMS sender must be configured before a code is generated.
func (s *AccountService) ForgotPassword(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return Invalid("Phone is required.")
	}

	if _, err := s.store.GetUserByPhone(ctx, phone); errors.Is(err, storage.ErrNotFound) {
		return NotFound("User not found.")
	} else if err != nil {
		return err
	}

	if s.caps.OTP == nil {
		return Unavailable("OTP service unavailable.")
	}
	if s.caps.SMS == nil {
		return Unavailable("SMS service unavailable.")
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return err
	}
	if err := s.caps.OTP.Save(ctx, phone, code, s.otpTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Your Fleetiva OTP is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes()))
	if err := s.caps.SMS.SendSMS(ctx, phone, body); err != nil {
		_ = s.caps.OTP.Delete(ctx, phone)
		s.logger.Error("failed to send otp", zap.Error(err))
		return Unavailable("Failed to send OTP.")
	}
	return nil
}

// ResetPassword replaces the password when the OTP matches, then burns the OTP.
func (s *AccountService) ResetPassword(ctx context.Context, phone, otp, newPassword string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || otp == "" || newPassword == "" {
		return Invalid("Phone, OTP, and new password are required.")
	}
	if len(newPassword) < minPasswordLength {
		return Invalid("Password must be at least 8 characters.")
	}
	if s.caps.OTP == nil {
		return Unavailable("OTP service unavailable.")
	}

	stored, err := s.caps.OTP.Get(ctx, phone)
	if err != nil && !errors.Is(err, ErrOTPNotFound) {
		return err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(otp)) != 1 {
		return Invalid("Invalid or expired OTP.")
	}

	user, err := s.store.GetUserByPhone(ctx, phone)
	if errors.Is(err, storage.ErrNotFound) {
		return NotFound("User not found.")
	}
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	if err := s.caps.OTP.Delete(ctx, phone); err != nil {
		s.logger.Warn("failed to delete used otp", zap.Error(err))
	}
	return nil
}

func (s *AccountService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{AccessToken: token, User: user}, nil
}

// recordLogin writes a LoginLog row. An empty reason means success.
// Failures to persist are logged and otherwise ignored.
func (s *AccountService) recordLogin(ctx context.Context, meta RequestMeta, user *models.User, email, provider, reason string) {
	entry := &models.LoginLog{
		Email:     email,
		Provider:  provider,
		Status:    models.LoginStatusSuccess,
		Reason:    reason,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	if reason != "" {
		entry.Status = models.LoginStatusFailure
	}
	if user != nil {
		entry.UserID = user.ID
		if entry.Email == "" {
			entry.Email = user.Email
		}
	}

	s.metrics.LoginAttempt(provider, entry.Status)
	if err := s.store.CreateLoginLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write login log", zap.Error(err))
	}
}
