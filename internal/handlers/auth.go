package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/middleware"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// AuthHandler handles sign-up, sign-in and password recovery
type AuthHandler struct {
	accounts   *services.AccountService
	validate   *Validator
	production bool
	cookieTTL  time.Duration
}

// NewAuthHandler creates a new auth handler. cookieTTL should match the token TTL.
func NewAuthHandler(accounts *services.AccountService, validate *Validator, production bool, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, validate: validate, production: production, cookieTTL: cookieTTL}
}

type registerRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,phone"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	Role        string `json:"role" validate:"omitempty,oneof=customer driver admin"`
	CompanyName string `json:"companyName" validate:"max=200"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type firebaseLoginRequest struct {
	IDToken string `json:"idToken"`
}

type firebaseRegisterRequest struct {
	IDToken     string `json:"idToken" validate:"required"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Phone       string `json:"phone" validate:"required,phone"`
	Role        string `json:"role" validate:"omitempty,oneof=customer driver admin"`
	CompanyName string `json:"companyName" validate:"max=200"`
}

type forgotPasswordRequest struct {
	Phone string `json:"phone"`
}

type resetPasswordRequest struct {
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func requestMeta(c *fiber.Ctx) services.RequestMeta {
	return services.RequestMeta{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	cookie := &fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		MaxAge:   int(h.cookieTTL.Seconds()),
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if h.production {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(cookie)
}

func (h *AuthHandler) signedIn(c *fiber.Ctx, status int, res *services.AuthResult) error {
	h.setAuthCookie(c, res.AccessToken)
	return c.Status(status).JSON(res)
}

// Register creates a local account and signs it in
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.Register(c.UserContext(), services.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return err
	}
	return h.signedIn(c, fiber.StatusCreated, res)
}

// Login signs in with email and password
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.Login(c.UserContext(), req.Email, req.Password, requestMeta(c))
	if err != nil {
		return err
	}
	return h.signedIn(c, fiber.StatusOK, res)
}

// FirebaseLogin signs in with an identity provider ID token
func (h *AuthHandler) FirebaseLogin(c *fiber.Ctx) error {
	var req firebaseLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.FirebaseLogin(c.UserContext(), req.IDToken, requestMeta(c))
	if err != nil {
		return err
	}
	return h.signedIn(c, fiber.StatusOK, res)
}

// FirebaseRegister creates an account backed by an identity provider
func (h *AuthHandler) FirebaseRegister(c *fiber.Ctx) error {
	var req firebaseRegisterRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.FirebaseRegister(c.UserContext(), services.FirebaseRegisterInput{
		IDToken:     req.IDToken,
		Name:        req.Name,
		Phone:       req.Phone,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return h.signedIn(c, fiber.StatusCreated, res)
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.AuthCookie)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the signed-in account
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.accounts.Me(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

// ForgotPassword texts a reset code to the account's phone
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.accounts.ForgotPassword(c.UserContext(), req.Phone); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "OTP sent successfully."})
}

// ResetPassword sets a new password when the reset code matches
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.accounts.ResetPassword(c.UserContext(), req.Phone, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully."})
}
