// Package authapi exposes the credential flows over HTTP.
package authapi

import (
	"context"
	"strings"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Registrar interface {
	RequestCode(ctx context.Context, req authsrv.RegisterRequest) error
	Confirm(ctx context.Context, email, code string) (*authsrv.RegistrationResult, error)
}

type Resetter interface {
	RequestReset(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type Sessions interface {
	Login(ctx context.Context, identifier, password string) (*authsrv.LoginResult, error)
	ChangePassword(ctx context.Context, accountID kernel.AccountID, oldPassword, newPassword string) error
}

type AuthHandlers struct {
	registration      Registrar
	reset             Resetter
	sessions          Sessions
	minPasswordLength int
}

func NewAuthHandlers(registration Registrar, reset Resetter, sessions Sessions, minPasswordLength int) *AuthHandlers {
	return &AuthHandlers{
		registration:      registration,
		reset:             reset,
		sessions:          sessions,
		minPasswordLength: minPasswordLength,
	}
}

func (h *AuthHandlers) RegisterRoutes(app fiber.Router, mw *auth.TokenMiddleware) {
	g := app.Group("/auth")

	g.Post("/registration", h.Register)
	g.Post("/registration-code", h.ConfirmRegistration)
	g.Post("/login", h.Login)
	g.Post("/check-token", mw.Authenticate(), h.CheckToken)
	g.Put("/change-password", mw.Authenticate(), h.ChangePassword)
	g.Post("/request-reset-password", h.RequestResetPassword)
	g.Post("/verify-reset-code", h.VerifyResetCode)
	g.Post("/reset-password", h.ResetPassword)
}

// ============================================================================
// Requests
// ============================================================================

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	LoginOrEmail string `json:"loginOrEmail"`
	Password     string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ============================================================================
// Handlers
// ============================================================================

func (h *AuthHandlers) Register(c *fiber.Ctx) error {
	var req authsrv.RegisterRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := firstError(
		requireEmail(req.Email),
		required("login", req.Login),
		required("name", req.Name),
		h.checkPassword(req.Password),
	); err != nil {
		return err
	}

	if err := h.registration.RequestCode(c.UserContext(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Verification code sent to your email",
	})
}

func (h *AuthHandlers) ConfirmRegistration(c *fiber.Ctx) error {
	var req confirmRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := firstError(requireEmail(req.Email), required("code", req.Code)); err != nil {
		return err
	}

	res, err := h.registration.Confirm(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  true,
		"message": "Registration completed",
		"user":    res.Account,
		"token":   res.Token,
	})
}

func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := firstError(required("loginOrEmail", req.LoginOrEmail), required("password", req.Password)); err != nil {
		return err
	}

	res, err := h.sessions.Login(c.UserContext(), req.LoginOrEmail, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": true,
		"token":  res.Token,
		"data":   res.Account,
	})
}

func (h *AuthHandlers) CheckToken(c *fiber.Ctx) error {
	if _, ok := auth.AuthFromCtx(c); !ok {
		return iam.ErrUnauthorized()
	}
	return c.JSON(fiber.Map{"status": true})
}

func (h *AuthHandlers) ChangePassword(c *fiber.Ctx) error {
	ac, ok := auth.AuthFromCtx(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req changePasswordRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := firstError(required("oldPassword", req.OldPassword), h.checkPassword(req.NewPassword)); err != nil {
		return err
	}

	if err := h.sessions.ChangePassword(c.UserContext(), ac.AccountID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Password changed",
	})
}

func (h *AuthHandlers) RequestResetPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := requireEmail(req.Email); err != nil {
		return err
	}

	if err := h.reset.RequestReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Reset code sent to your email",
	})
}

func (h *AuthHandlers) VerifyResetCode(c *fiber.Ctx) error {
	var req confirmRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := firstError(requireEmail(req.Email), required("code", req.Code)); err != nil {
		return err
	}

	token, err := h.reset.VerifyCode(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": true,
		"token":  token,
	})
}

func (h *AuthHandlers) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parse(c, &req); err != nil {
		return err
	}
	if err := firstError(required("token", req.Token), h.checkPassword(req.NewPassword)); err != nil {
		return err
	}

	if err := h.reset.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Password has been reset",
	})
}

// ============================================================================
// Validation
// ============================================================================

func parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errx.Validation("Invalid request body").WithCause(err)
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errx.Validation(field + " is required").WithDetail("field", field)
	}
	return nil
}

func requireEmail(email string) error {
	if err := required("email", email); err != nil {
		return err
	}
	if !strings.Contains(email, "@") {
		return errx.Validation("email is invalid").WithDetail("field", "email")
	}
	return nil
}

func (h *AuthHandlers) checkPassword(password string) error {
	if len(password) < h.minPasswordLength {
		return auth.ErrWeakPassword(h.minPasswordLength)
	}
	if len(password) > auth.MaxPasswordBytes {
		return auth.ErrPasswordTooLong()
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
