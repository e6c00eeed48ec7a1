package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]*kernel.AuthContext

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*kernel.AuthContext, error) {
	if ac, ok := s[token]; ok {
		return ac, nil
	}
	return nil, iam.ErrInvalidToken()
}

func newGuardedApp() *fiber.App {
	mw := NewAuthMiddleware(stubAuthenticator{
		"good": {AccountID: 4, Email: "ana@example.com", Login: "ana"},
	})

	app := fiber.New()
	app.Get("/me", mw.Authenticate(), func(c *fiber.Ctx) error {
		ac, ok := AuthFromCtx(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		fromCtx, _ := kernel.AuthFrom(c.UserContext())
		return c.JSON(fiber.Map{"email": ac.Email, "same": fromCtx == ac})
	})
	return app
}

func TestAuthenticate_Bearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")

	resp, err := newGuardedApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ana@example.com", body["email"])
	require.Equal(t, true, body["same"])
}

func TestAuthenticate_Cookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})

	resp, err := newGuardedApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticate_Rejects(t *testing.T) {
	cases := map[string]struct {
		header string
		code   string
	}{
		"missing": {"", iam.CodeUnauthorized.Code},
		"invalid": {"Bearer forged", iam.CodeInvalidToken.Code},
		"scheme":  {"Basic good", iam.CodeUnauthorized.Code},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := newGuardedApp().Test(req)
			require.NoError(t, err)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body errx.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.False(t, body.Status)
			require.Equal(t, tc.code, body.Code)
		})
	}
}
