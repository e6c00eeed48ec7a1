package auth

import (
	"strings"

	"github.com/Abraxas-365/matchhub/pkg/errx"
	"github.com/Abraxas-365/matchhub/pkg/iam"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// LocalsKey is where the middleware stores the *kernel.AuthContext.
const LocalsKey = "auth"

// TokenMiddleware guards routes with a session token.
type TokenMiddleware struct {
	sessions SessionAuthenticator
}

func NewAuthMiddleware(sessions SessionAuthenticator) *TokenMiddleware {
	return &TokenMiddleware{sessions: sessions}
}

// Authenticate accepts "Authorization: Bearer <token>" or the access_token
// cookie, resolves the caller and stores it in Locals and the user context.
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies("access_token")
		}
		if token == "" {
			return reject(c, iam.ErrUnauthorized())
		}

		authContext, err := am.sessions.Authenticate(c.UserContext(), token)
		if err != nil {
			return reject(c, err)
		}

		c.Locals(LocalsKey, authContext)
		c.SetUserContext(kernel.WithAuth(c.UserContext(), authContext))

		return c.Next()
	}
}

// AuthFromCtx returns the caller stored by Authenticate.
func AuthFromCtx(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	ac, ok := c.Locals(LocalsKey).(*kernel.AuthContext)
	return ac, ok && ac.IsValid()
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func reject(c *fiber.Ctx, err error) error {
	status, resp := errx.ToResponse(err)
	return c.Status(status).JSON(resp)
}
