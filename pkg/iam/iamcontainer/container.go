package iamcontainer

import (
	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/Abraxas-365/matchhub/pkg/iam/account/accountinfra"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth/authapi"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/matchhub/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/matchhub/pkg/kvx"
	"github.com/Abraxas-365/matchhub/pkg/kvx/kvxredis"
	"github.com/Abraxas-365/matchhub/pkg/logx"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// ---------------------------------------------------------------------------
// Deps: explicit external dependencies this bounded context requires.
// ---------------------------------------------------------------------------

type Deps struct {
	DB    *sqlx.DB
	Redis redis.UniversalClient
	Cfg   *config.Config

	// OTPNotifier is injected so the IAM module does not know how codes
	// are delivered.
	OTPNotifier otp.NotificationService
}

// ---------------------------------------------------------------------------
// Container: the public surface of the IAM module.
// ---------------------------------------------------------------------------

type Container struct {
	// Stores, exposed for health checks
	Accounts account.Repository
	KV       kvx.Store

	// Services
	OTPService          *otpsrv.OTPService
	TokenService        auth.TokenIssuer
	RegistrationService *authsrv.RegistrationService
	ResetService        *authsrv.ResetService
	SessionService      *authsrv.SessionService

	// Handlers and middleware, needed by cmd/ to register routes
	AuthHandlers   *authapi.AuthHandlers
	AuthMiddleware *auth.TokenMiddleware
}

// ---------------------------------------------------------------------------
// New: constructs the IAM dependency graph.
// Order matters: infra → repos → services → handlers → middleware.
// ---------------------------------------------------------------------------

func New(deps Deps) *Container {
	logx.Info("🔧 Initializing IAM container...")

	c := &Container{}
	authCfg := &deps.Cfg.Auth

	// ── Stores ───────────────────────────────────────────────────────────

	c.Accounts = accountinfra.NewPostgresAccountRepository(deps.DB)
	c.KV = kvxredis.NewStore(deps.Redis)
	stateStore := authinfra.NewKVStateStore(c.KV)
	codeStore := otpinfra.NewKVCodeStore(c.KV)

	// ── Infrastructure services ──────────────────────────────────────────

	passwordSvc := authinfra.NewBcryptPasswordService(authCfg.Password.BcryptCost)
	auditService := authinfra.NewLogxAuditService()

	c.TokenService = auth.NewJWTService(
		authCfg.JWT.SecretKey,
		authCfg.JWT.SessionTTL,
		authCfg.JWT.ResetSecretKey,
		authCfg.JWT.ResetTTL,
		authCfg.JWT.Issuer,
	)

	c.OTPService = otpsrv.NewOTPService(
		codeStore,
		otp.NumericGenerator{Length: authCfg.Codes.Length},
		deps.OTPNotifier,
		otpsrv.Options{
			RegistrationTTL: authCfg.Codes.RegistrationTTL,
			ResetTTL:        authCfg.Codes.ResetCodeTTL,
			MaxAttempts:     authCfg.Codes.MaxAttempts,
			NotifyTimeout:   authCfg.Timeouts.Notify,
			NotifyRetries:   authCfg.Timeouts.NotifyRetries,
		},
	)

	// ── Flows ────────────────────────────────────────────────────────────

	c.RegistrationService = authsrv.NewRegistrationService(
		c.Accounts,
		stateStore,
		passwordSvc,
		c.OTPService,
		c.TokenService,
		auditService,
		authCfg,
	)

	c.ResetService = authsrv.NewResetService(
		c.Accounts,
		stateStore,
		passwordSvc,
		c.OTPService,
		c.TokenService,
		auditService,
		authCfg,
	)

	c.SessionService = authsrv.NewSessionService(
		c.Accounts,
		passwordSvc,
		c.TokenService,
		auditService,
		authCfg,
	)

	// ── Handlers & middleware ────────────────────────────────────────────

	c.AuthHandlers = authapi.NewAuthHandlers(
		c.RegistrationService,
		c.ResetService,
		c.SessionService,
		authCfg.Password.MinLength,
	)
	c.AuthMiddleware = auth.NewAuthMiddleware(c.SessionService)

	logx.Info("✅ IAM container initialized")
	return c
}
