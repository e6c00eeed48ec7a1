package authinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/iam/auth"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/kernel"
	"github.com/Abraxas-365/matchhub/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logx logging.
type LogxAuditService struct{}

var _ auth.AuditService = (*LogxAuditService)(nil)

func NewLogxAuditService() *LogxAuditService {
	return &LogxAuditService{}
}

func audit(ctx context.Context, event string, fields logx.Fields) *logx.Entry {
	fields["audit_event"] = event
	fields["timestamp"] = time.Now()
	if rid, ok := ctx.Value(kernel.RequestIDKey).(string); ok {
		fields["request_id"] = rid
	}
	return logx.WithFields(fields)
}

func (s *LogxAuditService) LogRegistrationRequested(ctx context.Context, email string) {
	audit(ctx, "registration_requested", logx.Fields{
		"email": email,
	}).Info("Audit: registration requested")
}

func (s *LogxAuditService) LogAccountCreated(ctx context.Context, accountID kernel.AccountID, email string) {
	audit(ctx, "account_created", logx.Fields{
		"account_id": accountID,
		"email":      email,
	}).Info("Audit: account created")
}

func (s *LogxAuditService) LogLoginAttempt(ctx context.Context, identifier string, accountID kernel.AccountID, success bool) {
	e := audit(ctx, "login_attempt", logx.Fields{
		"identifier": identifier,
		"account_id": accountID,
		"success":    success,
	})
	if success {
		e.Info("Audit: login attempt")
		return
	}
	e.Warn("Audit: login attempt")
}

func (s *LogxAuditService) LogOTPVerification(ctx context.Context, contact string, purpose otp.Purpose, success bool) {
	audit(ctx, "otp_verification", logx.Fields{
		"contact": contact,
		"purpose": purpose,
		"success": success,
	}).Info("Audit: OTP verification")
}

func (s *LogxAuditService) LogResetRequested(ctx context.Context, email string) {
	audit(ctx, "reset_requested", logx.Fields{
		"email": email,
	}).Info("Audit: password reset requested")
}

func (s *LogxAuditService) LogPasswordChanged(ctx context.Context, email string, source string) {
	audit(ctx, "password_changed", logx.Fields{
		"email":  email,
		"source": source,
	}).Info("Audit: password changed")
}
