package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/matchhub/pkg/iam/account"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionAudience = "matchhub-session"
	ResetAudience   = "matchhub-password-reset"
)

// JWTService is the HS256 TokenIssuer.
type JWTService struct {
	sessionSecret []byte
	sessionTTL    time.Duration
	resetSecret   []byte
	resetTTL      time.Duration
	issuer        string
}

var _ TokenIssuer = (*JWTService)(nil)

func NewJWTService(sessionSecret string, sessionTTL time.Duration, resetSecret string, resetTTL time.Duration, issuer string) *JWTService {
	if sessionTTL == 0 {
		sessionTTL = 36 * time.Hour
	}
	if resetTTL == 0 {
		resetTTL = 15 * time.Minute
	}
	if issuer == "" {
		issuer = "matchhub"
	}

	return &JWTService{
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
		resetSecret:   []byte(resetSecret),
		resetTTL:      resetTTL,
		issuer:        issuer,
	}
}

func (j *JWTService) registered(subject, audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    j.issuer,
		Subject:   subject,
		Audience:  []string{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func (j *JWTService) IssueSessionToken(acc *account.Account) (string, error) {
	claims := SessionClaims{
		AccountID:        acc.ID,
		Email:            acc.Email,
		RegisteredClaims: j.registered(acc.ID.String(), SessionAudience, j.sessionTTL),
	}
	return sign(claims, j.sessionSecret)
}

func (j *JWTService) ParseSessionToken(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := j.verify(token, claims, j.sessionSecret, SessionAudience); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, ErrTokenValidationFailed().WithDetail("error", "missing email claim")
	}
	return claims, nil
}

// IssueResetToken signs a single-use reset token for email. Each token gets
// its own ID so two tokens for the same email never collide in the store.
func (j *JWTService) IssueResetToken(email string) (string, error) {
	rc := j.registered(email, ResetAudience, j.resetTTL)
	rc.ID = uuid.NewString()

	return sign(ResetClaims{Email: email, RegisteredClaims: rc}, j.resetSecret)
}

func (j *JWTService) ParseResetToken(token string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := j.verify(token, claims, j.resetSecret, ResetAudience); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, ErrTokenValidationFailed().WithDetail("error", "missing email claim")
	}
	return claims, nil
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithCause(err)
	}
	return tokenString, nil
}

func (j *JWTService) verify(tokenString string, claims jwt.Claims, secret []byte, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(j.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return ErrTokenValidationFailed().WithDetail("error", err.Error())
	}
	if !token.Valid {
		return ErrTokenValidationFailed().WithDetail("error", "token is invalid")
	}
	return nil
}
