// Package iam (Identity and Access Management) owns the credential lifecycle
// of MatchHub accounts.
//
// # Overview
//
//   - iam/account  — Account entity, public DTO, repository port and its Postgres implementation
//   - iam/otp      — verification code generation, single-use storage and email delivery
//   - iam/auth     — session and reset tokens, password hashing, pending registrations,
//     the registration / reset / session flows (authsrv) and their HTTP handlers (authapi)
//
// # Architecture
//
//	HTTP Handler  →  Flow (authsrv)  →  Ports  →  Infrastructure (Postgres / Redis / SES)
//
// Each sub-domain exposes its own error registry ("ACCOUNT", "OTP", "AUTH").
// Handlers never interpret failures; they return them and the server's error
// handler translates them with errx.ToResponse.
//
// # Registration
//
//	RequestCode: no account yet → pending registration staged (hash, 300s)
//	             → code stored under the email (300s) → code emailed in the background
//	Confirm:     code consumed atomically → pending data read → account created
//	             → pending data deleted → session token issued
//
// A code is accepted at most once. Account uniqueness on email and login is
// enforced by the accounts table, which settles concurrent confirmations.
//
// # Password reset
//
//	NoRequest ─RequestReset→ CodeIssued ─VerifyCode→ TokenIssued ─ResetPassword→ Consumed
//
// Reset codes live 600s under reset:code:<email>. Verifying one consumes it and
// issues a reset token signed with its own secret (15m), recorded for 900s under
// reset:token:<token>. A reset token is accepted only while it is recorded,
// verifies, and names the recorded email; it is consumed before the password
// changes so it can never be replayed.
//
// # Sessions
//
// Login accepts an email or login plus password and returns a session token
// (36h). Session tokens and reset tokens use different secrets and audiences,
// so neither verifies as the other.
package iam
