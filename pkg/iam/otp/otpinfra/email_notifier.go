package otpinfra

import (
	"context"

	"github.com/Abraxas-365/matchhub/pkg/iam/otp"
	"github.com/Abraxas-365/matchhub/pkg/notifx"
)

const codeTemplate = "otp_code"

const codeEmailHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
  <h2 style="color: #333;">{{.Heading}}</h2>
  <p style="font-size: 16px; color: #555;">{{.Intro}}</p>
  <p style="font-size: 24px; font-weight: bold; color: #007bff;">
    Your verification code: <span style="color: #ff6600;">{{.Code}}</span>
  </p>
  <p style="font-size: 14px; color: #888;">If you did not request this, you can ignore this email.</p>
  <p style="font-size: 14px; color: #888;">Regards,<br />The MatchHub team</p>
</div>`

type codeEmail struct {
	Subject string
	Heading string
	Intro   string
	Code    string
}

var emails = map[otp.Purpose]codeEmail{
	otp.PurposeRegistration: {
		Subject: "Your registration code",
		Heading: "Welcome!",
		Intro:   "Thanks for signing up. Confirm your email address with the code below.",
	},
	otp.PurposeReset: {
		Subject: "Your password reset code",
		Heading: "Password reset",
		Intro:   "Use the code below to reset your password.",
	},
}

// EmailNotifier delivers codes as HTML email through notifx.
type EmailNotifier struct {
	client *notifx.Client
}

var _ otp.NotificationService = (*EmailNotifier)(nil)

func NewEmailNotifier(client *notifx.Client) (*EmailNotifier, error) {
	if err := client.RegisterTemplate(codeTemplate, codeEmailHTML); err != nil {
		return nil, err
	}
	return &EmailNotifier{client: client}, nil
}

func (n *EmailNotifier) SendOTP(ctx context.Context, contact, code string, purpose otp.Purpose) error {
	data, ok := emails[purpose]
	if !ok {
		data = emails[otp.PurposeRegistration]
	}
	data.Code = code

	return n.client.SendTemplatedEmail(ctx, codeTemplate, data,
		notifx.EmailMessage{
			To:      []string{contact},
			Subject: data.Subject,
		},
		notifx.WithTags(map[string]string{"purpose": string(purpose)}),
	)
}
