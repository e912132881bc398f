// Package notify delivers account emails that carry verification and reset links.
package notify

import (
	"context"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.txt
var templateFS embed.FS

// Notifier sends account emails containing a link that embeds token.
type Notifier interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// Message is a rendered plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
	Link    string
}

// Composer renders verification and reset messages for links under baseURL.
type Composer struct {
	baseURL  string
	validFor time.Duration
	verify   *pongo2.Template
	reset    *pongo2.Template
}

// NewComposer parses the embedded templates.
func NewComposer(baseURL string, validFor time.Duration) (*Composer, error) {
	verify, err := loadTemplate("templates/verification.txt")
	if err != nil {
		return nil, err
	}
	reset, err := loadTemplate("templates/password_reset.txt")
	if err != nil {
		return nil, err
	}
	return &Composer{
		baseURL:  baseURL,
		validFor: validFor,
		verify:   verify,
		reset:    reset,
	}, nil
}

func loadTemplate(name string) (*pongo2.Template, error) {
	raw, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	tpl, err := pongo2.FromString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl, nil
}

// VerificationLink is the URL served by GET /auth/verify-email/:token.
func (c *Composer) VerificationLink(token string) string {
	return c.baseURL + "/auth/verify-email/" + url.PathEscape(token)
}

// ResetLink is the URL served by GET /auth/reset-password/:token.
func (c *Composer) ResetLink(token string) string {
	return c.baseURL + "/auth/reset-password/" + url.PathEscape(token)
}

// Verification renders the email-verification message.
func (c *Composer) Verification(to, token string) (*Message, error) {
	return c.render(c.verify, "Confirm your account registration", to, c.VerificationLink(token))
}

// PasswordReset renders the password-reset message.
func (c *Composer) PasswordReset(to, token string) (*Message, error) {
	return c.render(c.reset, "Password reset request", to, c.ResetLink(token))
}

func (c *Composer) render(tpl *pongo2.Template, subject, to, link string) (*Message, error) {
	body, err := tpl.Execute(pongo2.Context{
		"email":         to,
		"link":          link,
		"valid_minutes": int(c.validFor.Minutes()),
	})
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", subject, err)
	}
	return &Message{To: to, Subject: subject, Body: body, Link: link}, nil
}
