package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aussiebroadwan/stockbook/pkg/jwtx"
	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

// expiryLeeway absorbs clock skew when reporting token expiry.
const expiryLeeway = 30 * time.Second

func (app *Application) login(ctx context.Context, args []string) error {
	fs := app.newFlags("login")
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password (read from stdin when omitted)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *password == "" && *username != "" {
		p, err := app.prompt("Password: ")
		if err != nil {
			return err
		}
		*password = p
	}

	if _, err := app.client.Login(ctx, stocksdk.LoginRequest{
		Username: strings.TrimSpace(*username),
		Password: *password,
	}); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess, err := app.client.CurrentSession(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, successStyle.Render(fmt.Sprintf("Logged in as %s (user %s)", strings.TrimSpace(*username), sess.UserID)))
	return nil
}

func (app *Application) register(ctx context.Context, args []string) error {
	fs := app.newFlags("register")
	var req stocksdk.RegisterRequest
	fs.StringVar(&req.Username, "username", "", "account username")
	fs.StringVar(&req.Password, "password", "", "account password (read from stdin when omitted)")
	fs.StringVar(&req.Email, "email", "", "contact email")
	fs.StringVar(&req.BusinessName, "business", "", "business name")
	fs.StringVar(&req.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&req.Address, "address", "", "postal address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if req.Password == "" && req.Username != "" {
		p, err := app.prompt("Password: ")
		if err != nil {
			return err
		}
		req.Password = p
	}

	msg, err := app.client.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	text := msg.Message
	if text == "" {
		text = "Account created"
	}
	fmt.Fprintln(app.out, successStyle.Render(text))
	fmt.Fprintln(app.out, dimStyle.Render("Run \"stockbook login\" to start a session."))
	return nil
}

func (app *Application) logout(ctx context.Context, args []string) error {
	if err := parseFlags(app.newFlags("logout"), args); err != nil {
		return err
	}
	if err := app.client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "Logged out")
	return nil
}

func (app *Application) status(ctx context.Context, args []string) error {
	if err := parseFlags(app.newFlags("status"), args); err != nil {
		return err
	}

	sess, err := app.client.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if !sess.LoggedIn() {
		fmt.Fprintln(app.out, "Not logged in")
		return nil
	}

	now := time.Now()
	rows := [][]string{
		{"API", app.client.BaseURL()},
		{"User", sess.UserID},
		{"Access token", tokenState(sess.AccessToken, now)},
		{"Refresh token", tokenState(sess.RefreshToken, now)},
	}
	fmt.Fprintln(app.out, renderKeyValues(rows))
	return nil
}

// tokenState describes a token's expiry from its unverified claims.
func tokenState(token string, now time.Time) string {
	if token == "" {
		return "none"
	}
	claims, err := jwtx.ParseUnverified(token)
	if err != nil {
		return "present (opaque)"
	}
	if claims.ExpiresAt == nil {
		return "present (no expiry)"
	}
	if claims.Expired(now, expiryLeeway) {
		return "expired " + claims.ExpiresAt.Time.Format(time.RFC3339)
	}
	return "valid for " + claims.ExpiresIn(now).Truncate(time.Second).String()
}

// prompt reads one line from the configured input.
func (app *Application) prompt(label string) (string, error) {
	fmt.Fprint(app.out, label)
	line, err := app.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
