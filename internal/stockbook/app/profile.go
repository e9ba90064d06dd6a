package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

func (app *Application) profileShow(ctx context.Context, args []string) error {
	if err := parseFlags(app.newFlags("profile show"), args); err != nil {
		return err
	}

	p, err := app.client.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, renderProfile(p))
	return nil
}

func (app *Application) profileUpdate(ctx context.Context, args []string) error {
	fs := app.newFlags("profile update")
	var u stocksdk.ProfileUpdate
	fs.StringVar(&u.Username, "username", "", "new username")
	fs.StringVar(&u.Email, "email", "", "new email")
	fs.StringVar(&u.PhoneNumber, "phone", "", "new phone number")
	fs.StringVar(&u.Address, "address", "", "new address")
	fs.StringVar(&u.BusinessName, "business", "", "new business name")
	picture := fs.String("picture", "", "path to a new profile picture")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *picture != "" {
		f, err := os.Open(*picture)
		if err != nil {
			return fmt.Errorf("failed to open picture: %w", err)
		}
		defer f.Close()
		u.Picture = &stocksdk.ProfilePicture{Filename: filepath.Base(*picture), Content: f}
	}

	sess, err := app.client.CurrentSession(ctx)
	if err != nil {
		return err
	}

	p, err := app.client.UpdateProfile(ctx, sess.UserID, u)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, successStyle.Render("Profile updated"))
	fmt.Fprintln(app.out, renderProfile(p))
	return nil
}

func (app *Application) profilePassword(ctx context.Context, args []string) error {
	fs := app.newFlags("profile password")
	current := fs.String("current", "", "current password (prompted when omitted)")
	next := fs.String("new", "", "new password (prompted when omitted)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	for _, p := range []struct {
		label string
		value *string
	}{
		{"Current password: ", current},
		{"New password: ", next},
	} {
		if *p.value != "" {
			continue
		}
		v, err := app.prompt(p.label)
		if err != nil {
			return err
		}
		*p.value = v
	}

	msg, err := app.client.ChangePassword(ctx, *current, *next)
	if err != nil {
		return err
	}

	text := msg.Message
	if text == "" {
		text = "Password changed"
	}
	fmt.Fprintln(app.out, successStyle.Render(text))
	return nil
}
