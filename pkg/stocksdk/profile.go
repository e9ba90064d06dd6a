package stocksdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ProfileUpdate is a partial profile edit. Empty fields are not sent, so
// the stored value is kept.
type ProfileUpdate struct {
	Username     string
	Email        string
	PhoneNumber  string
	Address      string
	BusinessName string

	// Picture, when set, replaces the profile picture.
	Picture *ProfilePicture
}

// ProfilePicture is an image upload.
type ProfilePicture struct {
	Filename string
	Content  io.Reader
}

// Empty reports whether the update would change nothing.
func (u ProfileUpdate) Empty() bool {
	return len(u.fields()) == 0 && u.Picture == nil
}

func (u ProfileUpdate) fields() [][2]string {
	var out [][2]string
	for _, f := range [][2]string{
		{"username", u.Username},
		{"email", u.Email},
		{"phone_number", u.PhoneNumber},
		{"address", u.Address},
		{"business_name", u.BusinessName},
	} {
		if strings.TrimSpace(f[1]) != "" {
			out = append(out, f)
		}
	}
	return out
}

// Profile returns the logged in user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	resp, err := c.doAPI(ctx, http.MethodGet, "profile/", nil, nil)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile sends a multipart partial update for userID.
func (c *Client) UpdateProfile(ctx context.Context, userID string, u ProfileUpdate) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Fields: map[string]string{"user_id": requiredReason}}
	}
	if u.Empty() {
		return nil, &ValidationError{Fields: map[string]string{"profile": "nothing to update"}}
	}

	body, contentType, err := u.encode()
	if err != nil {
		return nil, err
	}

	// bytes.Reader gives the request a GetBody, so the gateway can replay it.
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.endpoint(fmt.Sprintf("profile/%s/update/", url.PathEscape(userID)), nil), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

func (u ProfileUpdate) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range u.fields() {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to encode %s: %w", f[0], err)
		}
	}

	if u.Picture != nil {
		name := u.Picture.Filename
		if name == "" {
			name = "profile_picture"
		}
		part, err := w.CreateFormFile("profile_picture", name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode picture: %w", err)
		}
		if _, err := io.Copy(part, u.Picture.Content); err != nil {
			return nil, "", fmt.Errorf("failed to read picture: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// ChangePassword sets a new password after checking the current one.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (*MessageResponse, error) {
	in := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := validate(in); err != nil {
		return nil, err
	}

	resp, err := c.doAPI(ctx, http.MethodPost, "profile/change-password/", nil, in)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
