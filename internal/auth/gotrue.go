package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// GoTrueProvider talks to a GoTrue-compatible auth service, the one
// backend-as-a-service projects expose under /auth/v1.
type GoTrueProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGoTrueProvider(baseURL, apiKey string, timeout time.Duration) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type gotrueUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
}

// gotrueSession is the token response. Sign-up without auto-confirm answers
// with the bare user instead, which lands in the embedded fields.
type gotrueSession struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"`
	User        *gotrueUser `json:"user"`
	gotrueUser
}

type gotrueError struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	var s gotrueSession
	if err := p.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", credentials{email, password}, &s); err != nil {
		return nil, err
	}
	return s.toUser(), nil
}

func (p *GoTrueProvider) SignUp(ctx context.Context, email, password string) (*User, error) {
	var s gotrueSession
	if err := p.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentials{email, password}, &s); err != nil {
		return nil, err
	}
	return s.toUser(), nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context, user *User) error {
	if !user.HasSession() {
		return nil
	}
	return p.do(ctx, http.MethodPost, "/auth/v1/logout", user.AccessToken, nil, nil)
}

func (s gotrueSession) toUser() *User {
	u := s.gotrueUser
	if s.User != nil {
		u = *s.User
	}
	user := &User{
		ID:          u.ID,
		Email:       u.Email,
		Confirmed:   u.EmailConfirmedAt != nil,
		AccessToken: s.AccessToken,
	}
	if s.ExpiresIn > 0 {
		user.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return user
}

func (p *GoTrueProvider) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("auth: encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth: %s %s: %w", method, redact(req.URL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeProviderError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("auth: decode response: %w", err)
	}
	return nil
}

func decodeProviderError(resp *http.Response) error {
	pe := &ProviderError{Status: resp.StatusCode}

	var e gotrueError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &e); err != nil {
		pe.Message = strings.TrimSpace(string(raw))
		if pe.Message == "" {
			pe.Message = http.StatusText(resp.StatusCode)
		}
		return pe
	}

	pe.Code = e.ErrorCode
	if pe.Code == "" {
		pe.Code = e.Error
	}
	for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if m != "" {
			pe.Message = m
			break
		}
	}
	if pe.Message == "" {
		pe.Message = http.StatusText(resp.StatusCode)
	}
	return pe
}

func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}
