package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type account struct {
	id        string
	email     string
	hash      []byte
	confirmed bool
}

// LocalProvider keeps accounts in memory and signs its own tokens. It answers
// with the same messages a GoTrue service does.
type LocalProvider struct {
	secret              []byte
	tokenTTL            time.Duration
	requireConfirmation bool
	cost                int

	m        sync.RWMutex
	accounts map[string]*account
}

type LocalOption func(*LocalProvider)

// WithEmailConfirmation makes new accounts unable to sign in until Confirm is called.
func WithEmailConfirmation() LocalOption {
	return func(p *LocalProvider) {
		p.requireConfirmation = true
	}
}

func WithBcryptCost(cost int) LocalOption {
	return func(p *LocalProvider) {
		p.cost = cost
	}
}

func NewLocalProvider(secret string, tokenTTL time.Duration, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		cost:     bcrypt.DefaultCost,
		accounts: make(map[string]*account),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*User, error) {
	if len(password) < MinPasswordLength {
		return nil, &ProviderError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "weak_password",
			Message: fmt.Sprintf("Password should be at least %d characters.", MinPasswordLength),
		}
	}
	key := normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	p.m.Lock()
	if _, ok := p.accounts[key]; ok {
		p.m.Unlock()
		return nil, &ProviderError{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
	}
	acc := &account{
		id:        uuid.NewString(),
		email:     key,
		hash:      hash,
		confirmed: !p.requireConfirmation,
	}
	p.accounts[key] = acc
	p.m.Unlock()

	if !acc.confirmed {
		return &User{ID: acc.id, Email: acc.email}, nil
	}
	return p.issue(acc)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	p.m.RLock()
	acc, ok := p.accounts[normalizeEmail(email)]
	var snapshot account
	if ok {
		snapshot = *acc
	}
	p.m.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(snapshot.hash, []byte(password)) != nil {
		return nil, &ProviderError{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}
	}
	if !snapshot.confirmed {
		return nil, &ProviderError{Status: http.StatusBadRequest, Code: "email_not_confirmed", Message: "Email not confirmed"}
	}
	return p.issue(&snapshot)
}

// SignOut is a no-op: tokens are stateless and simply expire.
func (p *LocalProvider) SignOut(context.Context, *User) error {
	return nil
}

// Confirm marks an account's e-mail as verified.
func (p *LocalProvider) Confirm(email string) bool {
	p.m.Lock()
	defer p.m.Unlock()
	acc, ok := p.accounts[normalizeEmail(email)]
	if ok {
		acc.confirmed = true
	}
	return ok
}

// Verify parses a token issued by this provider.
func (p *LocalProvider) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}
	return claims, nil
}

func (p *LocalProvider) issue(acc *account) (*User, error) {
	now := time.Now()
	expiresAt := now.Add(p.tokenTTL)
	claims := Claims{
		Email: acc.email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}
	return &User{
		ID:          acc.id,
		Email:       acc.email,
		Confirmed:   true,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
