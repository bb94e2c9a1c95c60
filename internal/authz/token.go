package authz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// EditAction is the action every caption form token is bound to.
const EditAction = "caption-metabox"

// DefaultTokenTTL is how long an issued form token stays valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenMissing  = errors.New("form token is required")
	ErrTokenInvalid  = errors.New("form token is invalid")
	ErrTokenMismatch = errors.New("form token does not match this form")
)

// formClaims binds a token to one user editing one post.
type formClaims struct {
	jwt.RegisteredClaims
	Action string `json:"action"`
	UserID int64  `json:"user_id"`
	PostID int64  `json:"post_id"`
}

// Tokens issues and verifies anti-forgery tokens for the caption edit form.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer signing with secret (HMAC-SHA256).
// A non-positive ttl selects DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of t reading time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

// Issue returns a token for userID editing postID.
func (t *Tokens) Issue(userID, postID int64) (string, error) {
	now := t.now()
	claims := formClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Action: EditAction,
		UserID: userID,
		PostID: postID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("authz: sign form token: %w", err)
	}
	return signed, nil
}

// Verify checks that token was issued by t for userID editing postID and
// has not expired.
func (t *Tokens) Verify(token string, userID, postID int64) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenMissing
	}
	var parsed formClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if parsed.Action != EditAction || parsed.UserID != userID || parsed.PostID != postID {
		return ErrTokenMismatch
	}
	return nil
}
