// Package scantoken mints and parses the signed tokens embedded in stall
// and student QR codes. Tokens are compact HS256 JWTs, so they are URL-safe.
package scantoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

type Reason string

const (
	ReasonBadSignature Reason = "BadSignature"
	ReasonExpired      Reason = "Expired"
	ReasonMalformed    Reason = "Malformed"
)

var (
	errEmptyKey   = errors.New("scantoken: signing key is empty")
	errInvalidTTL = errors.New("scantoken: ttl must be positive")
	errBadClaims  = errors.New("scantoken: subject kind and purpose do not match")
)

// InvalidError is returned by Parse for every token that must not be honored.
type InvalidError struct {
	Reason Reason
	err    error
}

func (e *InvalidError) Error() string {
	return "scantoken: invalid token: " + string(e.Reason)
}

func (e *InvalidError) Unwrap() error {
	return e.err
}

type claims struct {
	SubjectID   uint               `json:"sid"`
	SubjectKind domain.SubjectKind `json:"skd"`
	EventID     uint               `json:"eid"`
	Purpose     domain.Purpose     `json:"pur"`
	jwt.RegisteredClaims
}

type Codec struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

type Option func(*Codec)

// WithClock replaces time.Now for minting and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(key []byte, opts ...Option) (*Codec, error) {
	if len(key) == 0 {
		return nil, errEmptyKey
	}

	c := &Codec{
		key: append([]byte(nil), key...),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	return c, nil
}

func (c *Codec) Mint(subjectID uint, kind domain.SubjectKind, eventID uint, purpose domain.Purpose, ttl time.Duration) (string, domain.Claims, error) {
	if ttl <= 0 {
		return "", domain.Claims{}, errInvalidTTL
	}
	if !kind.Valid() || kind.Purpose() != purpose {
		return "", domain.Claims{}, errBadClaims
	}

	now := c.now()
	cl := claims{
		SubjectID:   subjectID,
		SubjectKind: kind,
		EventID:     eventID,
		Purpose:     purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.key)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("jwt.SignedString -> %w", err)
	}

	return signed, cl.toDomain(), nil
}

// Parse verifies the signature before anything else; claims of a token with
// a bad signature are never returned. Failures are *InvalidError.
func (c *Codec) Parse(raw string) (domain.Claims, error) {
	cl := &claims{}
	if _, err := c.parser.ParseWithClaims(raw, cl, c.keyFunc); err != nil {
		return domain.Claims{}, classify(err)
	}

	if cl.IssuedAt == nil || !cl.SubjectKind.Valid() || cl.SubjectKind.Purpose() != cl.Purpose {
		return domain.Claims{}, &InvalidError{Reason: ReasonMalformed, err: errBadClaims}
	}

	return cl.toDomain(), nil
}

func (c *Codec) keyFunc(*jwt.Token) (interface{}, error) {
	return c.key, nil
}

func classify(err error) *InvalidError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return &InvalidError{Reason: ReasonMalformed, err: err}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return &InvalidError{Reason: ReasonBadSignature, err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &InvalidError{Reason: ReasonExpired, err: err}
	default:
		return &InvalidError{Reason: ReasonMalformed, err: err}
	}
}

func (c claims) toDomain() domain.Claims {
	out := domain.Claims{
		TokenID:     c.ID,
		SubjectID:   c.SubjectID,
		SubjectKind: c.SubjectKind,
		EventID:     c.EventID,
		Purpose:     c.Purpose,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}
