package receipts

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidShareToken = errors.New("invalid share token")

// ShareTokenIssuer signs and verifies the tokens embedded in public receipt
// links. A link grants read access to exactly one receipt.
type ShareTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type shareClaims struct {
	ReceiptID string `json:"rid"`
	jwt.RegisteredClaims
}

// NewShareTokenIssuer constructs an issuer with the given signing secret.
func NewShareTokenIssuer(secret string, ttl time.Duration) *ShareTokenIssuer {
	return &ShareTokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithNow overrides the issuer clock for testing.
func (i *ShareTokenIssuer) WithNow(fn func() time.Time) {
	if fn != nil {
		i.now = fn
	}
}

// Issue creates a signed token for the receipt.
func (i *ShareTokenIssuer) Issue(receiptID uuid.UUID) (string, error) {
	now := i.now()
	claims := shareClaims{
		ReceiptID: receiptID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "receiptly",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the receipt it grants access to.
func (i *ShareTokenIssuer) Verify(token string) (uuid.UUID, error) {
	var claims shareClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidShareToken
	}
	id, err := uuid.Parse(claims.ReceiptID)
	if err != nil {
		return uuid.Nil, ErrInvalidShareToken
	}
	return id, nil
}
