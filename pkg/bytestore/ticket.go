package bytestore

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ticket kinds. A ticket authorizes exactly one transfer direction.
const (
	TicketUpload   = "upload"
	TicketDownload = "download"
)

// DefaultTicketTTL bounds how long an issued ticket stays valid.
const DefaultTicketTTL = 15 * time.Minute

// ticketClaims is the JWT payload of a transfer ticket.
type ticketClaims struct {
	DB   string `json:"db"`
	Path string `json:"path"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TicketIssuer mints and verifies signed transfer tickets. The external
// transport layer hands tickets to clients; the core only ever sees the
// ticket string again at commit time.
type TicketIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTicketIssuer creates an issuer with the given HMAC secret. A zero ttl
// falls back to DefaultTicketTTL.
func NewTicketIssuer(secret []byte, ttl time.Duration) *TicketIssuer {
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	return &TicketIssuer{secret: secret, ttl: ttl}
}

// Issue mints a ticket authorizing one transfer against (db, path).
func (t *TicketIssuer) Issue(db, path, kind string) (string, error) {
	now := time.Now()
	claims := ticketClaims{
		DB:   db,
		Path: path,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks a ticket's signature, expiry and kind, returning the
// database and path it was issued for.
func (t *TicketIssuer) Verify(ticket, kind string) (db, path string, err error) {
	var claims ticketClaims
	_, err = jwt.ParseWithClaims(ticket, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	if claims.Kind != kind {
		return "", "", fmt.Errorf("ticket kind %q, want %q", claims.Kind, kind)
	}
	return claims.DB, claims.Path, nil
}
