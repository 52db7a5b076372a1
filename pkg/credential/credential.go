// pkg/credential/credential.go
package credential

import (
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"shopbridge/pkg/faults"
)

// TTL is the fixed lifetime of a scoped credential. Tokens are minted per
// dispatch and never persisted or reused across requests.
const TTL = 5 * time.Minute

// RoleClaim is the fixed role asserted towards the job functions.
const RoleClaim = "admin"

// Minter issues short-lived HS256 tokens scoped to a single tenant. The
// signing secret is process-wide configuration, never request-derived.
type Minter struct {
	secret []byte
	now    func() time.Time
}

// NewMinter builds a minter, failing with a configuration fault when the
// secret is absent. Callers treat that as fatal at startup.
func NewMinter(secret string) (*Minter, error) {
	if secret == "" {
		return nil, &faults.Fault{
			Type:            faults.ConfigurationError,
			Status:          http.StatusInternalServerError,
			Message:         "credential signing secret is not configured",
			Troubleshooting: "set CREDENTIAL_SIGNING_SECRET before starting the service",
		}
	}
	return &Minter{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the time source. Test hook.
func (m *Minter) WithClock(now func() time.Time) *Minter {
	m.now = now
	return m
}

// Mint signs {sub: tenantID, role: "admin"} with iat=now and exp=now+TTL.
// The tenant id must already be validated; the minter trusts its caller.
func (m *Minter) Mint(tenantID string) (string, error) {
	now := m.now().UTC()
	tok, err := jwt.NewBuilder().
		Subject(tenantID).
		Claim("role", RoleClaim).
		IssuedAt(now).
		Expiration(now.Add(TTL)).
		Build()
	if err != nil {
		return "", &faults.Fault{Type: faults.Unknown, Status: http.StatusInternalServerError, Message: "could not build credential"}
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", &faults.Fault{Type: faults.Unknown, Status: http.StatusInternalServerError, Message: "could not sign credential"}
	}
	return string(signed), nil
}

// Verify parses and validates a minted credential against the same secret,
// honoring the minter's clock. Used by tests and local tooling; the job
// functions run their own verifier.
func (m *Minter) Verify(raw string) (jwt.Token, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return nil, err
	}
	return tok, nil
}
