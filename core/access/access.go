/*Package access provides bearer credential verification and identity
propagation for the request context.
*/
package access

import (
	"context"
	"strings"
)

// contextKey is the type for context keys. Go linter does not like plain strings
type contextKey string

const (
	contextKeyIdentity contextKey = "_identity_"
)

// Claims is the identity information extracted from a verified token.
type Claims struct {
	// Subject is the stable identifier the issuer assigns to the end user
	Subject string
	Email   string
	Name    string
}

// Verifier validates a bearer token against an identity provider and returns
// the verified claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// TokenFromAuthorizationHeader extracts the credential from an Authorization
// header of the form "scheme token". It returns false if the header is absent
// or is not exactly two space-separated parts.
func TokenFromAuthorizationHeader(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ContextWithIdentity returns a new context with the given identity added to it
func ContextWithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, identity)
}

// IdentityFromContext retrieves the identity from the context
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(contextKeyIdentity).(string)
	return identity
}
