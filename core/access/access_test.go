package access

import (
	"context"
	"testing"
)

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if IdentityFromContext(ctx) != "" {
		t.Fatal("identity on a fresh context")
	}
	ctx = ContextWithIdentity(ctx, "gid-1")
	if IdentityFromContext(ctx) != "gid-1" {
		t.Fatal("identity not propagated")
	}
}
