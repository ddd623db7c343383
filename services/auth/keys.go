package auth

import (
	"github.com/lestrrat-go/jwx/jwk"
	"golang.org/x/net/context"
)

// RemoteKeys fetches the provider's JWK set from a JWKS endpoint.
type RemoteKeys struct {
	Endpoint string
}

func NewRemoteKeys(endpoint string) *RemoteKeys {
	return &RemoteKeys{Endpoint: endpoint}
}

func (r *RemoteKeys) Keys(ctx context.Context) (jwk.Set, error) {
	return jwk.Fetch(ctx, r.Endpoint)
}

// StaticKeys serves a fixed JWK set. Used in tests.
type StaticKeys struct {
	Set jwk.Set
}

func (s *StaticKeys) Keys(ctx context.Context) (jwk.Set, error) {
	return s.Set, nil
}
