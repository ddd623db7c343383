package auth

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"

	"playerhub/validator"
)

// Principal is the authenticated identity supplied by the identity provider.
type Principal struct {
	ID            string
	Email         string
	DisplayName   string
	EmailVerified bool
	Anonymous     bool
}

type Service interface {
	// CurrentPrincipal resolves the caller's principal from the bearer
	// token the validator middleware placed on the context.
	CurrentPrincipal(ctx context.Context) (*Principal, error)
	// Verify checks a raw ID token against the provider's signing keys
	// and maps its claims onto a Principal.
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// KeySource supplies the JWK set used to verify ID token signatures.
type KeySource interface {
	Keys(ctx context.Context) (jwk.Set, error)
}

var (
	ErrNoPrincipal  = errors.New("no authenticated principal")
	ErrInvalidToken = errors.New("invalid id token")
)

type service struct {
	http   *resty.Client
	keys   KeySource
	apiKey string
}

var _ Service = (*service)(nil)

// NewService builds the identity provider collaborator. apiKey is the
// identity-toolkit web API key; when empty the accounts:lookup
// enrichment step is skipped.
func NewService(client *resty.Client, keys KeySource, apiKey string) Service {
	return &service{
		http:   client,
		keys:   keys,
		apiKey: apiKey,
	}
}

func (s *service) CurrentPrincipal(ctx context.Context) (*Principal, error) {
	access, ok := validator.FromContext(ctx)
	if !ok || access.AccessToken == "" {
		return nil, ErrNoPrincipal
	}
	return s.Verify(ctx, access.AccessToken)
}

func (s *service) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	keys, err := s.keys.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching signing keys: %w", err)
	}
	token, err := jwt.Parse([]byte(rawToken), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	p := principalFromToken(token)
	if p.ID == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	if p.DisplayName == "" && s.apiKey != "" {
		s.enrich(ctx, rawToken, &p)
	}
	return &p, nil
}

func principalFromToken(token jwt.Token) Principal {
	p := Principal{ID: token.Subject()}
	if v, ok := token.Get("email"); ok {
		p.Email, _ = v.(string)
	}
	if v, ok := token.Get("email_verified"); ok {
		p.EmailVerified, _ = v.(bool)
	}
	if v, ok := token.Get("name"); ok {
		p.DisplayName, _ = v.(string)
	}
	if v, ok := token.Get("firebase"); ok {
		if m, ok := v.(map[string]interface{}); ok {
			if provider, ok := m["sign_in_provider"].(string); ok {
				p.Anonymous = provider == "anonymous"
			}
		}
	}
	return p
}

type lookupResponse struct {
	Users []struct {
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
	} `json:"users"`
}

const lookupEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:lookup"

// enrich asks the identity-toolkit REST API for profile attributes the
// token itself doesn't carry. Failures are logged and tolerated.
func (s *service) enrich(ctx context.Context, rawToken string, p *Principal) {
	response := &lookupResponse{}
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(map[string]string{"idToken": rawToken}).
		SetResult(response).
		Post(lookupEndpoint)
	if err != nil {
		log.Warn().Err(err).Str("uid", p.ID).Msg("account lookup failed")
		return
	}
	if resp.IsError() {
		log.Warn().Int("status", resp.StatusCode()).Str("uid", p.ID).Msg("account lookup rejected")
		return
	}
	if len(response.Users) == 0 {
		return
	}
	if response.Users[0].DisplayName != "" {
		p.DisplayName = response.Users[0].DisplayName
	}
}
