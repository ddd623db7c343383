package validator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	middleware "github.com/oapi-codegen/gin-middleware"
)

type key string

const accessToken key = "access_info"

type Access struct {
	AccessToken string
}

func FromContext(ctx context.Context) (*Access, bool) {
	t, ok := ctx.Value(string(accessToken)).(*Access)
	return t, ok
}

var (
	ErrNoAuthHeader      = errors.New("Authorization header is missing")
	ErrInvalidAuthHeader = errors.New("Authorization header is malformed")
)

// GetJWSFromRequest extracts a JWS string from an Authorization: Bearer <jws> header
func GetJWSFromRequest(req *http.Request) (string, error) {
	authHdr := req.Header.Get("Authorization")
	// Check for the Authorization header.
	if authHdr == "" {
		return "", ErrNoAuthHeader
	}
	// We expect a header value of the form "Bearer <token>", with 1 space after
	// Bearer, per spec.
	prefix := "Bearer "
	if !strings.HasPrefix(authHdr, prefix) {
		return "", ErrInvalidAuthHeader
	}
	return strings.TrimPrefix(authHdr, prefix), nil
}

// Authenticate pulls the bearer token off the request and stashes it on
// the gin context so handlers can resolve the caller's principal.
// Signature verification happens in the auth service, which owns the
// provider's signing keys.
func Authenticate(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	if input.SecuritySchemeName != "bearerAuth" {
		return fmt.Errorf("security scheme %s != 'bearerAuth'", input.SecuritySchemeName)
	}

	jws, err := GetJWSFromRequest(input.RequestValidationInput.Request)
	if err != nil {
		return fmt.Errorf("getting jws: %w", err)
	}

	ac := Access{AccessToken: jws}
	eCtx := middleware.GetGinContext(ctx)
	eCtx.Set(string(accessToken), &ac)

	return nil
}
