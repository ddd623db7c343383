package envvars

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	ProjectID      = "GCP_PROJECT_ID"
	Environment    = "ENVIRONMENT"
	Port           = "PORT"
	AvatarBucket   = "AVATAR_BUCKET"
	JWKSEndpoint   = "JWKS_ENDPOINT"
	IdentityAPIKey = "IDENTITY_API_KEY"
)

const (
	ProductionEnv = "production"
	DevEnv        = "dev"
)

// Google publishes the securetoken signing keys here; override for
// other identity providers or emulators.
const defaultJWKSEndpoint = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

type Env struct {
	ProjectID      string
	Environment    string
	Port           string
	AvatarBucket   string
	JWKSEndpoint   string
	IdentityAPIKey string
}

func GetEvn() Env {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	projectID, ok := os.LookupEnv(ProjectID)
	if !ok {
		log.Fatalf("%s required", ProjectID)
	}
	environment, ok := os.LookupEnv(Environment)
	if !ok {
		environment = DevEnv
	}
	port, ok := os.LookupEnv(Port)
	if !ok {
		port = "8080"
	}
	bucket, ok := os.LookupEnv(AvatarBucket)
	if !ok {
		bucket = "playerhub-avatars"
	}
	jwks, ok := os.LookupEnv(JWKSEndpoint)
	if !ok {
		jwks = defaultJWKSEndpoint
	}
	apiKey := os.Getenv(IdentityAPIKey)

	return Env{
		ProjectID:      projectID,
		Environment:    environment,
		Port:           port,
		AvatarBucket:   bucket,
		JWKSEndpoint:   jwks,
		IdentityAPIKey: apiKey,
	}
}

func IsProd(e Env) bool {
	return e.Environment == ProductionEnv
}

func IsDev(e Env) bool {
	return e.Environment == DevEnv
}
