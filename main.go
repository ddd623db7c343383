package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	ginmiddleware "github.com/oapi-codegen/gin-middleware"

	"playerhub/clients/gcp"
	"playerhub/envvars"
	"playerhub/services/auth"
	"playerhub/services/profile"
	"playerhub/validator"
)

func main() {
	env := envvars.GetEvn()
	ctx := context.Background()

	db := gcp.CreateFirestore(ctx, env.ProjectID)
	defer db.Close()

	authService := auth.NewService(resty.New(), auth.NewRemoteKeys(env.JWKSEndpoint), env.IdentityAPIKey)
	profileService := profile.NewService(db, authService)
	server := NewServer(authService, profileService, env.AvatarBucket)

	// Load OpenAPI spec file
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromFile("./api/openapi.yaml")
	if err != nil {
		slog.Error("failed to load openapi spec file")
		return
	}
	// Clear out the servers array in the swagger spec, that skips validating
	// that server names match. We don't know how this thing will be run.
	swagger.Servers = nil

	if envvars.IsProd(env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/openapi", func(c *gin.Context) {
		c.Header("Content-Type", "application/x-yaml")
		c.File("./api/openapi.yaml")
	})

	r.Use(ginmiddleware.OapiRequestValidatorWithOptions(swagger, &ginmiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: validator.Authenticate,
		},
	}))

	r.GET("/ping", server.GetPing)
	r.POST("/login", server.Login)
	r.GET("/users", server.ListUsers)
	r.GET("/users/me", server.GetCurrentUser)
	r.GET("/users/:uid", server.GetUser)
	r.DELETE("/users/:uid", server.DeleteUser)
	r.PUT("/users/:uid/stats", server.UpdateStats)
	r.PATCH("/users/:uid/level", server.UpdateLevel)
	r.POST("/users/:uid/achievements", server.AddAchievement)
	r.POST("/users/:uid/avatar", server.UploadAvatar)
	r.GET("/users/:uid/watch", server.WatchUser)
	r.GET("/leaderboard", server.GetLeaderboard)

	s := &http.Server{
		Handler: r,
		Addr:    "0.0.0.0:" + env.Port,
	}

	slog.Info("Starting HTTP server", "port", env.Port)
	log.Fatal(s.ListenAndServe())
}
