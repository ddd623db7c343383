package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"

	"playerhub/api"
	"playerhub/clients/gcp"
	"playerhub/services/auth"
	"playerhub/services/profile"
)

type Server struct {
	AuthService    auth.Service
	ProfileService profile.Service
	AvatarBucket   string
}

func NewServer(authService auth.Service, profileService profile.Service, avatarBucket string) Server {
	return Server{
		AuthService:    authService,
		ProfileService: profileService,
		AvatarBucket:   avatarBucket,
	}
}

func (s Server) GetPing(c *gin.Context) {
	c.JSON(http.StatusOK, api.Pong{Ping: "pong"})
}

// Login verifies the caller's token and reconciles their stored record.
func (s Server) Login(c *gin.Context) {
	p, err := s.AuthService.CurrentPrincipal(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rec, err := s.ProfileService.Reconcile(c, *p)
	if err != nil {
		slog.With("error", err.Error()).Error("Failed to reconcile user record")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ToUser(*rec))
}

func (s Server) GetCurrentUser(c *gin.Context) {
	rec, err := s.ProfileService.GetCurrent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ToUser(*rec))
}

func (s Server) GetUser(c *gin.Context) {
	rec, err := s.ProfileService.GetByID(c, c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ToUser(*rec))
}

func (s Server) ListUsers(c *gin.Context) {
	records, err := s.ProfileService.All(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ToUsers(records))
}

func (s Server) UpdateStats(c *gin.Context) {
	var body api.UserStats
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Message: "invalid stats payload"})
		return
	}
	if err := s.ProfileService.UpdateStats(c, c.Param("uid"), api.FromUserStats(body)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) UpdateLevel(c *gin.Context) {
	var body api.UpdateLevelRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Message: "invalid level payload"})
		return
	}
	if err := s.ProfileService.UpdateLevel(c, c.Param("uid"), body.Level, body.Experience); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) AddAchievement(c *gin.Context) {
	var body api.AddAchievementRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Message: "invalid achievement payload"})
		return
	}
	if err := s.ProfileService.AddAchievement(c, c.Param("uid"), body.Achievement); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) DeleteUser(c *gin.Context) {
	if err := s.ProfileService.Delete(c, c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.Error{Message: "invalid limit"})
			return
		}
		limit = parsed
	}
	records, err := s.ProfileService.TopByScore(c, limit)
	if err != nil {
		slog.With("error", err.Error()).Error("Failed to fetch leaderboard")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.Leaderboard{Users: api.ToUsers(records)})
}

func (s Server) UploadAvatar(c *gin.Context) {
	uid := c.Param("uid")
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Message: "avatar file is required"})
		return
	}
	defer file.Close()

	objectName := fmt.Sprintf("avatars/%s%s", uid, path.Ext(header.Filename))
	url, err := gcp.UploadObject(c, s.AvatarBucket, objectName, file, header.Header.Get("Content-Type"))
	if err != nil {
		slog.With("error", err.Error()).Error("Failed to upload avatar")
		respondError(c, err)
		return
	}
	if err := s.ProfileService.SetAvatarURL(c, uid, url); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.AvatarResponse{ProfileImageUrl: url})
}

// WatchUser bridges the record subscription onto a server-sent event
// stream. A null data payload means the record is absent, or unknown
// after a transport error.
func (s Server) WatchUser(c *gin.Context) {
	uid := c.Param("uid")
	changes := make(chan *api.User, 16)

	sub, err := s.ProfileService.Watch(c.Request.Context(), uid, func(rec *profile.UserRecord) {
		var u *api.User
		if rec != nil {
			converted := api.ToUser(*rec)
			u = &converted
		}
		// Drop rather than block: a stalled consumer must not wedge the
		// subscription goroutine.
		select {
		case changes <- u:
		default:
		}
	}, func(err error) {
		slog.With("error", err.Error(), "uid", uid).Error("User watch failed")
	})
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case u := <-changes:
			c.SSEvent("user", u)
			return true
		case <-sub.Done():
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrNoPrincipal), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, api.Error{Message: "unauthenticated"})
	case errors.Is(err, profile.ErrNotFound):
		c.JSON(http.StatusNotFound, api.Error{Message: "user not found"})
	case errors.Is(err, profile.ErrMalformed):
		c.JSON(http.StatusInternalServerError, api.Error{Message: "stored record is malformed"})
	default:
		slog.With("error", err.Error()).Error("Request failed")
		c.JSON(http.StatusBadGateway, api.Error{Message: "storage failure"})
	}
}
