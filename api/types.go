package api

import "time"

// User is the wire shape of a stored user record.
type User struct {
	Uid             string    `json:"uid"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"displayName"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	IsAnonymous     bool      `json:"isAnonymous"`
	CreatedAt       time.Time `json:"createdAt"`
	LastLogin       time.Time `json:"lastLogin"`
	ProfileImageUrl *string   `json:"profileImageUrl,omitempty"`
	Level           int       `json:"level"`
	Experience      int       `json:"experience"`
	Achievements    []string  `json:"achievements"`
	Stats           UserStats `json:"stats"`
}

type UserStats struct {
	TotalGames       int     `json:"totalGames"`
	TotalWins        int     `json:"totalWins"`
	TotalLosses      int     `json:"totalLosses"`
	TotalScore       int64   `json:"totalScore"`
	HighScore        int64   `json:"highScore"`
	Playtime         int64   `json:"playtime"`
	FavoriteCategory *string `json:"favoriteCategory,omitempty"`
}

type UpdateLevelRequest struct {
	Level      int `json:"level"`
	Experience int `json:"experience"`
}

type AddAchievementRequest struct {
	Achievement string `json:"achievement"`
}

type Leaderboard struct {
	Users []User `json:"users"`
}

type AvatarResponse struct {
	ProfileImageUrl string `json:"profileImageUrl"`
}

type Pong struct {
	Ping string `json:"ping"`
}

type Error struct {
	Message string `json:"message"`
}
