package api

import (
	"playerhub/services/profile"
	"playerhub/utils"
)

func ToUser(rec profile.UserRecord) User {
	u := User{
		Uid:             rec.UID,
		Email:           rec.Email,
		DisplayName:     rec.DisplayName,
		IsEmailVerified: rec.IsEmailVerified,
		IsAnonymous:     rec.IsAnonymous,
		CreatedAt:       rec.CreatedAt,
		LastLogin:       rec.LastLogin,
		Level:           rec.Level,
		Experience:      rec.Experience,
		Achievements:    rec.Achievements,
		Stats:           ToUserStats(rec.Stats),
	}
	if u.Achievements == nil {
		u.Achievements = []string{}
	}
	if rec.ProfileImageURL != "" {
		u.ProfileImageUrl = utils.ToPointer(rec.ProfileImageURL)
	}
	return u
}

func ToUsers(records []profile.UserRecord) []User {
	users := make([]User, 0, len(records))
	for _, rec := range records {
		users = append(users, ToUser(rec))
	}
	return users
}

func ToUserStats(stats profile.UserStats) UserStats {
	s := UserStats{
		TotalGames:  stats.TotalGames,
		TotalWins:   stats.TotalWins,
		TotalLosses: stats.TotalLosses,
		TotalScore:  stats.TotalScore,
		HighScore:   stats.HighScore,
		Playtime:    stats.Playtime,
	}
	if stats.FavoriteCategory != "" {
		s.FavoriteCategory = utils.ToPointer(stats.FavoriteCategory)
	}
	return s
}

func FromUserStats(stats UserStats) profile.UserStats {
	s := profile.UserStats{
		TotalGames:  stats.TotalGames,
		TotalWins:   stats.TotalWins,
		TotalLosses: stats.TotalLosses,
		TotalScore:  stats.TotalScore,
		HighScore:   stats.HighScore,
		Playtime:    stats.Playtime,
	}
	if stats.FavoriteCategory != nil {
		s.FavoriteCategory = *stats.FavoriteCategory
	}
	return s
}
