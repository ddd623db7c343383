package profile

import (
	"time"

	"playerhub/generator"
	"playerhub/services/auth"
)

// UserRecord is the authoritative per-user document stored in the
// users collection, keyed by the identity provider's uid.
type UserRecord struct {
	UID             string    `json:"uid" firestore:"uid"`
	Email           string    `json:"email" firestore:"email"`
	DisplayName     string    `json:"displayName" firestore:"displayName"`
	IsEmailVerified bool      `json:"isEmailVerified" firestore:"isEmailVerified"`
	IsAnonymous     bool      `json:"isAnonymous" firestore:"isAnonymous"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	LastLogin       time.Time `json:"lastLogin" firestore:"lastLogin"`
	ProfileImageURL string    `json:"profileImageUrl" firestore:"profileImageUrl"`
	Level           int       `json:"level" firestore:"level"`
	Experience      int       `json:"experience" firestore:"experience"`
	Achievements    []string  `json:"achievements" firestore:"achievements"`
	Stats           UserStats `json:"stats" firestore:"stats"`
}

// UserStats is the gameplay aggregate embedded in a UserRecord.
// TotalScore and HighScore are int64 so a long play history can't overflow them.
type UserStats struct {
	TotalGames       int    `json:"totalGames" firestore:"totalGames"`
	TotalWins        int    `json:"totalWins" firestore:"totalWins"`
	TotalLosses      int    `json:"totalLosses" firestore:"totalLosses"`
	TotalScore       int64  `json:"totalScore" firestore:"totalScore"`
	HighScore        int64  `json:"highScore" firestore:"highScore"`
	Playtime         int64  `json:"playtime" firestore:"playtime"` // milliseconds
	FavoriteCategory string `json:"favoriteCategory" firestore:"favoriteCategory"`
}

// newRecord builds a fresh record for a principal seen for the first time.
func newRecord(p auth.Principal, now time.Time) UserRecord {
	name := p.DisplayName
	if name == "" {
		name = generator.GuestName()
	}
	return UserRecord{
		UID:             p.ID,
		Email:           p.Email,
		DisplayName:     name,
		IsEmailVerified: p.EmailVerified,
		IsAnonymous:     p.Anonymous,
		CreatedAt:       now,
		LastLogin:       now,
		Level:           1,
		Experience:      0,
		Achievements:    []string{},
		Stats:           UserStats{},
	}
}

// merge refreshes the identity fields of an existing record from the
// principal while carrying every gameplay field over untouched.
// CreatedAt, IsAnonymous and ProfileImageURL stay as stored.
func merge(existing UserRecord, p auth.Principal, now time.Time) UserRecord {
	out := existing
	out.UID = p.ID
	out.Email = p.Email
	out.IsEmailVerified = p.EmailVerified
	out.LastLogin = now
	if p.DisplayName != "" {
		out.DisplayName = p.DisplayName
	} else if out.DisplayName == "" {
		out.DisplayName = generator.GuestName()
	}
	return out
}

// Normalize fills defaults so a partially-absent document still reads
// as a valid record.
func (r *UserRecord) Normalize() {
	if r.Level < 1 {
		r.Level = 1
	}
	if r.Experience < 0 {
		r.Experience = 0
	}
	if r.Achievements == nil {
		r.Achievements = []string{}
	}
	if r.DisplayName == "" {
		r.DisplayName = generator.GuestName()
	}
}
