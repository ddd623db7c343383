package profile

import (
	"reflect"
	"testing"
	"time"

	"playerhub/services/auth"
)

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := auth.Principal{
		ID:            "uid-1",
		Email:         "player@example.com",
		DisplayName:   "Player One",
		EmailVerified: true,
	}

	got := newRecord(p, now)

	if got.UID != p.ID || got.Email != p.Email || got.DisplayName != p.DisplayName {
		t.Errorf("identity fields not taken from principal: %+v", got)
	}
	if !got.IsEmailVerified {
		t.Error("expected isEmailVerified to be true")
	}
	if got.Level != 1 || got.Experience != 0 {
		t.Errorf("expected level=1 experience=0, got level=%d experience=%d", got.Level, got.Experience)
	}
	if len(got.Achievements) != 0 || got.Achievements == nil {
		t.Errorf("expected empty non-nil achievements, got %#v", got.Achievements)
	}
	if !got.CreatedAt.Equal(now) || !got.LastLogin.Equal(now) {
		t.Errorf("expected createdAt == lastLogin == now, got createdAt=%v lastLogin=%v", got.CreatedAt, got.LastLogin)
	}
	if got.Stats != (UserStats{}) {
		t.Errorf("expected zeroed stats, got %+v", got.Stats)
	}
}

func TestNewRecordAnonymous(t *testing.T) {
	now := time.Now()
	got := newRecord(auth.Principal{ID: "anon-1", Anonymous: true}, now)

	if !got.IsAnonymous {
		t.Error("expected isAnonymous to be true")
	}
	if got.DisplayName == "" {
		t.Error("expected a generated placeholder display name")
	}
}

func TestMergePreservesGameplayFields(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	prevLogin := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	existing := UserRecord{
		UID:             "uid-1",
		Email:           "old@example.com",
		DisplayName:     "Old Name",
		IsEmailVerified: false,
		IsAnonymous:     false,
		CreatedAt:       createdAt,
		LastLogin:       prevLogin,
		ProfileImageURL: "https://img.example.com/a.png",
		Level:           7,
		Experience:      420,
		Achievements:    []string{"first_win", "sharpshooter"},
		Stats: UserStats{
			TotalGames: 40,
			TotalWins:  25,
			TotalScore: 9000,
			HighScore:  800,
			Playtime:   360000,
		},
	}
	p := auth.Principal{
		ID:            "uid-1",
		Email:         "new@example.com",
		DisplayName:   "New Name",
		EmailVerified: true,
	}
	now := prevLogin.Add(48 * time.Hour)

	got := merge(existing, p, now)

	if got.Email != "new@example.com" || got.DisplayName != "New Name" || !got.IsEmailVerified {
		t.Errorf("identity fields not refreshed: %+v", got)
	}
	if !got.LastLogin.Equal(now) {
		t.Errorf("lastLogin not refreshed, got %v", got.LastLogin)
	}
	if got.LastLogin.Before(existing.LastLogin) {
		t.Error("lastLogin went backwards")
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("createdAt must never change, got %v", got.CreatedAt)
	}
	if got.Level != 7 || got.Experience != 420 {
		t.Errorf("level/experience clobbered: level=%d experience=%d", got.Level, got.Experience)
	}
	if !reflect.DeepEqual(got.Achievements, existing.Achievements) {
		t.Errorf("achievements clobbered: %#v", got.Achievements)
	}
	if got.Stats != existing.Stats {
		t.Errorf("stats clobbered: %+v", got.Stats)
	}
	if got.ProfileImageURL != existing.ProfileImageURL {
		t.Errorf("profileImageUrl clobbered: %q", got.ProfileImageURL)
	}
}

func TestMergeBlankPrincipalName(t *testing.T) {
	existing := UserRecord{UID: "uid-1", DisplayName: "Keeper", Level: 2}
	got := merge(existing, auth.Principal{ID: "uid-1"}, time.Now())
	if got.DisplayName != "Keeper" {
		t.Errorf("blank principal name should keep stored display name, got %q", got.DisplayName)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    UserRecord
		check func(t *testing.T, r UserRecord)
	}{
		{
			name: "zero level raised to 1",
			in:   UserRecord{UID: "a"},
			check: func(t *testing.T, r UserRecord) {
				if r.Level != 1 {
					t.Errorf("level = %d, want 1", r.Level)
				}
			},
		},
		{
			name: "negative experience zeroed",
			in:   UserRecord{UID: "a", Experience: -5},
			check: func(t *testing.T, r UserRecord) {
				if r.Experience != 0 {
					t.Errorf("experience = %d, want 0", r.Experience)
				}
			},
		},
		{
			name: "nil achievements becomes empty slice",
			in:   UserRecord{UID: "a"},
			check: func(t *testing.T, r UserRecord) {
				if r.Achievements == nil {
					t.Error("achievements is nil")
				}
			},
		},
		{
			name: "valid record untouched",
			in:   UserRecord{UID: "a", Level: 3, Experience: 10, Achievements: []string{"x"}},
			check: func(t *testing.T, r UserRecord) {
				if r.Level != 3 || r.Experience != 10 || len(r.Achievements) != 1 {
					t.Errorf("record changed: %+v", r)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			r.DisplayName = "n"
			r.Normalize()
			tt.check(t, r)
		})
	}
}

func TestSortByHighScore(t *testing.T) {
	records := []UserRecord{
		{UID: "a", Stats: UserStats{HighScore: 10}},
		{UID: "b", Stats: UserStats{HighScore: 50}},
		{UID: "c", Stats: UserStats{HighScore: 30}},
		{UID: "d", Stats: UserStats{HighScore: 90}},
		{UID: "e", Stats: UserStats{HighScore: 20}},
	}

	sortByHighScore(records)

	want := []int64{90, 50, 30, 20, 10}
	for i, score := range want {
		if records[i].Stats.HighScore != score {
			t.Fatalf("position %d: got %d, want %d", i, records[i].Stats.HighScore, score)
		}
	}
}
