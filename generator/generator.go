package generator

import (
	"fmt"
	"math/rand"
	"time"
)

// GuestName generates a placeholder display name for principals that
// arrive without one (anonymous sign-ins, providers that omit the name
// claim). Two random words plus a short number keep placeholders
// distinguishable from each other.
func GuestName() string {
	adjectives := []string{
		"Brave", "Swift", "Silent", "Lucky", "Fierce",
		"Clever", "Bold", "Rapid", "Calm", "Wild",
		"Sharp", "Steady", "Daring", "Nimble", "Patient",
	}
	nouns := []string{
		"Player", "Challenger", "Strategist", "Rookie", "Veteran",
		"Contender", "Pathfinder", "Tactician", "Wanderer", "Scout",
		"Pioneer", "Drifter", "Maverick", "Seeker", "Ranger",
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	adj := adjectives[r.Intn(len(adjectives))]
	noun := nouns[r.Intn(len(nouns))]

	return fmt.Sprintf("%s %s %02d", adj, noun, r.Intn(100))
}
