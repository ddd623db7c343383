package generator

import (
	"strings"
	"testing"
)

func TestGuestName(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := GuestName()
		if name == "" {
			t.Fatal("GuestName() returned an empty string")
		}
		if len(strings.Fields(name)) != 3 {
			t.Fatalf("GuestName() = %q, want adjective + noun + number", name)
		}
	}
}
