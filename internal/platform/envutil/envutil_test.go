package envutil

import (
	"testing"
	"time"
)

func TestReaders(t *testing.T) {
	t.Setenv("CS_STR", "  value ")
	t.Setenv("CS_INT", "12")
	t.Setenv("CS_BAD_INT", "twelve")
	t.Setenv("CS_BOOL", "on")
	t.Setenv("CS_SECS", "0")

	if got := String("CS_STR", "def"); got != "value" {
		t.Fatalf("String: got %q", got)
	}
	if got := String("CS_MISSING", "def"); got != "def" {
		t.Fatalf("String default: got %q", got)
	}
	if got := Int("CS_INT", 1); got != 12 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Int("CS_BAD_INT", 3); got != 3 {
		t.Fatalf("Int fallback: got %d", got)
	}
	if !Bool("CS_BOOL", false) {
		t.Fatalf("Bool: want true")
	}
	if got := Seconds("CS_SECS", 5*time.Second); got != 5*time.Second {
		t.Fatalf("Seconds fallback: got %s", got)
	}
}
