package logger

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")

	out := sanitizeKVs([]interface{}{
		"user_id", "user-123",
		"access_token", "abc",
		"place", "Le Marais",
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	hashed, _ := out[1].(string)
	if !strings.HasPrefix(hashed, "hash:") || strings.Contains(hashed, "user-123") {
		t.Fatalf("user_id not hashed: %q", hashed)
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("access_token not redacted: %v", out[3])
	}
	if out[5] != "Le Marais" {
		t.Fatalf("place changed: %v", out[5])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"kind", "search", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestSanitizeKVsTruncatesLongStrings(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")

	long := strings.Repeat("é", maxValueLen)
	out := sanitizeKVs([]interface{}{"output", long})
	got, _ := out[1].(string)
	if len(got) >= len(long) || !strings.Contains(got, "bytes truncated") {
		t.Fatalf("not truncated: len=%d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune")
	}
}
