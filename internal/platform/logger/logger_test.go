package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"token", "abc",
		"Authorization", "Bearer abc",
		"username", "alice",
		"title", "Clean Code",
		"dangling",
	})
	if len(got) != 9 {
		t.Fatalf("unexpected length: %d", len(got))
	}
	if got[1] != "[REDACTED]" || got[3] != "[REDACTED]" {
		t.Fatalf("secrets not redacted: %v", got)
	}
	if s, _ := got[5].(string); len(s) != len("hash:")+12 {
		t.Fatalf("username not hashed: %v", got[5])
	}
	if got[7] != "Clean Code" {
		t.Fatalf("plain value altered: %v", got[7])
	}
	if got[8] != "dangling" {
		t.Fatalf("dangling key dropped: %v", got)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig") {
		t.Fatalf("expected jwt to be detected")
	}
	if looksLikeJWT("a.b.c") {
		t.Fatalf("short dotted string is not a jwt")
	}
}
