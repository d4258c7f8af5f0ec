package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"testing"
)

var udiPattern = regexp.MustCompile(`^UDI-[0-9A-F]{4}-EE2101-2025-2$`)

func TestHashIsStable(t *testing.T) {
	a := Hash("u1", "EE2101", "2025", "2", "salt-a")
	b := Hash("u1", "EE2101", "2025", "2", "salt-a")
	if a != b {
		t.Fatalf("hash not deterministic: %q vs %q", a, b)
	}
	if !udiPattern.MatchString(a) {
		t.Fatalf("unexpected label shape: %q", a)
	}
}

func TestHashMatchesDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("u1:EE2101:2025:2:salt-a"))
	want := "UDI-" + strings.ToUpper(hex.EncodeToString(sum[:])[:4]) + "-EE2101-2025-2"
	if got := Hash("u1", "EE2101", "2025", "2", "salt-a"); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestHashYearKeepsOnlyDigits(t *testing.T) {
	got := Hash("u1", "EE2101", "AY2024/25", "1", "s")
	if !strings.HasSuffix(got, "-EE2101-202425-1") {
		t.Fatalf("year not normalized: %q", got)
	}
}

func TestSaltRotationChangesHash(t *testing.T) {
	seen := map[string]bool{}
	for _, salt := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"} {
		seen[Hash("u1", "EE2101", "2025", "2", salt)] = true
	}
	if len(seen) < 2 {
		t.Fatalf("salt has no effect on the label")
	}
}

func TestEmptySaltUsesDefault(t *testing.T) {
	if Hash("u1", "EE2101", "2025", "2", "") != Hash("u1", "EE2101", "2025", "2", DefaultSalt) {
		t.Fatalf("empty salt should use the default")
	}
	h := NewHasher("x")
	if h.Hash("u1", "EE2101", "2025", "2") != Hash("u1", "EE2101", "2025", "2", "x") {
		t.Fatalf("hasher salt not applied")
	}
}
