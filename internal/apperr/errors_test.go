package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorIs_MatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("read note", "a.md"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Error("expected ErrFileNotFound match")
	}
	if errors.Is(err, ErrIO) {
		t.Error("file-not-found must not match ErrIO")
	}
}

func TestErrorUnwrap_ReachesCause(t *testing.T) {
	err := IO("delete note", "gone.md", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("cause should be reachable")
	}
	if !errors.Is(err, ErrIO) {
		t.Error("expected ErrIO match")
	}
}

func TestErrorMessage(t *testing.T) {
	err := IO("write note", "x.md", errors.New("disk full"))
	got := err.Error()
	for _, want := range []string{"write note", "io error", "x.md", "disk full"} {
		if !strings.Contains(got, want) {
			t.Errorf("message %q missing %q", got, want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(Vault("open", "missing %s", "/x")); k != KindVault {
		t.Errorf("kind = %v, want %v", k, KindVault)
	}
	if k := KindOf(errors.New("plain")); k != KindUnknown {
		t.Errorf("kind = %v, want %v", k, KindUnknown)
	}
}
