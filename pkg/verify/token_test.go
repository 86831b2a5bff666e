package verify

import (
	"errors"
	"testing"
	"time"
)

func TestJWTVerifier(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	verifier := NewJWTVerifier([]byte("test-secret"))

	valid, err := verifier.IssueToken(now.Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := verifier.Verify(valid, now); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}

	expired, err := verifier.IssueToken(now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := verifier.Verify(expired, now); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token: got %v, want ErrTokenExpired", err)
	}

	if err := verifier.Verify("", now); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("blank token: got %v, want ErrTokenMissing", err)
	}
	if err := verifier.Verify("  ", now); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("whitespace token: got %v, want ErrTokenMissing", err)
	}
	if err := verifier.Verify("not.a.jwt", now); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("garbage token: got %v, want ErrTokenMalformed", err)
	}

	// A token signed with a different secret must not verify.
	other := NewJWTVerifier([]byte("other-secret"))
	foreign, err := other.IssueToken(now.Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := verifier.Verify(foreign, now); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("wrong-signature token: got %v, want ErrTokenMalformed", err)
	}
}

func TestVerifierFunc(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("nope")
	fn := VerifierFunc(func(token string, now time.Time) error {
		if token == "good" {
			return nil
		}
		return sentinel
	})
	if err := fn.Verify("good", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fn.Verify("bad", time.Now()); !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want sentinel", err)
	}
}
