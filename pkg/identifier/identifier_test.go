package identifier

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
)

func TestGenerateShape(t *testing.T) {
	id, err := Generate(context.Background(), OrderPrefix, func(ctx context.Context, id string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("Generate returned unexpected error: %v", err)
	}
	if !strings.HasPrefix(id, OrderPrefix) {
		t.Fatalf("expected %q prefix, got %q", OrderPrefix, id)
	}
	if len(id) != len(OrderPrefix)+6 {
		t.Fatalf("expected 6-character suffix, got %q", id)
	}
	for _, r := range id[len(OrderPrefix):] {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("suffix contains unexpected character %q in %q", r, id)
		}
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	id, err := Generate(context.Background(), LineItemPrefix, func(ctx context.Context, id string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatalf("Generate returned unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 existence checks, got %d", calls)
	}
	if !strings.HasPrefix(id, LineItemPrefix) {
		t.Fatalf("expected %q prefix, got %q", LineItemPrefix, id)
	}
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	_, err := Generate(context.Background(), OrderPrefix, func(ctx context.Context, id string) (bool, error) {
		return true, nil
	})
	if err == nil {
		t.Fatal("expected exhaustion to return an error")
	}
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict code, got %v", err)
	}
}
