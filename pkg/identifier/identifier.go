package identifier

import (
	"context"
	"crypto/rand"
	"fmt"

	apperrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
)

const (
	// OrderPrefix marks purchase order numbers.
	OrderPrefix = "BC-"
	// LineItemPrefix marks line item ids.
	LineItemPrefix = "PST-"

	suffixLen   = 6
	maxAttempts = 10

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ExistsFunc reports whether a candidate id is already taken.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Generate produces a prefixed id with a random 6-character suffix,
// retrying on collision until maxAttempts is exhausted.
func Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := random(prefix)
		if err != nil {
			return "", apperrors.Wrap(apperrors.CodeInternal, err, "generating id")
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperrors.New(apperrors.CodeConflict, fmt.Sprintf("could not allocate a unique %s id", prefix))
}

func random(prefix string) (string, error) {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return prefix + string(buf), nil
}
