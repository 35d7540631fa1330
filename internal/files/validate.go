package files

import (
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
)

// MaxUploadBytes caps proof uploads at 10 MiB.
const MaxUploadBytes = 10 << 20

// Input is an uploaded document before validation.
type Input struct {
	Name        string
	ContentType string
	Content     []byte
}

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg": {},
	"image/png":  {},
}

// Validate checks the upload against the size ceiling and the accepted
// document types. The error carries the allowed types for the client.
func Validate(input Input) error {
	if len(input.Content) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}
	if len(input.Content) > MaxUploadBytes {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d MiB limit", MaxUploadBytes>>20))
	}

	contentType := normalizeContentType(input.ContentType)
	if _, ok := allowedContentTypes[contentType]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported file type %q", input.ContentType)).
			WithDetails(map[string]any{"allowed": allowedTypeList()})
	}
	return nil
}

func normalizeContentType(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return value
}

func allowedTypeList() []string {
	list := make([]string, 0, len(allowedContentTypes))
	for value := range allowedContentTypes {
		list = append(list, value)
	}
	sort.Strings(list)
	return list
}
