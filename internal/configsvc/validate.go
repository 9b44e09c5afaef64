package configsvc

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validationMessages = map[string]string{
	"required": "is required",
	"oneof":    "must be one of %s",
	"min":      "must be at least %s",
}

// newValidator checks only the fields the daemon acts on: export scope,
// schedule types, and template selection. Everything else is the client's
// business.
func newValidator() *validator.Validate {
	return validator.New()
}

// formatValidationErrors renders every field error as "<namespace> <message>".
func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		if strings.Contains(msg, "%s") {
			msg = strings.Replace(msg, "%s", fe.Param(), 1)
		}
		parts = append(parts, fieldPath(fe.Namespace())+" "+msg)
	}
	return strings.Join(parts, ", ")
}

// fieldPath drops the root type name and lowercases the first letter of
// each segment: "Document.Channel.Name" becomes "channel.name".
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	for i, s := range segments {
		if s != "" {
			segments[i] = strings.ToLower(s[:1]) + s[1:]
		}
	}
	return strings.Join(segments, ".")
}
