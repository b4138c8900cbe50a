package service

import (
	"strings"
	"unicode/utf8"

	"sentiment-web/internal/apperr"
)

const (
	MinTextLength = 3
	MaxTextLength = 1000
)

// ValidateText checks a prediction input before anything is sent. Length is
// counted in characters, not bytes.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.NewValidation("text", MsgEmptyText)
	}
	n := utf8.RuneCountInString(text)
	if n < MinTextLength {
		return apperr.NewValidation("text", MsgTextTooShort)
	}
	if n > MaxTextLength {
		return apperr.NewValidation("text", MsgTextTooLong)
	}
	return nil
}
