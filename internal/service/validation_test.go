package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sentiment-web/internal/apperr"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", MsgEmptyText},
		{"whitespace", "   \n\t", MsgEmptyText},
		{"too short", "hi", MsgTextTooShort},
		{"minimum", "hey", ""},
		{"maximum", strings.Repeat("a", MaxTextLength), ""},
		{"too long", strings.Repeat("a", MaxTextLength+1), MsgTextTooLong},
		{"multibyte counted as characters", strings.Repeat("é", MaxTextLength), ""},
		{"short multibyte", "日本", MsgTextTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.IsValidation(err))
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestGuard(t *testing.T) {
	g := NewGuard()

	release, err := g.Acquire("visitor")
	assert.NoError(t, err)
	assert.True(t, g.Busy("visitor"))

	_, err = g.Acquire("visitor")
	assert.ErrorIs(t, err, ErrBusy)

	_, err = g.Acquire("other")
	assert.NoError(t, err)

	release()
	release()
	assert.False(t, g.Busy("visitor"))
	_, err = g.Acquire("visitor")
	assert.NoError(t, err)
}
