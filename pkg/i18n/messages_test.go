package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestDefault_ComponentDoesNotFit(t *testing.T) {
	msg := Default().Get(KeyComponentDoesNotFit, 3, 120, 40)
	assert.Equal(t, "Component 3 does not fit: 120x40", msg)
}

func TestNew_Locales(t *testing.T) {
	tests := []struct {
		locale string
		tag    language.Tag
		want   string
	}{
		{"", language.English, "2 of 5"},
		{"de", language.German, "2 von 5"},
		{"de-AT", language.German, "2 von 5"},
		{"es", language.Spanish, "2 de 5"},
		{"fr", language.English, "2 of 5"},
		{"not a locale", language.English, "2 of 5"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			c := New(tt.locale, nil)
			assert.Equal(t, tt.tag, c.Language())
			assert.Equal(t, tt.want, c.Get(KeyGaugeValue, 2, 5))
		})
	}
}

func TestNew_Overrides(t *testing.T) {
	c := New("en", map[string]string{
		KeyComponentDoesNotFit: "#%d too big (%dx%d)",
		"custom.greeting":      "hello %s",
	})
	assert.Equal(t, "#1 too big (10x20)", c.Get(KeyComponentDoesNotFit, 1, 10, 20))
	assert.Equal(t, "hello ana", c.Get("custom.greeting", "ana"))
}
