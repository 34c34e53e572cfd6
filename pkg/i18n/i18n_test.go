package i18n

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestLocalizerFallbacks(t *testing.T) {
	assert.Equal(t, nil, LoadEmbedded())

	tr := NewLocalizer("tr")
	assert.Equal(t, "Takip edilemedi. Lütfen tekrar dene.", tr.T("notice.follow"))
	assert.Equal(t, "missing.key", tr.T("missing.key"))

	de := NewLocalizer("de")
	assert.Equal(t, DefaultLanguage, de.Lang())
	assert.Equal(t, "Couldn't unfollow. Please try again.", de.T("notice.unfollow"))

	assert.Equal(t, "Biraz yavaşla, 30 saniye sonra tekrar dene.",
		tr.TWithParams("cli.rateLimited", map[string]string{"seconds": "30"}))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "tr", DetectLanguage("tr_TR.UTF-8"))
	assert.Equal(t, "tr", DetectLanguage("de-DE,tr;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", DetectLanguage("C"))
	assert.Equal(t, "en", DetectLanguage(""))
}
