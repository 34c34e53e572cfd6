// Package i18n, kullanıcıya gösterilen metinleri (rollback notice'leri,
// rate limit uyarıları) dile göre döner.
//
// Dil şu sırayla belirlenir:
//  1. GALLERY_LANG
//  2. LANG / Accept-Language biçimli değer ("tr_TR.UTF-8", "tr-TR,en;q=0.8")
//  3. Varsayılan dil (en)
//
// Kullanım:
//
//	_ = i18n.LoadEmbedded()
//	loc := i18n.NewLocalizer("tr")
//	msg := loc.T("notice.admire")
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"
)

// SupportedLanguages, desteklenen dil kodları.
var SupportedLanguages = []string{"en", "tr"}

// DefaultLanguage, varsayılan dil.
const DefaultLanguage = "en"

// translations: map[lang]map[key]value. Bir kez yüklenir, sonra sadece okunur.
var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error
)

// Load, her desteklenen dil için <lang>.json dosyasını localesFS'ten okur.
// Nested anahtarlar düzleştirilir: {"notice": {"admire": "..."}} → "notice.admire".
// Sadece ilk çağrı etkilidir.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string, len(SupportedLanguages))
		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat
		}
		translations = loaded
	})
	return loadErr
}

// LoadEmbedded, gömülü çevirileri yükler.
func LoadEmbedded() error {
	locales, err := fs.Sub(EmbeddedLocales, "locales")
	if err != nil {
		return fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return Load(locales)
}

// Localizer, belirli bir dil için çeviri yapar.
type Localizer struct {
	lang string
}

// NewLocalizer, desteklenmeyen dilde varsayılana düşer.
func NewLocalizer(lang string) *Localizer {
	if !slices.Contains(SupportedLanguages, lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, localizer'ın kullandığı dil kodu.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, anahtarın çevirisini döner. Dilde yoksa İngilizce'ye, orada da yoksa
// anahtarın kendisine düşer.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, metindeki {{param}} yer tutucularını doldurur.
//
//	loc.TWithParams("cli.rateLimited", map[string]string{"seconds": "30"})
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// DetectLanguage, "tr-TR,tr;q=0.9,en;q=0.8" veya "tr_TR.UTF-8" gibi bir
// değerden ilk desteklenen dili çıkarır.
func DetectLanguage(value string) string {
	for _, part := range strings.Split(value, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		if i := strings.IndexAny(lang, "-_."); i >= 0 {
			lang = lang[:i]
		}
		lang = strings.ToLower(lang)
		if slices.Contains(SupportedLanguages, lang) {
			return lang
		}
	}
	return DefaultLanguage
}

func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
