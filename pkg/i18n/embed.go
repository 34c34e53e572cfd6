package i18n

import "embed"

// EmbeddedLocales, locales/ dizinindeki JSON çevirilerini binary'ye gömer.
// LoadEmbedded bunu fs.Sub(EmbeddedLocales, "locales") ile kullanır.
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS
