package views

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/akinalp/gallery/store"
)

// Surface, bir UI yüzeyinin pencere konfigürasyonu: {limit, order, typeFilter}.
//
// Limit hem View penceresinin boyutu hem de render edilecek maksimum eleman
// sayısıdır. 0 = sınırsız (tam liste modalı, pagination ile büyür).
type Surface struct {
	Name       string         `yaml:"name"`
	Collection CollectionKind `yaml:"collection"`
	Limit      int            `yaml:"limit"`
	Order      Order          `yaml:"order"`
	Merge      MergePolicy    `yaml:"merge"`
	Kinds      []store.Kind   `yaml:"kinds"`
	PageSize   int            `yaml:"page_size"`
}

func (s Surface) accepts(k store.Kind) bool {
	return len(s.Kinds) == 0 || slices.Contains(s.Kinds, k)
}

// Key, yüzeyin verilen hedef için gözlemlediği koleksiyon anahtarı.
func (s Surface) Key(targetID string) CollectionKey {
	return CollectionKey{Kind: s.Collection, TargetID: targetID}
}

// ViewName, yüzey + hedef için tekil View adı (ör. "inline_admirers/p1").
func (s Surface) ViewName(targetID string) string {
	return s.Name + "/" + targetID
}

// Validate, YAML'dan gelen yüzeyi kontrol eder.
func (s *Surface) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("surface name is required")
	}
	switch s.Collection {
	case CollectionAdmires, CollectionComments, CollectionFollowers:
	default:
		return fmt.Errorf("surface %s: unknown collection %q", s.Name, s.Collection)
	}
	if s.Limit < 0 {
		return fmt.Errorf("surface %s: limit must not be negative", s.Name)
	}
	switch s.Order {
	case "":
		s.Order = OrderOldestFirst
	case OrderOldestFirst, OrderLatestFirst, OrderLastOne:
	default:
		return fmt.Errorf("surface %s: unknown order %q", s.Name, s.Order)
	}
	switch s.Merge {
	case "":
		s.Merge = MergeGrouped
	case MergeGrouped, MergeChronological:
	default:
		return fmt.Errorf("surface %s: unknown merge policy %q", s.Name, s.Merge)
	}
	if s.PageSize <= 0 {
		s.PageSize = 20
	}
	return nil
}

// surfacesFile, YAML dosyasının kök yapısı.
type surfacesFile struct {
	Surfaces []Surface `yaml:"surfaces"`
}

//go:embed surfaces.yaml
var defaultSurfacesYAML []byte

// LoadSurfaces, YAML'dan yüzey konfigürasyonlarını okur ve isimle indeksler.
func LoadSurfaces(r io.Reader) (map[string]Surface, error) {
	var file surfacesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode surfaces: %w", err)
	}

	out := make(map[string]Surface, len(file.Surfaces))
	for i := range file.Surfaces {
		s := file.Surfaces[i]
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := out[s.Name]; dup {
			return nil, fmt.Errorf("duplicate surface %q", s.Name)
		}
		out[s.Name] = s
	}
	return out, nil
}

// DefaultSurfaces, binary'ye gömülü varsayılan yüzeyleri döner.
func DefaultSurfaces() map[string]Surface {
	surfaces, err := LoadSurfaces(bytes.NewReader(defaultSurfacesYAML))
	if err != nil {
		// Gömülü dosya derleme zamanında sabittir; burada hata programlama hatasıdır.
		panic(fmt.Sprintf("views: embedded surfaces.yaml is invalid: %v", err))
	}
	return surfaces
}

// LoadSurfacesFile, path boşsa varsayılanları, değilse dosyayı yükler.
func LoadSurfacesFile(path string) (map[string]Surface, error) {
	if path == "" {
		return DefaultSurfaces(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open surfaces file: %w", err)
	}
	defer f.Close()
	return LoadSurfaces(f)
}
