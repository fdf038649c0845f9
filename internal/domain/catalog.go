package domain

// CatalogKind names one flashcard catalog.
type CatalogKind string

const (
	CatalogAnimals   CatalogKind = "animals"
	CatalogShapes    CatalogKind = "shapes"
	CatalogColors    CatalogKind = "colors"
	CatalogLettersEN CatalogKind = "letters-en"
	CatalogLettersTE CatalogKind = "letters-te"
	CatalogLettersHI CatalogKind = "letters-hi"
)

// CatalogKinds lists every loadable catalog. Numbers are generated, not loaded.
func CatalogKinds() []CatalogKind {
	return []CatalogKind{
		CatalogAnimals,
		CatalogShapes,
		CatalogColors,
		CatalogLettersEN,
		CatalogLettersTE,
		CatalogLettersHI,
	}
}

// Valid reports whether k is a known catalog kind.
func (k CatalogKind) Valid() bool {
	for _, known := range CatalogKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsLetters reports whether k is one of the per-language letter catalogs.
func (k CatalogKind) IsLetters() bool {
	return k == CatalogLettersEN || k == CatalogLettersTE || k == CatalogLettersHI
}

// CatalogEntry is one flashcard. Entries are immutable once loaded.
// DisplayAsset holds an image url, an icon url or a hex color depending on the catalog.
type CatalogEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayAsset string `json:"displayAsset"`
	AudioAsset   string `json:"audioAsset,omitempty"`
	SpokenFact   string `json:"spokenFact,omitempty"`
	Category     string `json:"category,omitempty"`
}
