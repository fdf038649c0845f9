package app

import (
	"fmt"
	"math/rand"
	"strconv"

	"little-genius/internal/domain"
	"little-genius/internal/present"
)

const optionCount = 4

// CatalogSource provides loaded catalog entries. Entries must be treated as read-only.
type CatalogSource interface {
	Entries(kind domain.CatalogKind) []domain.CatalogEntry
}

type questionBuilder struct {
	rnd       *rand.Rand
	catalogs  CatalogSource
	numberMax int
}

// kinds returns the question kinds a mode can ask right now. Kinds backed by an
// empty catalog are left out; numbers are always available.
func (b *questionBuilder) kinds(mode domain.Mode) []domain.QuestionKind {
	var want []domain.QuestionKind
	switch mode {
	case domain.ModeShape:
		want = []domain.QuestionKind{domain.KindShape}
	case domain.ModeColor:
		want = []domain.QuestionKind{domain.KindColor}
	case domain.ModeNumber:
		want = []domain.QuestionKind{domain.KindNumber}
	case domain.ModeMixed:
		want = []domain.QuestionKind{domain.KindShape, domain.KindColor, domain.KindNumber}
	}
	out := make([]domain.QuestionKind, 0, len(want))
	for _, kind := range want {
		if kind == domain.KindNumber || len(b.catalogs.Entries(catalogFor(kind))) > 0 {
			out = append(out, kind)
		}
	}
	return out
}

func (b *questionBuilder) pick(kinds []domain.QuestionKind) domain.QuestionKind {
	if len(kinds) == 1 {
		return kinds[0]
	}
	return kinds[b.rnd.Intn(len(kinds))]
}

func (b *questionBuilder) build(kind domain.QuestionKind, position int) (domain.QuestionSpec, error) {
	switch kind {
	case domain.KindShape, domain.KindColor:
		return b.catalogQuestion(kind, position)
	case domain.KindNumber:
		return b.numberQuestion(position), nil
	}
	return domain.QuestionSpec{}, fmt.Errorf("unknown question kind %q", kind)
}

func (b *questionBuilder) catalogQuestion(kind domain.QuestionKind, position int) (domain.QuestionSpec, error) {
	entries := b.catalogs.Entries(catalogFor(kind))
	if len(entries) == 0 {
		return domain.QuestionSpec{}, fmt.Errorf("%w: %s", domain.ErrCatalogUnavailable, kind)
	}
	correct := entries[b.rnd.Intn(len(entries))]

	seen := map[string]struct{}{correct.ID: {}}
	pool := make([]domain.CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		pool = append(pool, entry)
	}
	distractors := present.Shuffle(b.rnd, pool)
	if len(distractors) > optionCount-1 {
		distractors = distractors[:optionCount-1]
	}

	answer := entryOption(kind, correct)
	options := make([]domain.Option, 0, len(distractors)+1)
	options = append(options, answer)
	for _, entry := range distractors {
		options = append(options, entryOption(kind, entry))
	}

	prompt := "What is this shape?"
	if kind == domain.KindColor {
		prompt = "What is this color?"
	}
	return domain.QuestionSpec{
		Kind:     kind,
		Position: position,
		Prompt:   prompt,
		Subject:  correct.DisplayAsset,
		Correct:  answer,
		Options:  present.Shuffle(b.rnd, options),
	}, nil
}

// numberQuestion asks for a value in [0, numberMax]. Distractors come from the
// neighbours ±1 and ±2, wrapped into the range.
func (b *questionBuilder) numberQuestion(position int) domain.QuestionSpec {
	size := b.numberMax + 1
	value := b.rnd.Intn(size)
	answer := numberOption(value)

	seen := map[int]struct{}{value: {}}
	options := []domain.Option{answer}
	for _, delta := range present.Shuffle(b.rnd, []int{1, -1, 2, -2}) {
		if len(options) == optionCount {
			break
		}
		v := ((value+delta)%size + size) % size
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		options = append(options, numberOption(v))
	}

	words := present.NumberToWords(value)
	return domain.QuestionSpec{
		Kind:     domain.KindNumber,
		Position: position,
		Prompt:   "Which number is " + words + "?",
		Subject:  words,
		Correct:  answer,
		Options:  present.Shuffle(b.rnd, options),
	}
}

func entryOption(kind domain.QuestionKind, entry domain.CatalogEntry) domain.Option {
	opt := domain.Option{ID: entry.ID, Label: entry.Name, Asset: entry.DisplayAsset}
	if kind == domain.KindColor {
		opt.TextColor = present.ReadableTextColor(entry.DisplayAsset)
	}
	return opt
}

func numberOption(v int) domain.Option {
	s := strconv.Itoa(v)
	return domain.Option{ID: s, Label: s}
}

func catalogFor(kind domain.QuestionKind) domain.CatalogKind {
	if kind == domain.KindColor {
		return domain.CatalogColors
	}
	return domain.CatalogShapes
}
