package speech

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/text/language"
	"little-genius/internal/domain"
)

// Synthesizer speaks text aloud in the given voice.
type Synthesizer interface {
	Speak(ctx context.Context, text string, lang language.Tag) error
}

// Clip is a loaded audio clip.
type Clip interface {
	// Play starts the clip from the beginning.
	Play(ctx context.Context) error
	Pause()
}

// ClipPlayer opens audio clips by url.
type ClipPlayer interface {
	Open(url string) (Clip, error)
}

// Gateway wraps speech and clip playback. Failures degrade to speech or silence
// and are never returned to callers.
type Gateway struct {
	synth  Synthesizer
	player ClipPlayer

	mu      sync.Mutex
	detail  *domain.CatalogEntry
	lang    language.Tag
	current Clip
	// labels holds the spoken fallback of clips handed to the player, by url.
	labels map[string]spokenLabel
}

type spokenLabel struct {
	text string
	lang language.Tag
}

// NewGateway builds a gateway; either capability may be nil.
func NewGateway(synth Synthesizer, player ClipPlayer) *Gateway {
	return &Gateway{synth: synth, player: player, lang: EnglishIndia, labels: map[string]spokenLabel{}}
}

// Speak says text, or does nothing when no synthesizer is available.
func (g *Gateway) Speak(ctx context.Context, text string, lang language.Tag) {
	if err := g.speak(ctx, text, lang); err != nil && !errors.Is(err, domain.ErrMissingCapability) {
		log.Printf("speech: speak %q: %v", text, err)
	}
}

func (g *Gateway) speak(ctx context.Context, text string, lang language.Tag) error {
	if g.synth == nil {
		return domain.ErrMissingCapability
	}
	if text == "" {
		return nil
	}
	return g.synth.Speak(ctx, text, lang)
}

// PlayClip plays url once from the start and speaks label when playback fails.
// Clips started here are not tracked; overlapping feedback sounds are fine.
func (g *Gateway) PlayClip(ctx context.Context, url, label string, lang language.Tag) {
	clip, err := g.open(url)
	if err == nil {
		err = g.play(ctx, clip, url)
	}
	if err != nil {
		log.Printf("speech: %v; speaking %q instead", err, label)
		g.Speak(ctx, label, lang)
		return
	}
	g.mu.Lock()
	g.labels[url] = spokenLabel{text: label, lang: lang}
	g.mu.Unlock()
}

// ClipFailed reports that a clip accepted by the player could not be played
// after all, e.g. a browser that blocked autoplay. The clip's label is spoken
// instead; the current detail entry takes precedence over feedback clips.
func (g *Gateway) ClipFailed(ctx context.Context, url string) {
	g.mu.Lock()
	var (
		fallback spokenLabel
		ok       bool
	)
	if g.detail != nil && g.detail.AudioAsset == url && url != "" {
		fallback, ok = spokenLabel{text: g.detail.Name, lang: g.lang}, true
	} else {
		fallback, ok = g.labels[url]
	}
	g.mu.Unlock()
	if !ok {
		log.Printf("speech: playback of unknown clip %q failed", url)
		return
	}
	log.Printf("speech: clip %q failed to play; speaking %q instead", url, fallback.text)
	g.Speak(ctx, fallback.text, fallback.lang)
}

// ShowDetail makes entry the current detail view. The previous detail clip is paused
// and released before the new one is prepared; nothing plays until PlayDetail.
func (g *Gateway) ShowDetail(entry domain.CatalogEntry, lang language.Tag) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.releaseLocked()
	g.detail = &entry
	g.lang = lang
	if entry.AudioAsset == "" {
		return
	}
	clip, err := g.open(entry.AudioAsset)
	if err != nil {
		log.Printf("speech: prepare detail clip: %v", err)
		return
	}
	g.current = clip
}

// PlayDetail plays the current detail clip from the start, falling back to speaking its name.
func (g *Gateway) PlayDetail(ctx context.Context) {
	g.mu.Lock()
	entry, clip, lang := g.detail, g.current, g.lang
	g.mu.Unlock()
	if entry == nil {
		return
	}
	if clip != nil {
		err := g.play(ctx, clip, entry.AudioAsset)
		if err == nil {
			return
		}
		log.Printf("speech: %v; speaking %q instead", err, entry.Name)
	}
	g.Speak(ctx, entry.Name, lang)
}

// SpeakDetail reads the current entry's name followed by its fact.
func (g *Gateway) SpeakDetail(ctx context.Context) {
	g.mu.Lock()
	entry, lang := g.detail, g.lang
	g.mu.Unlock()
	if entry == nil {
		return
	}
	text := entry.Name
	if entry.SpokenFact != "" {
		text += ". " + entry.SpokenFact
	}
	g.Speak(ctx, text, lang)
}

// CloseDetail leaves the detail view and stops its clip.
func (g *Gateway) CloseDetail() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releaseLocked()
	g.detail = nil
}

// Detail returns the entry currently shown, if any.
func (g *Gateway) Detail() (domain.CatalogEntry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.detail == nil {
		return domain.CatalogEntry{}, false
	}
	return *g.detail, true
}

func (g *Gateway) releaseLocked() {
	if g.current != nil {
		g.current.Pause()
		g.current = nil
	}
}

func (g *Gateway) open(url string) (Clip, error) {
	if g.player == nil {
		return nil, &domain.PlaybackError{URL: url, Err: domain.ErrMissingCapability}
	}
	if url == "" {
		return nil, &domain.PlaybackError{URL: url, Err: errors.New("no clip")}
	}
	clip, err := g.player.Open(url)
	if err != nil {
		return nil, &domain.PlaybackError{URL: url, Err: err}
	}
	return clip, nil
}

func (g *Gateway) play(ctx context.Context, clip Clip, url string) error {
	if err := clip.Play(ctx); err != nil {
		return &domain.PlaybackError{URL: url, Err: err}
	}
	return nil
}
