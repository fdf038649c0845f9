package http

import (
	"context"
	"errors"

	"golang.org/x/text/language"
	"little-genius/internal/speech"
)

var errConnectionClosed = errors.New("connection closed")

type speakPayload struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

type clipPayload struct {
	URL string `json:"url"`
}

// browserVoice speaks and plays clips by asking the connected browser to do it.
type browserVoice struct {
	push func(typ string, payload any) bool
}

func (v browserVoice) Speak(_ context.Context, text string, lang language.Tag) error {
	if !v.push("speak", speakPayload{Text: text, Lang: lang.String()}) {
		return errConnectionClosed
	}
	return nil
}

func (v browserVoice) Open(url string) (speech.Clip, error) {
	return &browserClip{url: url, push: v.push}, nil
}

type browserClip struct {
	url  string
	push func(typ string, payload any) bool
}

func (c *browserClip) Play(_ context.Context) error {
	if !c.push("playClip", clipPayload{URL: c.url}) {
		return errConnectionClosed
	}
	return nil
}

func (c *browserClip) Pause() {
	c.push("pauseClip", clipPayload{URL: c.url})
}
