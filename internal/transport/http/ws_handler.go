package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"little-genius/internal/app"
	"little-genius/internal/catalog"
	"little-genius/internal/domain"
	"little-genius/internal/present"
	"little-genius/internal/speech"
)

// Feedback sounds played after each answer.
const (
	correctClip = "sounds/correct.mp3"
	wrongClip   = "sounds/wrong.mp3"
)

// writeWait bounds each socket write so a stalled client cannot block pushes
// made under the session lock.
const writeWait = 10 * time.Second

type WSHandler struct {
	service  *app.QuizService
	catalogs *catalog.Registry
	upgrader websocket.Upgrader
	// writeWait is the per-message write deadline.
	writeWait time.Duration
}

func NewWSHandler(service *app.QuizService, catalogs *catalog.Registry, checkOrigin func(r *http.Request) bool) *WSHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WSHandler{
		service:  service,
		catalogs: catalogs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		writeWait: writeWait,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode domain.Mode `json:"mode"`
	Name string      `json:"name"`
}

type answerPayload struct {
	OptionID string `json:"optionId"`
}

type entryPayload struct {
	Kind domain.CatalogKind `json:"kind"`
	ID   string             `json:"id"`
}

type numberPayload struct {
	Value int `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionPayload struct {
	SessionID  string              `json:"sessionId"`
	PlayerName string              `json:"playerName,omitempty"`
	State      domain.SessionState `json:"state"`
	Modes      []app.ModeInfo      `json:"modes"`
}

type eventPayload struct {
	State          domain.SessionState   `json:"state"`
	Question       *domain.QuestionSpec  `json:"question,omitempty"`
	Answer         *domain.AnswerResult  `json:"answer,omitempty"`
	Result         *domain.ResultSummary `json:"result,omitempty"`
	CertificateURL string                `json:"certificateUrl,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connection is the per-socket state shared by the reader loop and session callbacks.
type connection struct {
	ctx       context.Context
	sessionID string
	profileID string
	voice     *speech.Gateway
	push      func(typ string, payload any) bool
}

// ServeWS upgrades HTTP requests to websockets and wires them into one game session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	profileID := r.URL.Query().Get("profileId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 32)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	push := func(typ string, payload any) bool {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
			return true
		case <-closeSignals:
			return false
		case <-writerDone:
			return false
		}
	}

	c := &connection{
		ctx:       r.Context(),
		profileID: profileID,
		push:      push,
	}
	voice := browserVoice{push: push}
	c.voice = speech.NewGateway(voice, voice)

	session := h.service.Open(r.Context(), app.ObserverFunc(c.onEvent))
	c.sessionID = session.ID()

	name := ""
	if profileID != "" {
		if name, err = h.service.PlayerName(r.Context(), profileID); err != nil {
			log.Printf("profile %s: read name: %v", profileID, err)
		}
	}
	push("session", sessionPayload{
		SessionID:  session.ID(),
		PlayerName: name,
		State:      session.State(),
		Modes:      h.service.Modes(),
	})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(c, inbound); err != nil {
			push("error", errorPayload{Message: err.Error()})
		}
	}

	close(closeSignals)
	// Close waits for in-flight timer callbacks and drops later ones, so nothing
	// pushes once send is closed.
	h.service.Close(context.Background(), c.sessionID)
	c.voice.CloseDetail()
	close(send)
	<-writerDone
}

var errInvalidPayload = errors.New("invalid payload")

func (h *WSHandler) dispatch(c *connection, inbound inboundMessage) error {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		_, err := h.service.Start(c.ctx, c.sessionID, c.profileID, payload.Mode, payload.Name)
		return err
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		_, err := h.service.SubmitAnswer(c.ctx, c.sessionID, payload.OptionID)
		return err
	case "abort":
		return h.service.Abort(c.ctx, c.sessionID)
	case "showEntry":
		var payload entryPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		entry, err := h.catalogs.Lookup(payload.Kind, payload.ID)
		if err != nil {
			return err
		}
		c.voice.ShowDetail(entry, speech.TagForCatalog(payload.Kind))
		return nil
	case "playEntry":
		c.voice.PlayDetail(c.ctx)
		return nil
	case "speakEntry":
		c.voice.SpeakDetail(c.ctx)
		return nil
	case "closeEntry":
		c.voice.CloseDetail()
		return nil
	case "clipFailed":
		var payload clipPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		c.voice.ClipFailed(c.ctx, payload.URL)
		return nil
	case "speakNumber":
		var payload numberPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		c.voice.Speak(c.ctx, present.NumberToWords(payload.Value), speech.EnglishIndia)
		return nil
	default:
		return errors.New("unsupported message type")
	}
}

// onEvent runs under the session lock; it must only push messages.
func (c *connection) onEvent(ev domain.Event) {
	payload := eventPayload{
		State:    ev.State,
		Question: ev.Question,
		Answer:   ev.Answer,
		Result:   ev.Result,
	}
	if ev.Type == domain.EventFinished {
		payload.CertificateURL = "/api/sessions/" + c.sessionID + "/certificate.png"
	}
	c.push(string(ev.Type), payload)

	switch ev.Type {
	case domain.EventQuestion:
		if ev.Question != nil {
			c.voice.Speak(c.ctx, ev.Question.Prompt, speech.EnglishIndia)
		}
	case domain.EventFeedback:
		if ev.Answer == nil {
			return
		}
		if ev.Answer.Correct {
			c.voice.PlayClip(c.ctx, correctClip, "Correct!", speech.EnglishIndia)
		} else {
			c.voice.PlayClip(c.ctx, wrongClip, "Try again", speech.EnglishIndia)
		}
	}
}
