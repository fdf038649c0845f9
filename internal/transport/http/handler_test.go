package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"little-genius/internal/app"
	"little-genius/internal/catalog"
	"little-genius/internal/certificate"
	"little-genius/internal/domain"
	"little-genius/internal/infra/memory"
)

type testServer struct {
	*httptest.Server
	sessions *memory.SessionStore
	service  *app.QuizService
	catalogs *catalog.Registry
}

func newTestServer(t *testing.T, advanceDelay time.Duration) *testServer {
	t.Helper()
	registry := catalog.NewRegistry(memory.NewStaticCatalogLoader(map[domain.CatalogKind][]domain.CatalogEntry{
		domain.CatalogShapes: {
			{ID: "Circle", Name: "Circle", DisplayAsset: "icons/circle.svg", AudioAsset: "sounds/circle.mp3"},
			{ID: "Square", Name: "Square", DisplayAsset: "icons/square.svg"},
			{ID: "Triangle", Name: "Triangle", DisplayAsset: "icons/triangle.svg"},
			{ID: "Star", Name: "Star", DisplayAsset: "icons/star.svg"},
		},
		domain.CatalogAnimals: {
			{ID: "Lion", Name: "Lion", DisplayAsset: "img/lion.png", SpokenFact: "Lions live in prides.", Category: "wild"},
			{ID: "Cow", Name: "Cow", DisplayAsset: "img/cow.png", Category: "farm"},
			{ID: "Tiger", Name: "Tiger", DisplayAsset: "img/tiger.png", Category: "wild"},
		},
	}))
	_ = registry.LoadAll(context.Background())

	pngCerts, err := certificate.NewPNGRenderer()
	if err != nil {
		t.Fatalf("png renderer: %v", err)
	}
	sessions := memory.NewSessionStore()
	settings := app.DefaultSettings()
	settings.AdvanceDelay = advanceDelay
	settings.TickInterval = time.Hour
	service := app.NewQuizService(sessions, registry, memory.NewProfileStore(), memory.NewResultStore(time.Hour),
		map[app.CertificateFormat]app.CertificateRenderer{
			app.CertificatePNG:  pngCerts,
			app.CertificateText: certificate.TextRenderer{},
		},
		settings,
	)

	server := httptest.NewServer(NewRouter(service, registry, nil))
	t.Cleanup(server.Close)
	return &testServer{Server: server, sessions: sessions, service: service, catalogs: registry}
}

type message struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func dial(t *testing.T, server *testServer, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil skips messages until one of the wanted types arrives.
func readUntil(t *testing.T, conn *websocket.Conn, types ...string) message {
	t.Helper()
	for i := 0; i < 50; i++ {
		var msg message
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		for _, typ := range types {
			if msg.Type == typ {
				return msg
			}
		}
	}
	t.Fatalf("no %v message received", types)
	return message{}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func TestWebSocketGameFlow(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	conn := dial(t, server, "?profileId=p-1")

	hello := readUntil(t, conn, "session")
	sessionID, _ := hello.Payload["sessionId"].(string)
	if sessionID == "" {
		t.Fatalf("expected session id in %+v", hello.Payload)
	}
	session, ok := server.sessions.Get(sessionID)
	if !ok {
		t.Fatalf("expected session registered")
	}

	send(t, conn, "start", map[string]any{"mode": "shape", "name": "Asha"})
	for i := 1; i <= 10; i++ {
		msg := readUntil(t, conn, "question", "error")
		if msg.Type == "error" {
			t.Fatalf("unexpected error %+v", msg.Payload)
		}
		q, ok := session.Question()
		if !ok {
			t.Fatalf("expected live question %d", i)
		}
		send(t, conn, "answer", map[string]any{"optionId": q.Correct.ID})
		feedback := readUntil(t, conn, "feedback")
		answer, _ := feedback.Payload["answer"].(map[string]any)
		if answer["correct"] != true {
			t.Fatalf("expected correct feedback, got %+v", feedback.Payload)
		}
		clip := readUntil(t, conn, "playClip")
		if clip.Payload["url"] != correctClip {
			t.Fatalf("expected feedback sound, got %+v", clip.Payload)
		}
	}

	finished := readUntil(t, conn, "finished")
	result, _ := finished.Payload["result"].(map[string]any)
	if result["score"] != float64(100) || result["playerName"] != "Asha" {
		t.Fatalf("unexpected result %+v", finished.Payload)
	}
	certURL, _ := finished.Payload["certificateUrl"].(string)

	resp, err := http.Get(server.URL + certURL)
	if err != nil {
		t.Fatalf("get certificate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected certificate response %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "LittleGeniusExplorer_Certificate_Asha.png") {
		t.Fatalf("unexpected disposition %s", resp.Header.Get("Content-Disposition"))
	}

	// The name given at start is remembered for the profile.
	profile := getJSON(t, server.URL+"/api/profiles/p-1")
	if profile["playerName"] != "Asha" {
		t.Fatalf("expected remembered name, got %+v", profile)
	}
}

func TestWebSocketRejectsDoubleAnswer(t *testing.T) {
	server := newTestServer(t, time.Minute)
	conn := dial(t, server, "")
	hello := readUntil(t, conn, "session")
	session, _ := server.sessions.Get(hello.Payload["sessionId"].(string))

	send(t, conn, "start", map[string]any{"mode": "number", "name": "Ravi"})
	readUntil(t, conn, "question")
	q, _ := session.Question()

	send(t, conn, "answer", map[string]any{"optionId": q.Correct.ID})
	send(t, conn, "answer", map[string]any{"optionId": q.Correct.ID})
	readUntil(t, conn, "feedback")
	msg := readUntil(t, conn, "error")
	if !strings.Contains(msg.Payload["message"].(string), "already recorded") {
		t.Fatalf("unexpected error %+v", msg.Payload)
	}
	if state := session.State(); state.Score != 10 {
		t.Fatalf("expected single award, got score %d", state.Score)
	}
}

func TestWebSocketClipFailureFallsBackToSpeech(t *testing.T) {
	server := newTestServer(t, time.Minute)
	conn := dial(t, server, "")
	hello := readUntil(t, conn, "session")
	session, _ := server.sessions.Get(hello.Payload["sessionId"].(string))

	send(t, conn, "showEntry", map[string]any{"kind": "shapes", "id": "Circle"})
	send(t, conn, "playEntry", nil)
	msg := readUntil(t, conn, "playClip")
	send(t, conn, "clipFailed", map[string]any{"url": msg.Payload["url"]})
	msg = readUntil(t, conn, "speak")
	if msg.Payload["text"] != "Circle" {
		t.Fatalf("expected entry name spoken, got %+v", msg.Payload)
	}
	send(t, conn, "closeEntry", nil)
	readUntil(t, conn, "pauseClip")

	send(t, conn, "start", map[string]any{"mode": "shape", "name": "Asha"})
	readUntil(t, conn, "question")
	q, _ := session.Question()
	send(t, conn, "answer", map[string]any{"optionId": q.Correct.ID})
	readUntil(t, conn, "feedback")
	msg = readUntil(t, conn, "playClip")
	if msg.Payload["url"] != correctClip {
		t.Fatalf("unexpected clip %+v", msg.Payload)
	}
	send(t, conn, "clipFailed", map[string]any{"url": correctClip})
	msg = readUntil(t, conn, "speak")
	if msg.Payload["text"] != "Correct!" {
		t.Fatalf("expected feedback label spoken, got %+v", msg.Payload)
	}
}

func TestWebSocketWritesGiveUpAtDeadline(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	h := NewWSHandler(server.service, server.catalogs, nil)
	h.writeWait = -time.Second
	stalled := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(stalled.Close)

	u := "ws" + strings.TrimPrefix(stalled.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var msg message
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("expected no message past the write deadline, got %+v", msg)
	}
	_ = conn.Close()

	// The handler must still tear the session down.
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, _, _ := server.service.LiveSessions(context.Background())
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("session still live after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthCountsLiveSessions(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	if body := getJSON(t, server.URL+"/healthz"); body["status"] != "ok" || body["liveSessions"] != float64(0) {
		t.Fatalf("unexpected health %+v", body)
	}
	conn := dial(t, server, "")
	readUntil(t, conn, "session")
	if body := getJSON(t, server.URL+"/healthz"); body["liveSessions"] != float64(1) {
		t.Fatalf("expected one live session, got %+v", body)
	}
}

func TestWebSocketStartWithoutNameFails(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	conn := dial(t, server, "?profileId=nobody")
	readUntil(t, conn, "session")

	send(t, conn, "start", map[string]any{"mode": "shape"})
	msg := readUntil(t, conn, "error")
	if msg.Payload["message"] != domain.ErrPlayerNameRequired.Error() {
		t.Fatalf("unexpected error %+v", msg.Payload)
	}

	send(t, conn, "start", map[string]any{"mode": "color", "name": "Asha"})
	msg = readUntil(t, conn, "error")
	if !strings.Contains(msg.Payload["message"].(string), "catalog unavailable") {
		t.Fatalf("expected color mode unavailable, got %+v", msg.Payload)
	}
}

func TestWebSocketDetailView(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	conn := dial(t, server, "")
	readUntil(t, conn, "session")

	send(t, conn, "showEntry", map[string]any{"kind": "shapes", "id": "Circle"})
	send(t, conn, "playEntry", nil)
	msg := readUntil(t, conn, "playClip")
	if msg.Payload["url"] != "sounds/circle.mp3" {
		t.Fatalf("unexpected clip %+v", msg.Payload)
	}

	// Switching detail views pauses the previous clip.
	send(t, conn, "showEntry", map[string]any{"kind": "animals", "id": "Lion"})
	msg = readUntil(t, conn, "pauseClip")
	if msg.Payload["url"] != "sounds/circle.mp3" {
		t.Fatalf("unexpected pause %+v", msg.Payload)
	}
	send(t, conn, "speakEntry", nil)
	msg = readUntil(t, conn, "speak")
	if msg.Payload["text"] != "Lion. Lions live in prides." || msg.Payload["lang"] != "en-IN" {
		t.Fatalf("unexpected speech %+v", msg.Payload)
	}

	// Without a clip, playing falls back to speaking the name.
	send(t, conn, "playEntry", nil)
	msg = readUntil(t, conn, "speak", "playClip")
	if msg.Type != "speak" || msg.Payload["text"] != "Lion" {
		t.Fatalf("expected spoken fallback, got %+v", msg)
	}

	send(t, conn, "speakNumber", map[string]any{"value": 345})
	msg = readUntil(t, conn, "speak")
	if msg.Payload["text"] != "three hundred forty-five" {
		t.Fatalf("unexpected number speech %+v", msg.Payload)
	}

	send(t, conn, "showEntry", map[string]any{"kind": "shapes", "id": "Hexagon"})
	msg = readUntil(t, conn, "error")
	if msg.Payload["message"] != domain.ErrEntryNotFound.Error() {
		t.Fatalf("unexpected error %+v", msg.Payload)
	}
}

func getJSON(t *testing.T, url string) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return out
}

func TestCatalogEndpoints(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)

	body := getJSON(t, server.URL+"/api/catalogs/animals?category=wild&q=ti")
	entries, _ := body["entries"].([]any)
	if len(entries) != 1 || entries[0].(map[string]any)["name"] != "Tiger" {
		t.Fatalf("unexpected entries %+v", body)
	}

	body = getJSON(t, server.URL+"/api/catalogs/colors")
	if body["unavailable"] != true {
		t.Fatalf("expected colors reported unavailable, got %+v", body)
	}

	resp, err := http.Get(server.URL + "/api/catalogs/planets")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown catalog, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/catalogs/animals/categories")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var categories []string
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(categories) != 2 || categories[0] != "farm" || categories[1] != "wild" {
		t.Fatalf("unexpected categories %v", categories)
	}
}

func TestNumbersEndpointSwapsBounds(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	body := getJSON(t, server.URL+"/api/numbers?start=22&end=19")
	if body["start"] != float64(19) || body["end"] != float64(22) || body["adjusted"] != true {
		t.Fatalf("unexpected range %+v", body)
	}
	cards, _ := body["cards"].([]any)
	if len(cards) != 4 || cards[2].(map[string]any)["words"] != "twenty-one" {
		t.Fatalf("unexpected cards %+v", cards)
	}

	resp, err := http.Get(server.URL + "/api/numbers?start=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNumbersEndpointDefaultsToZeroThroughTwenty(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	body := getJSON(t, server.URL+"/api/numbers")
	if body["start"] != float64(0) || body["end"] != float64(20) || body["adjusted"] != false {
		t.Fatalf("unexpected range %+v", body)
	}
	cards, _ := body["cards"].([]any)
	if len(cards) != 21 || cards[0].(map[string]any)["words"] != "zero" {
		t.Fatalf("unexpected cards %+v", cards)
	}
}

func TestProfileEndpoints(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/profiles/p-9", strings.NewReader(`{"playerName":"  Meera "}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := getJSON(t, server.URL+"/api/profiles/p-9"); body["playerName"] != "Meera" {
		t.Fatalf("unexpected profile %+v", body)
	}

	req, _ = http.NewRequest(http.MethodPut, server.URL+"/api/profiles/p-9", strings.NewReader(`{"playerName":""}`))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", resp.StatusCode)
	}
}

func TestCertificateBeforeFinishIsNotFound(t *testing.T) {
	server := newTestServer(t, 5*time.Millisecond)
	resp, err := http.Get(server.URL + "/api/sessions/unknown/certificate.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
