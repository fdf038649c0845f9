package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"little-genius/internal/domain"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// SessionToucher is implemented by repositories whose liveness markers expire;
// player activity keeps them alive.
type SessionToucher interface {
	Touch(ctx context.Context, sessionID string) error
}

// SessionCounter is implemented by repositories that can count live sessions.
type SessionCounter interface {
	LiveCount(ctx context.Context) (int, error)
}

// ProfileStore persists the player display name per profile.
type ProfileStore interface {
	PlayerName(ctx context.Context, profileID string) (string, error)
	SetPlayerName(ctx context.Context, profileID, name string) error
}

// ResultStore keeps finished game results until their certificate is fetched.
type ResultStore interface {
	SaveResult(ctx context.Context, sessionID string, result domain.ResultSummary) error
	Result(ctx context.Context, sessionID string) (domain.ResultSummary, error)
}

// CertificateRenderer turns a result into a downloadable artifact.
type CertificateRenderer interface {
	Render(result domain.ResultSummary) (domain.Certificate, error)
}

// CertificateFormat selects a certificate renderer.
type CertificateFormat string

const (
	CertificatePNG  CertificateFormat = "png"
	CertificateText CertificateFormat = "txt"
)

// ModeInfo describes a game mode on the menu.
type ModeInfo struct {
	Mode      domain.Mode `json:"mode"`
	Label     string      `json:"label"`
	Available bool        `json:"available"`
}

// QuizService contains the game use cases.
type QuizService struct {
	sessions SessionRepository
	catalogs CatalogSource
	profiles ProfileStore
	results  ResultStore
	certs    map[CertificateFormat]CertificateRenderer
	settings Settings
	opts     []SessionOption
}

func NewQuizService(sessions SessionRepository, catalogs CatalogSource, profiles ProfileStore, results ResultStore, certs map[CertificateFormat]CertificateRenderer, settings Settings) *QuizService {
	return &QuizService{
		sessions: sessions,
		catalogs: catalogs,
		profiles: profiles,
		results:  results,
		certs:    certs,
		settings: settings.withDefaults(),
	}
}

// WithSessionOptions applies opts to every session opened afterwards (tests use it for scheduling).
func (s *QuizService) WithSessionOptions(opts ...SessionOption) *QuizService {
	s.opts = append(s.opts, opts...)
	return s
}

// Open creates a session in the menu state for one connected player.
func (s *QuizService) Open(_ context.Context, observer Observer) *Session {
	id := uuid.NewString()
	opts := append([]SessionOption{
		WithObserver(observer),
		WithFinishHandler(func(result domain.ResultSummary) {
			// Runs under the session lock.
			ctx, cancel := context.WithTimeout(context.Background(), s.settings.SaveTimeout)
			defer cancel()
			if err := s.results.SaveResult(ctx, id, result); err != nil {
				log.Printf("session %s: save result: %v", id, err)
			}
		}),
	}, s.opts...)
	session := NewSession(id, s.catalogs, s.settings, opts...)
	s.sessions.Put(session)
	return session
}

// Start begins a game. An empty name falls back to the profile's stored name;
// a given name is remembered for the profile.
func (s *QuizService) Start(ctx context.Context, sessionID, profileID string, mode domain.Mode, playerName string) (domain.SessionState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}

	name := strings.TrimSpace(playerName)
	if name == "" && profileID != "" {
		stored, err := s.profiles.PlayerName(ctx, profileID)
		if err != nil {
			log.Printf("profile %s: read name: %v", profileID, err)
		}
		name = stored
	}
	if name == "" {
		return domain.SessionState{}, domain.ErrPlayerNameRequired
	}

	if err := session.Initialize(mode, name); err != nil {
		return domain.SessionState{}, err
	}
	s.touch(ctx, sessionID)
	if profileID != "" && playerName != "" {
		if err := s.profiles.SetPlayerName(ctx, profileID, name); err != nil {
			log.Printf("profile %s: save name: %v", profileID, err)
		}
	}
	return session.State(), nil
}

// SubmitAnswer records the player's choice for the live question.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID, optionID string) (domain.AnswerResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerResult{}, domain.ErrSessionNotFound
	}
	result, err := session.SubmitAnswer(optionID)
	if err == nil {
		s.touch(ctx, sessionID)
	}
	return result, err
}

func (s *QuizService) touch(ctx context.Context, sessionID string) {
	toucher, ok := s.sessions.(SessionToucher)
	if !ok {
		return
	}
	if err := toucher.Touch(ctx, sessionID); err != nil {
		log.Printf("session %s: touch: %v", sessionID, err)
	}
}

// LiveSessions counts live sessions. ok is false when the repository cannot count.
func (s *QuizService) LiveSessions(ctx context.Context) (n int, ok bool, err error) {
	counter, ok := s.sessions.(SessionCounter)
	if !ok {
		return 0, false, nil
	}
	n, err = counter.LiveCount(ctx)
	return n, true, err
}

// Abort returns the session to the menu without a result.
func (s *QuizService) Abort(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Abort()
}

// Close stops and forgets a session. Results already saved stay downloadable.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
}

// State returns the scoreboard of a session.
func (s *QuizService) State(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return session.State(), nil
}

// Certificate renders the certificate of a finished game in the given format.
func (s *QuizService) Certificate(ctx context.Context, sessionID string, format CertificateFormat) (domain.Certificate, error) {
	renderer, ok := s.certs[format]
	if !ok {
		return domain.Certificate{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	result, err := s.results.Result(ctx, sessionID)
	if err != nil {
		return domain.Certificate{}, err
	}
	cert, err := renderer.Render(result)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("render certificate: %w", err)
	}
	return cert, nil
}

// PlayerName returns the remembered name of a profile, empty when unknown.
func (s *QuizService) PlayerName(ctx context.Context, profileID string) (string, error) {
	return s.profiles.PlayerName(ctx, profileID)
}

// SetPlayerName remembers a profile's display name.
func (s *QuizService) SetPlayerName(ctx context.Context, profileID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrPlayerNameRequired
	}
	return s.profiles.SetPlayerName(ctx, profileID, name)
}

// Modes lists the game modes and whether their catalogs can serve a game.
func (s *QuizService) Modes() []ModeInfo {
	probe := &questionBuilder{catalogs: s.catalogs}
	modes := domain.Modes()
	out := make([]ModeInfo, 0, len(modes))
	for _, mode := range modes {
		available := len(probe.kinds(mode)) > 0
		out = append(out, ModeInfo{Mode: mode, Label: mode.Label(), Available: available})
	}
	return out
}

// IsClientError reports whether err was caused by the request rather than the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		domain.ErrSessionNotActive,
		domain.ErrAnswerLocked,
		domain.ErrOptionNotFound,
		domain.ErrPlayerNameRequired,
		domain.ErrUnknownMode,
		domain.ErrCatalogUnavailable,
		domain.ErrEntryNotFound,
		domain.ErrUnknownCatalog,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
