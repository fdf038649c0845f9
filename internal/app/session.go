package app

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"little-genius/internal/domain"
)

// Observer receives session events. It is called with the session lock held and
// must not call back into the session.
type Observer interface {
	OnEvent(ev domain.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev domain.Event)

func (f ObserverFunc) OnEvent(ev domain.Event) { f(ev) }

// SessionOption customizes a session.
type SessionOption func(*Session)

// WithScheduler replaces the runtime timers, mainly for tests.
func WithScheduler(sched Scheduler) SessionOption {
	return func(s *Session) { s.sched = sched }
}

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithRand makes question generation deterministic.
func WithRand(rnd *rand.Rand) SessionOption {
	return func(s *Session) { s.builder.rnd = rnd }
}

// WithObserver registers the event observer.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) { s.observer = o }
}

// WithFinishHandler receives the result summary when a game finishes.
func WithFinishHandler(f func(domain.ResultSummary)) SessionOption {
	return func(s *Session) { s.onFinish = f }
}

// Session is one player's game engine. Every state change happens under mu;
// timer callbacks carry the generation they were scheduled in and are dropped
// once the session moved on.
type Session struct {
	id       string
	settings Settings
	builder  *questionBuilder
	sched    Scheduler
	now      func() time.Time
	observer Observer
	onFinish func(domain.ResultSummary)

	mu         sync.Mutex
	state      domain.SessionState
	question   *domain.QuestionSpec
	kinds      []domain.QuestionKind
	generation uint64
	tick       Timer
	advance    Timer
	result     *domain.ResultSummary
}

// NewSession creates a session waiting in the menu.
func NewSession(id string, catalogs CatalogSource, settings Settings, opts ...SessionOption) *Session {
	settings = settings.withDefaults()
	s := &Session{
		id:       id,
		settings: settings,
		builder: &questionBuilder{
			rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
			catalogs:  catalogs,
			numberMax: settings.NumberMax,
		},
		sched: RealScheduler{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.menuState()
	return s
}

func (s *Session) ID() string { return s.id }

// State returns a snapshot of the scoreboard state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Question returns the live question, if one is awaiting an answer or showing feedback.
func (s *Session) Question() (domain.QuestionSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.question == nil {
		return domain.QuestionSpec{}, false
	}
	return *s.question, true
}

// Result returns the summary of the finished game.
func (s *Session) Result() (domain.ResultSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.ResultSummary{}, false
	}
	return *s.result, true
}

// Initialize starts a new game, discarding any game in progress, and asks question 1.
func (s *Session) Initialize(mode domain.Mode, playerName string) error {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return domain.ErrPlayerNameRequired
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
	kinds := s.builder.kinds(mode)
	if len(kinds) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCatalogUnavailable, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.kinds = kinds
	s.state.PlayerName = name
	s.state.Mode = mode

	gen := s.generation
	s.tick = s.sched.Every(s.settings.TickInterval, func() { s.onTick(gen) })
	if err := s.nextQuestionLocked(); err != nil {
		s.resetLocked()
		return err
	}
	return nil
}

// SubmitAnswer scores optionID against the live question. Once a question is
// answered further submissions return ErrAnswerLocked and change nothing.
func (s *Session) SubmitAnswer(optionID string) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Phase.Active() || s.question == nil {
		return domain.AnswerResult{}, domain.ErrSessionNotActive
	}
	if s.state.Locked {
		return domain.AnswerResult{}, domain.ErrAnswerLocked
	}
	if !hasOption(s.question.Options, optionID) {
		return domain.AnswerResult{}, domain.ErrOptionNotFound
	}

	s.state.Locked = true
	s.state.Phase = domain.PhaseAnswered

	result := domain.AnswerResult{
		Position:        s.question.Position,
		OptionID:        optionID,
		CorrectOptionID: s.question.Correct.ID,
		Correct:         optionID == s.question.Correct.ID,
	}
	if result.Correct {
		result.Awarded = s.settings.PointsPerQuestion
		s.state.Score += result.Awarded
	}
	result.TotalScore = s.state.Score
	s.emitLocked(domain.Event{Type: domain.EventFeedback, State: s.state, Answer: &result})

	gen := s.generation
	s.advance = s.sched.AfterFunc(s.settings.AdvanceDelay, func() { s.onAdvance(gen) })
	return result, nil
}

// Abort leaves the current game without a result and returns to the menu.
func (s *Session) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == domain.PhaseMenu {
		return domain.ErrSessionNotActive
	}
	s.resetLocked()
	s.emitLocked(domain.Event{Type: domain.EventMenu, State: s.state})
	return nil
}

// Close stops every timer; used when the player disconnects.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) onTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || !s.state.Phase.Active() {
		return
	}
	s.state.ElapsedSeconds++
	s.emitLocked(domain.Event{Type: domain.EventTick, State: s.state})
}

func (s *Session) onAdvance(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.state.Phase != domain.PhaseAnswered {
		return
	}
	s.advance = nil
	if err := s.nextQuestionLocked(); err != nil {
		log.Printf("session %s: next question: %v", s.id, err)
		s.resetLocked()
		s.emitLocked(domain.Event{Type: domain.EventMenu, State: s.state})
	}
}

// nextQuestionLocked asks the next question, or finishes once all were asked.
func (s *Session) nextQuestionLocked() error {
	if s.state.QuestionIndex >= s.state.TotalQuestions {
		s.finishLocked()
		return nil
	}
	q, err := s.builder.build(s.builder.pick(s.kinds), s.state.QuestionIndex+1)
	if err != nil {
		return err
	}
	s.state.QuestionIndex = q.Position
	s.state.Locked = false
	s.state.Phase = domain.PhaseAwaitingAnswer
	s.question = &q

	live := q
	s.emitLocked(domain.Event{Type: domain.EventQuestion, State: s.state, Question: &live})
	return nil
}

func (s *Session) finishLocked() {
	s.stopTimersLocked()
	s.generation++
	s.question = nil
	s.state.Phase = domain.PhaseFinished
	s.state.Locked = false

	result := domain.ResultSummary{
		PlayerName:     s.state.PlayerName,
		Score:          s.state.Score,
		TotalQuestions: s.state.TotalQuestions,
		ModeLabel:      s.state.Mode.Label(),
		Timestamp:      s.now(),
	}
	s.result = &result
	s.emitLocked(domain.Event{Type: domain.EventFinished, State: s.state, Result: &result})
	if s.onFinish != nil {
		s.onFinish(result)
	}
}

// resetLocked cancels pending callbacks and returns to an empty menu state.
func (s *Session) resetLocked() {
	s.stopTimersLocked()
	s.generation++
	s.question = nil
	s.kinds = nil
	s.result = nil
	s.state = s.menuState()
}

func (s *Session) stopTimersLocked() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

func (s *Session) menuState() domain.SessionState {
	return domain.SessionState{
		Phase:          domain.PhaseMenu,
		TotalQuestions: s.settings.QuestionCount,
	}
}

func (s *Session) emitLocked(ev domain.Event) {
	if s.observer != nil {
		s.observer.OnEvent(ev)
	}
}

func hasOption(options []domain.Option, id string) bool {
	for _, opt := range options {
		if opt.ID == id {
			return true
		}
	}
	return false
}
