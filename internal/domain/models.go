package domain

import "time"

// Mode selects which question kinds a game asks.
type Mode string

const (
	ModeShape  Mode = "shape"
	ModeColor  Mode = "color"
	ModeNumber Mode = "number"
	ModeMixed  Mode = "mixed"
)

// Modes lists the selectable game modes in menu order.
func Modes() []Mode {
	return []Mode{ModeShape, ModeColor, ModeNumber, ModeMixed}
}

// Label is the human readable mode name printed on certificates.
func (m Mode) Label() string {
	switch m {
	case ModeShape:
		return "Shape Finding"
	case ModeColor:
		return "Color Finding"
	case ModeNumber:
		return "Number Finding"
	case ModeMixed:
		return "Mixed Challenge"
	}
	return "Game"
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeShape, ModeColor, ModeNumber, ModeMixed:
		return true
	}
	return false
}

// QuestionKind is the type of a single question.
type QuestionKind string

const (
	KindShape  QuestionKind = "shape"
	KindColor  QuestionKind = "color"
	KindNumber QuestionKind = "number"
)

// Phase is the engine state of a session.
type Phase string

const (
	PhaseMenu           Phase = "menu"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseAnswered       Phase = "answered"
	PhaseFinished       Phase = "finished"
)

// Active reports whether a game is in progress.
func (p Phase) Active() bool {
	return p == PhaseAwaitingAnswer || p == PhaseAnswered
}

// Option is one answer candidate. ID is the answer identity.
type Option struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Asset     string `json:"asset,omitempty"`
	TextColor string `json:"textColor,omitempty"`
}

// QuestionSpec is a single generated question. Options contain Correct exactly once.
type QuestionSpec struct {
	Kind     QuestionKind `json:"kind"`
	Position int          `json:"position"`
	Prompt   string       `json:"prompt"`
	Subject  string       `json:"subject"`
	Correct  Option       `json:"-"`
	Options  []Option     `json:"options"`
}

// SessionState is the scoreboard-visible state of one game session.
type SessionState struct {
	PlayerName     string `json:"playerName"`
	Mode           Mode   `json:"mode"`
	Phase          Phase  `json:"phase"`
	QuestionIndex  int    `json:"questionIndex"`
	TotalQuestions int    `json:"totalQuestions"`
	Score          int    `json:"score"`
	Locked         bool   `json:"locked"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// AnswerResult summarizes how one submitted answer was scored.
type AnswerResult struct {
	Position        int    `json:"position"`
	OptionID        string `json:"optionId"`
	CorrectOptionID string `json:"correctOptionId"`
	Correct         bool   `json:"correct"`
	Awarded         int    `json:"awarded"`
	TotalScore      int    `json:"totalScore"`
}

// ResultSummary is produced once when a session finishes.
type ResultSummary struct {
	PlayerName     string    `json:"playerName"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	ModeLabel      string    `json:"modeLabel"`
	Timestamp      time.Time `json:"timestamp"`
}

// Certificate is a rendered, downloadable certificate artifact.
type Certificate struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EventType tags engine notifications.
type EventType string

const (
	EventQuestion EventType = "question"
	EventFeedback EventType = "feedback"
	EventTick     EventType = "tick"
	EventFinished EventType = "finished"
	EventMenu     EventType = "menu"
)

// Event is emitted by a session to its observer. Only the field matching Type is set.
type Event struct {
	Type     EventType      `json:"type"`
	State    SessionState   `json:"state"`
	Question *QuestionSpec  `json:"question,omitempty"`
	Answer   *AnswerResult  `json:"answer,omitempty"`
	Result   *ResultSummary `json:"result,omitempty"`
}
