package app

import "time"

// Settings tune a game session.
type Settings struct {
	QuestionCount     int
	PointsPerQuestion int
	AdvanceDelay      time.Duration
	TickInterval      time.Duration
	NumberMax         int
	// SaveTimeout bounds persisting a finished game's result.
	SaveTimeout       time.Duration
}

// DefaultSettings matches the classic ten question game.
func DefaultSettings() Settings {
	return Settings{
		QuestionCount:     10,
		PointsPerQuestion: 10,
		AdvanceDelay:      1200 * time.Millisecond,
		TickInterval:      time.Second,
		NumberMax:         20,
		SaveTimeout:       5 * time.Second,
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.QuestionCount <= 0 {
		s.QuestionCount = def.QuestionCount
	}
	if s.PointsPerQuestion <= 0 {
		s.PointsPerQuestion = def.PointsPerQuestion
	}
	if s.AdvanceDelay <= 0 {
		s.AdvanceDelay = def.AdvanceDelay
	}
	if s.TickInterval <= 0 {
		s.TickInterval = def.TickInterval
	}
	if s.NumberMax <= 0 {
		s.NumberMax = def.NumberMax
	}
	if s.SaveTimeout <= 0 {
		s.SaveTimeout = def.SaveTimeout
	}
	return s
}
