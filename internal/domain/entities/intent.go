package entities

import (
	"time"
)

// QueryIntent is derived per-request from the question text. It is never
// persisted; it drives which retrieval branches run and how results render.
type QueryIntent struct {
	WantsHappyHours bool
	WantsEvents     bool
	WantsSpecials   bool
	WantsMenu       bool
	WantsHours      bool
	WantsContact    bool
	WantsVotes      bool
	WantsBrunch     bool
	WantsDinner     bool
	WantsBars       bool

	// TargetWeekday is the lowercase weekday name the question is about;
	// TargetDate is its next occurrence on or after today in the business
	// timezone, never a past date.
	TargetWeekday string
	TargetDate    time.Time

	TimeSensitive bool
}
