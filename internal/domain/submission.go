package domain

import "time"

// Validity is the ternary validation state of a submission
type Validity string

const (
	ValidityUnknown Validity = "UNKNOWN"
	ValidityValid   Validity = "VALID"
	ValidityInvalid Validity = "INVALID"
)

// Submission records one accepted word. Created at intake with the geometric
// check already final; Validated/Score/IsDuplicate are written only by the
// end-of-round resolution pass, which may rerun but always rebuilds them
// from scratch.
type Submission struct {
	Word              string    `json:"word"`
	SubmittedAt       time.Time `json:"submittedAt"`
	SecondsSinceStart float64   `json:"secondsSinceStart"`
	Validated         Validity  `json:"validated"`
	IsDuplicate       bool      `json:"isDuplicate"`
	Score             int       `json:"score"`
}

// NewSubmission creates a submission record for an accepted word
func NewSubmission(word string, roundStart time.Time) *Submission {
	now := time.Now()
	return &Submission{
		Word:              word,
		SubmittedAt:       now,
		SecondsSinceStart: now.Sub(roundStart).Seconds(),
		Validated:         ValidityUnknown,
	}
}

// Counts reports whether the submission contributes to the participant's score
func (s *Submission) Counts() bool {
	return s.Validated == ValidityValid && !s.IsDuplicate
}

// WordDecision is one host verdict supplied during manual validation
type WordDecision struct {
	Word    string `json:"word"`
	IsValid bool   `json:"isValid"`
}
