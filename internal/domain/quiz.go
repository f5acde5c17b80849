package domain

import (
	"strconv"
	"strings"
	"time"
)

// QuizIDKind tags which comparison domain a QuizID belongs to.
type QuizIDKind int

const (
	StringID QuizIDKind = iota
	NumericID
)

// QuizID is an opaque quiz identifier. The wire may carry it as a number or a
// string; comparisons dispatch on Kind and never coerce between domains.
type QuizID struct {
	Kind QuizIDKind
	raw  string
	num  int64
}

// ParseQuizID builds a QuizID from its wire text. Canonical base-10 integers
// that fit in int64 are numeric, everything else is a string identifier.
func ParseQuizID(s string) QuizID {
	if isCanonicalInt(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return QuizID{Kind: NumericID, raw: s, num: n}
		}
	}
	return QuizID{Kind: StringID, raw: s}
}

func isCanonicalInt(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return s != "-0"
}

// String returns the identifier exactly as it appeared on the wire.
func (id QuizID) String() string {
	return id.raw
}

// IsZero reports whether the identifier is empty.
func (id QuizID) IsZero() bool {
	return id.raw == ""
}

// Compare orders two identifiers: numerically when both are numeric,
// lexicographically otherwise. Numeric identifiers sort before string ones so
// the ordering stays total even for mixed input.
func (id QuizID) Compare(other QuizID) int {
	switch {
	case id.Kind == NumericID && other.Kind == NumericID:
		switch {
		case id.num < other.num:
			return -1
		case id.num > other.num:
			return 1
		}
		return 0
	case id.Kind != other.Kind:
		if id.Kind == NumericID {
			return -1
		}
		return 1
	}
	return strings.Compare(id.raw, other.raw)
}

// AnsweredQuizRecord is one entry of a pair's answered-quiz history.
type AnsweredQuizRecord struct {
	QuizID         QuizID
	SelfAnsweredAt *time.Time
	AnsweredAt     *time.Time
	CreatedAt      time.Time
}

// EffectiveCompletion returns answeredAt, falling back to selfAnsweredAt and
// then createdAt.
func (r AnsweredQuizRecord) EffectiveCompletion() time.Time {
	if r.AnsweredAt != nil {
		return *r.AnsweredAt
	}
	if r.SelfAnsweredAt != nil {
		return *r.SelfAnsweredAt
	}
	return r.CreatedAt
}

// UnansweredQuizRecord is one entry of the pair's backlog.
type UnansweredQuizRecord struct {
	QuizID    QuizID
	CreatedAt time.Time
}

// Question is a single quiz question with its ordered options.
type Question struct {
	Text    string
	Options []string
}

// QuizContent is the body of a quiz. It is never mutated after it is fetched.
type QuizContent struct {
	ID        QuizID
	Title     string
	Questions []Question
}

// MinAnswerChoice and MaxAnswerChoice bound a single AnswerChoice.
const (
	MinAnswerChoice = 1
	MaxAnswerChoice = 4
)

// ScheduleStatus is the outcome of a scheduling decision.
type ScheduleStatus int

const (
	ScheduleReady ScheduleStatus = iota
	ScheduleAlreadyDone
)

// Schedule is the result of resolving today's quiz.
type Schedule struct {
	Status ScheduleStatus
	QuizID QuizID
	// LastCompletedAt is set when the pair has any history.
	LastCompletedAt *time.Time
}

// TodaysQuiz is what the session returns for the current day.
type TodaysQuiz struct {
	AlreadyDone bool
	QuizID      QuizID
	Content     *QuizContent
}
