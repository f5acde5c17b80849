package domain

import (
	"context"
	"net/url"
)

// Response is what the remote service sent back: a status and a raw body.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport issues form-encoded POST requests against the remote service.
// It returns a TransportFailure error only when no response was received;
// non-2xx responses are returned as-is for the caller to branch on.
type Transport interface {
	Post(ctx context.Context, path string, form url.Values) (*Response, error)
}

// TriviaSource fetches from the external trivia API used for daily questions
// and riddle quizzes.
type TriviaSource interface {
	// Trivia returns the first trivia question.
	Trivia(ctx context.Context) (string, error)

	// Riddle returns the first riddle's question and answer.
	Riddle(ctx context.Context) (question, answer string, err error)

	// RandomWord returns a single random word.
	RandomWord(ctx context.Context) (string, error)
}

// DailyQuestion is the conversation prompt of the day.
type DailyQuestion struct {
	Question string
}

// RiddleQuiz is a riddle with the correct answer mixed into decoy options.
type RiddleQuiz struct {
	Question string
	Answer   string
	Options  []string
}
