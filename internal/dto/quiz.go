package dto

import (
	"fmt"

	"couples-sync/internal/domain"
)

// AnsweredQuiz is one element of /get-answered-quizes.
type AnsweredQuiz struct {
	QuizID         FlexString `json:"quiz_id"`
	ID             FlexString `json:"id"`
	SelfAnsweredAt FlexTime   `json:"self_answered_at"`
	AnsweredAt     FlexTime   `json:"answered_at"`
	CreatedAt      FlexTime   `json:"created_at"`
}

// ToDomain converts the wire record. A record without any timestamp has no
// effective completion time and is rejected.
func (a AnsweredQuiz) ToDomain() (domain.AnsweredQuizRecord, error) {
	id := quizIDOf(a.QuizID, a.ID)
	if id.IsZero() {
		return domain.AnsweredQuizRecord{}, fmt.Errorf("answered quiz record has no quiz_id")
	}
	if !a.SelfAnsweredAt.Valid && !a.AnsweredAt.Valid && !a.CreatedAt.Valid {
		return domain.AnsweredQuizRecord{}, fmt.Errorf("answered quiz %s has no timestamps", id)
	}
	return domain.AnsweredQuizRecord{
		QuizID:         id,
		SelfAnsweredAt: a.SelfAnsweredAt.Ptr(),
		AnsweredAt:     a.AnsweredAt.Ptr(),
		CreatedAt:      a.CreatedAt.Time,
	}, nil
}

// UnansweredQuiz is one element of /get-unanswered-quizzes-for-pair.
type UnansweredQuiz struct {
	QuizID    FlexString `json:"quiz_id"`
	ID        FlexString `json:"id"`
	CreatedAt FlexTime   `json:"created_at"`
}

func (u UnansweredQuiz) ToDomain() (domain.UnansweredQuizRecord, error) {
	id := quizIDOf(u.QuizID, u.ID)
	if id.IsZero() {
		return domain.UnansweredQuizRecord{}, fmt.Errorf("unanswered quiz record has no quiz_id")
	}
	if !u.CreatedAt.Valid {
		return domain.UnansweredQuizRecord{}, fmt.Errorf("unanswered quiz %s has no created_at", id)
	}
	return domain.UnansweredQuizRecord{QuizID: id, CreatedAt: u.CreatedAt.Time}, nil
}

// QuestionResponse is a single question inside QuizContentResponse.
type QuestionResponse struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizContentResponse is the body of /get-quiz-content.
type QuizContentResponse struct {
	QuizID    FlexString         `json:"quiz_id"`
	ID        FlexString         `json:"id"`
	Title     string             `json:"title"`
	Questions []QuestionResponse `json:"questions"`
}

// ToDomain converts the wire body. fallback is used when the body does not
// echo the quiz id.
func (q QuizContentResponse) ToDomain(fallback domain.QuizID) (*domain.QuizContent, error) {
	id := quizIDOf(q.QuizID, q.ID)
	if id.IsZero() {
		id = fallback
	}
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("quiz %s has no questions", id)
	}
	questions := make([]domain.Question, 0, len(q.Questions))
	for i, question := range q.Questions {
		if len(question.Options) == 0 || len(question.Options) > domain.MaxAnswerChoice {
			return nil, fmt.Errorf("quiz %s question %d has %d options, want 1..%d",
				id, i, len(question.Options), domain.MaxAnswerChoice)
		}
		options := make([]string, len(question.Options))
		copy(options, question.Options)
		questions = append(questions, domain.Question{Text: question.Question, Options: options})
	}
	return &domain.QuizContent{ID: id, Title: q.Title, Questions: questions}, nil
}

func quizIDOf(primary, alias FlexString) domain.QuizID {
	if primary != "" {
		return domain.ParseQuizID(string(primary))
	}
	return domain.ParseQuizID(string(alias))
}
