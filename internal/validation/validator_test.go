package validation

import (
	"testing"

	"couples-sync/internal/domain"

	"github.com/stretchr/testify/assert"
)

func threeQuestionQuiz() *domain.QuizContent {
	q := domain.Question{Text: "q", Options: []string{"a", "b", "c", "d"}}
	return &domain.QuizContent{ID: domain.ParseQuizID("1"), Questions: []domain.Question{q, q, q}}
}

func TestValidator_ValidateCredentials(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateCredentials("sam", "pw"))

	errs := v.ValidateCredentials("  ", "")
	assert.Len(t, errs, 2)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "password", errs[1].Field)
}

func TestValidator_ValidateLinkCode(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateLinkCode("4821"))
	assert.Len(t, v.ValidateLinkCode(""), 1)
}

func TestValidator_ValidateAnswerSheet(t *testing.T) {
	v := NewValidator()
	quiz := threeQuestionQuiz()
	id := domain.ParseQuizID("1")

	tests := []struct {
		name        string
		quizID      domain.QuizID
		content     *domain.QuizContent
		answers     []int
		guesses     []int
		withGuesses bool
		fields      []string
	}{
		{"complete", id, quiz, []int{1, 2, 3}, nil, false, nil},
		{"complete with guesses", id, quiz, []int{1, 2, 3}, []int{4, 4, 4}, true, nil},
		{"missing answer", id, quiz, []int{1, 2}, nil, false, []string{"answers"}},
		{"missing guess", id, quiz, []int{1, 2, 3}, []int{1}, true, []string{"guesses"}},
		{"no quiz id", domain.QuizID{}, quiz, []int{1, 2, 3}, nil, false, []string{"quiz_id"}},
		{"no content", id, nil, []int{1}, nil, false, []string{"quiz_content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateAnswerSheet(tt.quizID, tt.content, tt.answers, tt.guesses, tt.withGuesses)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidationErrors_AsInvalidInput(t *testing.T) {
	assert.NoError(t, domain.ValidationErrors(nil).AsInvalidInput())

	err := NewValidator().ValidateLinkCode("").AsInvalidInput()
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "link_code: is required")
}
