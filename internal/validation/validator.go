package validation

import (
	"strings"

	"couples-sync/internal/domain"
)

// Validator checks client-side requests before anything is sent.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCredentials validates register and login input.
func (v *Validator) ValidateCredentials(username, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(username) == "" {
		errors = append(errors, domain.NewMissingFieldError("username"))
	}
	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}

	return errors
}

// ValidateLinkCode validates a partner's link code.
func (v *Validator) ValidateLinkCode(code string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(code) == "" {
		errors = append(errors, domain.NewMissingFieldError("link_code"))
	}

	return errors
}

// ValidateAnswerSheet checks that there is exactly one answer per question,
// and as many partner guesses when guesses are submitted. Value ranges are
// left to the codec.
func (v *Validator) ValidateAnswerSheet(quizID domain.QuizID, content *domain.QuizContent, answers, guesses []int, withGuesses bool) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if quizID.IsZero() {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	}
	if content == nil {
		errors = append(errors, domain.NewMissingFieldError("quiz_content"))
		return errors
	}

	questionCount := len(content.Questions)
	if len(answers) != questionCount {
		errors = append(errors, domain.NewCountMismatchError("answers", len(answers), questionCount))
	}
	if withGuesses && len(guesses) != questionCount {
		errors = append(errors, domain.NewCountMismatchError("guesses", len(guesses), questionCount))
	}

	return errors
}
