package service

import (
	"context"
	"net/url"

	"couples-sync/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTransport ---
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Post(ctx context.Context, path string, form url.Values) (*domain.Response, error) {
	args := m.Called(ctx, path, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Response), args.Error(1)
}

// --- MockTriviaSource ---
type MockTriviaSource struct {
	mock.Mock
}

func (m *MockTriviaSource) Trivia(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTriviaSource) Riddle(ctx context.Context) (string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTriviaSource) RandomWord(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func respond(status int, body string) *domain.Response {
	return &domain.Response{Status: status, Body: []byte(body)}
}

// formWith matches a form carrying the given key/value pairs.
func formWith(pairs ...string) interface{} {
	return mock.MatchedBy(func(form url.Values) bool {
		for i := 0; i+1 < len(pairs); i += 2 {
			if form.Get(pairs[i]) != pairs[i+1] {
				return false
			}
		}
		return true
	})
}
