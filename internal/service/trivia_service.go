package service

import (
	"context"
	"math/rand"

	"couples-sync/internal/config"
	"couples-sync/internal/domain"
	"couples-sync/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// TriviaService builds the daily conversation question and riddle quizzes
// from an external trivia source.
type TriviaService interface {
	DailyQuestion(ctx context.Context) (domain.DailyQuestion, error)
	RiddleQuiz(ctx context.Context) (domain.RiddleQuiz, error)
	FetchRandomWords(ctx context.Context, n int) []string
}

type triviaServiceImpl struct {
	source    domain.TriviaSource
	wordCount int
	shuffle   func(n int, swap func(i, j int))
	group     singleflight.Group
}

// NewTriviaService creates a new instance of TriviaService.
func NewTriviaService(source domain.TriviaSource, cfg config.TriviaConfig) TriviaService {
	wordCount := cfg.WordCount
	if wordCount < 0 {
		wordCount = config.DefaultTriviaWordCount
	}
	return &triviaServiceImpl{
		source:    source,
		wordCount: wordCount,
		shuffle:   rand.Shuffle,
	}
}

// DailyQuestion collapses concurrent callers into one upstream request.
func (s *triviaServiceImpl) DailyQuestion(ctx context.Context) (domain.DailyQuestion, error) {
	v, err, shared := s.group.Do("daily-question", func() (interface{}, error) {
		return s.source.Trivia(ctx)
	})
	if err != nil {
		return domain.DailyQuestion{}, err
	}
	if shared {
		logger.Get().Debug("Trivia: daily question request was shared")
	}
	return domain.DailyQuestion{Question: v.(string)}, nil
}

// RiddleQuiz fetches one riddle and mixes its answer with random decoy words.
func (s *triviaServiceImpl) RiddleQuiz(ctx context.Context) (domain.RiddleQuiz, error) {
	question, answer, err := s.source.Riddle(ctx)
	if err != nil {
		return domain.RiddleQuiz{}, err
	}

	options := append([]string{answer}, s.FetchRandomWords(ctx, s.wordCount)...)
	s.shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return domain.RiddleQuiz{Question: question, Answer: answer, Options: options}, nil
}

// FetchRandomWords requests n words concurrently. Each request owns one slot,
// so the result keeps request order; failed requests leave their slot empty
// and are dropped.
func (s *triviaServiceImpl) FetchRandomWords(ctx context.Context, n int) []string {
	if n <= 0 {
		return nil
	}

	slots := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			word, err := s.source.RandomWord(gctx)
			if err != nil {
				logger.Get().Warn("Trivia: random word request failed",
					zap.Int("slot", i),
					zap.Error(err))
				return nil
			}
			slots[i] = word
			return nil
		})
	}
	_ = g.Wait()

	words := make([]string, 0, n)
	for _, word := range slots {
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}
