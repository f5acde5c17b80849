package service

import (
	"context"
	"time"

	"couples-sync/internal/config"
	"couples-sync/internal/domain"
	"couples-sync/internal/dto"
	"couples-sync/internal/logger"
	"couples-sync/internal/wire"

	"go.uber.org/zap"
)

// QuizScheduler decides whether the pair has already done a quiz today and,
// if not, which quiz comes next.
type QuizScheduler interface {
	Resolve(ctx context.Context, token domain.Token) (domain.Schedule, error)
	ResolveAt(ctx context.Context, token domain.Token, now time.Time) (domain.Schedule, error)
}

type quizSchedulerImpl struct {
	transport domain.Transport
	threshold time.Duration
	now       func() time.Time
}

// NewQuizScheduler creates a new instance of QuizScheduler. A non-positive
// threshold falls back to config.DefaultScheduleThreshold.
func NewQuizScheduler(transport domain.Transport, threshold time.Duration) QuizScheduler {
	if threshold <= 0 {
		threshold = config.DefaultScheduleThreshold
	}
	return &quizSchedulerImpl{transport: transport, threshold: threshold, now: time.Now}
}

func (s *quizSchedulerImpl) Resolve(ctx context.Context, token domain.Token) (domain.Schedule, error) {
	return s.ResolveAt(ctx, token, s.now())
}

func (s *quizSchedulerImpl) ResolveAt(ctx context.Context, token domain.Token, now time.Time) (domain.Schedule, error) {
	answered, err := s.fetchAnswered(ctx, token)
	if err != nil {
		return domain.Schedule{}, err
	}

	var lastCompleted *time.Time
	if latest, ok := MostRecentCompletion(answered); ok {
		lastCompleted = &latest
		if now.Sub(latest) < s.threshold {
			logger.Get().Debug("Scheduler: quiz already done in window",
				zap.Time("last_completed_at", latest),
				zap.Duration("threshold", s.threshold))
			return domain.Schedule{Status: domain.ScheduleAlreadyDone, LastCompletedAt: lastCompleted}, nil
		}
	}

	pool, err := s.fetchUnanswered(ctx, token)
	if err != nil {
		return domain.Schedule{}, err
	}
	next, ok := SelectOldest(pool)
	if !ok {
		return domain.Schedule{}, domain.NewNoQuizAvailableError()
	}

	logger.Get().Debug("Scheduler: selected next quiz",
		zap.Stringer("quiz_id", next.QuizID),
		zap.Int("pool_size", len(pool)))
	return domain.Schedule{Status: domain.ScheduleReady, QuizID: next.QuizID, LastCompletedAt: lastCompleted}, nil
}

func (s *quizSchedulerImpl) fetchAnswered(ctx context.Context, token domain.Token) ([]domain.AnsweredQuizRecord, error) {
	resp, err := call(ctx, s.transport, pathAnsweredQuizzes, tokenForm(token))
	if err != nil {
		return nil, err
	}
	var raw []dto.AnsweredQuiz
	if err := wire.Decode(resp.Body, &raw); err != nil {
		return nil, err
	}
	records := make([]domain.AnsweredQuizRecord, 0, len(raw))
	for _, r := range raw {
		record, err := r.ToDomain()
		if err != nil {
			return nil, domain.NewMalformedResponseError("invalid answered quiz record", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *quizSchedulerImpl) fetchUnanswered(ctx context.Context, token domain.Token) ([]domain.UnansweredQuizRecord, error) {
	resp, err := call(ctx, s.transport, pathUnansweredQuizzes, tokenForm(token))
	if err != nil {
		return nil, err
	}
	var raw []dto.UnansweredQuiz
	if err := wire.Decode(resp.Body, &raw); err != nil {
		return nil, err
	}
	records := make([]domain.UnansweredQuizRecord, 0, len(raw))
	for _, r := range raw {
		record, err := r.ToDomain()
		if err != nil {
			return nil, domain.NewMalformedResponseError("invalid unanswered quiz record", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// MostRecentCompletion returns the latest effective completion time over all
// records, in whatever order they arrive.
func MostRecentCompletion(records []domain.AnsweredQuizRecord) (time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, false
	}
	latest := records[0].EffectiveCompletion()
	for _, r := range records[1:] {
		if t := r.EffectiveCompletion(); t.After(latest) {
			latest = t
		}
	}
	return latest, true
}

// SelectOldest returns the record with the earliest CreatedAt. Ties go to the
// smaller QuizID.
func SelectOldest(pool []domain.UnansweredQuizRecord) (domain.UnansweredQuizRecord, bool) {
	if len(pool) == 0 {
		return domain.UnansweredQuizRecord{}, false
	}
	best := pool[0]
	for _, r := range pool[1:] {
		switch {
		case r.CreatedAt.Before(best.CreatedAt):
			best = r
		case r.CreatedAt.Equal(best.CreatedAt) && r.QuizID.Compare(best.QuizID) < 0:
			best = r
		}
	}
	return best, true
}
