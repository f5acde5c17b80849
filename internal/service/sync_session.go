package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"couples-sync/internal/codec"
	"couples-sync/internal/config"
	"couples-sync/internal/domain"
	"couples-sync/internal/dto"
	"couples-sync/internal/logger"
	"couples-sync/internal/validation"
	"couples-sync/internal/wire"

	"go.uber.org/zap"
)

// SyncSession is the single entry point used by the CLI. It is safe for
// concurrent use; every call is one or more blocking request/response pairs.
type SyncSession interface {
	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (domain.Token, error)

	EnsureLinked(ctx context.Context, token domain.Token, state domain.PairingState) (domain.PairingState, error)
	RedeemCode(ctx context.Context, token domain.Token, state domain.PairingState, code string) (domain.PairingState, error)

	TodaysQuiz(ctx context.Context, token domain.Token) (domain.TodaysQuiz, error)
	QuizContent(ctx context.Context, token domain.Token, quizID domain.QuizID) (*domain.QuizContent, error)
	SubmitAnswers(ctx context.Context, token domain.Token, quizID domain.QuizID, content *domain.QuizContent, answers []int) (domain.Ack, error)
	SubmitWithGuesses(ctx context.Context, token domain.Token, quizID domain.QuizID, content *domain.QuizContent, answers, guesses []int) (domain.Ack, error)

	PartnerInfo(ctx context.Context, token domain.Token) (domain.Profile, error)
	UserInfo(ctx context.Context, token domain.Token) (domain.Profile, error)
	SetUserInfo(ctx context.Context, token domain.Token, moodScale int, moodStatus string) (domain.Ack, error)
}

type syncSessionImpl struct {
	transport domain.Transport
	pairing   PairingClient
	scheduler QuizScheduler
	validator *validation.Validator
}

// NewSyncSession creates a session over transport.
func NewSyncSession(transport domain.Transport, schedulerCfg config.SchedulerConfig) SyncSession {
	return &syncSessionImpl{
		transport: transport,
		pairing:   NewPairingClient(transport),
		scheduler: NewQuizScheduler(transport, schedulerCfg.Threshold),
		validator: validation.NewValidator(),
	}
}

func credentialsForm(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func (s *syncSessionImpl) Register(ctx context.Context, username, password string) error {
	if err := s.validator.ValidateCredentials(username, password).AsInvalidInput(); err != nil {
		return err
	}
	if _, err := call(ctx, s.transport, pathAddUser, credentialsForm(username, password)); err != nil {
		return err
	}
	logger.Get().Info("Session: user registered", zap.String("username", username))
	return nil
}

func (s *syncSessionImpl) Authenticate(ctx context.Context, username, password string) (domain.Token, error) {
	if err := s.validator.ValidateCredentials(username, password).AsInvalidInput(); err != nil {
		return "", err
	}
	resp, err := call(ctx, s.transport, pathLogin, credentialsForm(username, password))
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(resp.Body))
	if token == "" {
		return "", domain.NewMalformedResponseError("login returned an empty token", nil)
	}
	logger.Get().Info("Session: authenticated", zap.String("username", username))
	return domain.Token(token), nil
}

func (s *syncSessionImpl) EnsureLinked(ctx context.Context, token domain.Token, state domain.PairingState) (domain.PairingState, error) {
	return s.pairing.RequestCode(ctx, token, state)
}

func (s *syncSessionImpl) RedeemCode(ctx context.Context, token domain.Token, state domain.PairingState, code string) (domain.PairingState, error) {
	if err := s.validator.ValidateLinkCode(code).AsInvalidInput(); err != nil {
		return state, err
	}
	return s.pairing.Redeem(ctx, token, state, code)
}

// TodaysQuiz returns either AlreadyDone or the next quiz with its content.
func (s *syncSessionImpl) TodaysQuiz(ctx context.Context, token domain.Token) (domain.TodaysQuiz, error) {
	schedule, err := s.scheduler.Resolve(ctx, token)
	if err != nil {
		return domain.TodaysQuiz{}, err
	}
	if schedule.Status == domain.ScheduleAlreadyDone {
		return domain.TodaysQuiz{AlreadyDone: true}, nil
	}

	content, err := s.QuizContent(ctx, token, schedule.QuizID)
	if err != nil {
		return domain.TodaysQuiz{}, err
	}
	return domain.TodaysQuiz{QuizID: schedule.QuizID, Content: content}, nil
}

func (s *syncSessionImpl) QuizContent(ctx context.Context, token domain.Token, quizID domain.QuizID) (*domain.QuizContent, error) {
	if quizID.IsZero() {
		return nil, domain.NewInvalidInputError("quiz_id is required")
	}
	form := tokenForm(token)
	form.Set("quiz_id", quizID.String())
	resp, err := call(ctx, s.transport, pathQuizContent, form)
	if err != nil {
		return nil, err
	}

	var raw dto.QuizContentResponse
	if err := wire.Decode(resp.Body, &raw); err != nil {
		return nil, err
	}
	content, err := raw.ToDomain(quizID)
	if err != nil {
		return nil, domain.NewMalformedResponseError("invalid quiz content", err)
	}
	return content, nil
}

func (s *syncSessionImpl) SubmitAnswers(ctx context.Context, token domain.Token, quizID domain.QuizID, content *domain.QuizContent, answers []int) (domain.Ack, error) {
	return s.submit(ctx, token, quizID, content, codec.ModeSingle, answers, nil)
}

func (s *syncSessionImpl) SubmitWithGuesses(ctx context.Context, token domain.Token, quizID domain.QuizID, content *domain.QuizContent, answers, guesses []int) (domain.Ack, error) {
	return s.submit(ctx, token, quizID, content, codec.ModeDual, answers, guesses)
}

// submit validates and encodes the whole sheet before anything is sent, so a
// rejected sheet never reaches the service.
func (s *syncSessionImpl) submit(ctx context.Context, token domain.Token, quizID domain.QuizID, content *domain.QuizContent, mode codec.Mode, answers, guesses []int) (domain.Ack, error) {
	if err := s.validator.ValidateAnswerSheet(quizID, content, answers, guesses, mode == codec.ModeDual).AsInvalidInput(); err != nil {
		return domain.Ack{}, err
	}
	packed, err := codec.EncodeMode(mode, answers, guesses)
	if err != nil {
		return domain.Ack{}, err
	}

	form := tokenForm(token)
	form.Set("quiz_id", quizID.String())
	form.Set("answer", packed)
	resp, err := call(ctx, s.transport, pathAnswerQuiz, form)
	if err != nil {
		return domain.Ack{}, err
	}

	logger.Get().Info("Session: answers submitted",
		zap.Stringer("quiz_id", quizID),
		zap.Stringer("mode", mode),
		zap.Int("questions", len(answers)))
	return ackOf(resp), nil
}

func (s *syncSessionImpl) PartnerInfo(ctx context.Context, token domain.Token) (domain.Profile, error) {
	return s.profile(ctx, token, pathPartnerInfo)
}

func (s *syncSessionImpl) UserInfo(ctx context.Context, token domain.Token) (domain.Profile, error) {
	return s.profile(ctx, token, pathUserInfo)
}

func (s *syncSessionImpl) profile(ctx context.Context, token domain.Token, path string) (domain.Profile, error) {
	resp, err := call(ctx, s.transport, path, tokenForm(token))
	if err != nil {
		return domain.Profile{}, err
	}
	var raw dto.ProfileResponse
	if err := wire.Decode(resp.Body, &raw); err != nil {
		return domain.Profile{}, err
	}
	return raw.ToDomain(), nil
}

func (s *syncSessionImpl) SetUserInfo(ctx context.Context, token domain.Token, moodScale int, moodStatus string) (domain.Ack, error) {
	if moodScale < 0 {
		return domain.Ack{}, domain.NewInvalidInputError("mood_scale must not be negative")
	}
	form := tokenForm(token)
	form.Set("mood_scale", strconv.Itoa(moodScale))
	form.Set("mood_status", moodStatus)
	resp, err := call(ctx, s.transport, pathSetUserInfo, form)
	if err != nil {
		return domain.Ack{}, err
	}
	return ackOf(resp), nil
}
