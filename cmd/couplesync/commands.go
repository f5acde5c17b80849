package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"couples-sync/internal/adapter"
	"couples-sync/internal/adapter/trivia"
	"couples-sync/internal/cache"
	"couples-sync/internal/config"
	"couples-sync/internal/domain"
	"couples-sync/internal/logger"
	"couples-sync/internal/service"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// app holds everything a command needs. Collaborators are built lazily so
// commands that do not touch the remote service or Redis never dial them.
type app struct {
	cfg       *config.Config
	out       io.Writer
	user      string
	pass      string
	token     string
	guessList string
	tokens    domain.TokenStore

	session service.SyncSession
	trivia  service.TriviaService
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":       cmdRegister,
	"login":          cmdLogin,
	"link":           cmdLink,
	"redeem":         cmdRedeem,
	"today":          cmdToday,
	"answer":         cmdAnswer,
	"partner":        cmdPartner,
	"me":             cmdMe,
	"mood":           cmdMood,
	"daily-question": cmdDailyQuestion,
	"riddle":         cmdRiddle,
}

func run(ctx context.Context, cfg *config.Config, argv []string, out io.Writer) error {
	a := &app{cfg: cfg, out: out}

	flags := pflag.NewFlagSet("couplesync", pflag.ContinueOnError)
	flags.SetOutput(out)
	flags.StringVarP(&a.user, "user", "u", "", "username")
	flags.StringVarP(&a.pass, "password", "p", "", "password")
	flags.StringVarP(&a.token, "token", "t", "", "session token (otherwise loaded from the token store)")
	flags.StringVar(&a.guessList, "guesses", "", "comma separated partner guesses for answer")
	flags.Usage = func() { usage(out) }
	if err := flags.Parse(argv); err != nil {
		return domain.NewInvalidInputError(err.Error())
	}

	args := flags.Args()
	if len(args) == 0 {
		usage(out)
		return domain.NewInvalidInputError("no command given")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(out)
		return domain.NewInvalidInputError(fmt.Sprintf("unknown command %q", args[0]))
	}
	return cmd(ctx, a, args[1:])
}

func (a *app) syncSession() (service.SyncSession, error) {
	if a.session != nil {
		return a.session, nil
	}
	transport, err := adapter.NewHTTPTransport(a.cfg.Service)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("service config: %v", err))
	}
	a.session = service.NewSyncSession(transport, a.cfg.Scheduler)
	return a.session, nil
}

func (a *app) triviaService() (service.TriviaService, error) {
	if a.trivia != nil {
		return a.trivia, nil
	}
	client, err := trivia.NewClient(a.cfg.Trivia)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("trivia config: %v", err))
	}
	a.trivia = service.NewTriviaService(client, a.cfg.Trivia)
	return a.trivia, nil
}

// tokenStore returns nil when Redis is not configured.
func (a *app) tokenStore(ctx context.Context) domain.TokenStore {
	if a.tokens != nil || a.cfg.Redis.Address == "" {
		return a.tokens
	}
	client, err := cache.NewRedisClient(ctx, a.cfg.Redis)
	if err != nil {
		logger.Get().Warn("Token store unavailable", zap.Error(err))
		return nil
	}
	a.tokens = adapter.NewRedisTokenStore(client, a.cfg.Redis.TokenTTL)
	return a.tokens
}

// sessionToken prefers --token, then the token store entry for --user.
func (a *app) sessionToken(ctx context.Context) (domain.Token, error) {
	if a.token != "" {
		return domain.Token(a.token), nil
	}
	if a.user != "" {
		if store := a.tokenStore(ctx); store != nil {
			token, err := store.Load(ctx, a.user)
			if err == nil {
				return token, nil
			}
			if !errors.Is(err, domain.ErrTokenNotFound) {
				return "", err
			}
		}
	}
	return "", domain.NewInvalidInputError("not logged in: pass --token or run login with --user")
}

func cmdRegister(ctx context.Context, a *app, _ []string) error {
	session, err := a.syncSession()
	if err != nil {
		return err
	}
	if err := session.Register(ctx, a.user, a.pass); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s\n", a.user)
	return nil
}

func cmdLogin(ctx context.Context, a *app, _ []string) error {
	session, err := a.syncSession()
	if err != nil {
		return err
	}
	token, err := session.Authenticate(ctx, a.user, a.pass)
	if err != nil {
		return err
	}
	if store := a.tokenStore(ctx); store != nil {
		if err := store.Save(ctx, a.user, token, 0); err != nil {
			logger.Get().Warn("Failed to save token", zap.String("username", a.user), zap.Error(err))
		} else {
			fmt.Fprintf(a.out, "logged in as %s\n", a.user)
			return nil
		}
	}
	fmt.Fprintln(a.out, token)
	return nil
}

func cmdLink(ctx context.Context, a *app, _ []string) error {
	session, token, err := a.authed(ctx)
	if err != nil {
		return err
	}
	state, err := session.EnsureLinked(ctx, token, domain.NewUnlinkedState())
	if err != nil {
		if state.Phase == domain.Conflict {
			fmt.Fprintln(a.out, "already linked or a link is pending")
		}
		return err
	}
	fmt.Fprintf(a.out, "link code: %s\n", state.Code)
	return nil
}

func cmdRedeem(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return domain.NewInvalidInputError("usage: redeem <code>")
	}
	session, token, err := a.authed(ctx)
	if err != nil {
		return err
	}
	state, err := session.RedeemCode(ctx, token, domain.NewUnlinkedState(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "pairing: %s\n", state)
	return nil
}

func cmdToday(ctx context.Context, a *app, _ []string) error {
	session, token, err := a.authed(ctx)
	if err != nil {
		return err
	}
	today, err := session.TodaysQuiz(ctx, token)
	if err != nil {
		if domain.IsCode(err, domain.ErrNoQuizAvailable) {
			fmt.Fprintln(a.out, "no quiz available")
			return nil
		}
		return err
	}
	if today.AlreadyDone {
		fmt.Fprintln(a.out, "already done today")
		return nil
	}
	printQuiz(a.out, today.QuizID, today.Content)
	return nil
}

func printQuiz(w io.Writer, id domain.QuizID, content *domain.QuizContent) {
	fmt.Fprintf(w, "quiz %s: %s\n", id, content.Title)
	for i, q := range content.Questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "   %d) %s\n", j+1, opt)
		}
	}
}

func cmdAnswer(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return domain.NewInvalidInputError("usage: answer <quiz_id> <a1,a2,...> [--guesses g1,g2,...]")
	}
	answers, err := parseChoices(args[1])
	if err != nil {
		return err
	}
	session, token, err := a.authed(ctx)
	if err != nil {
		return err
	}

	quizID := domain.ParseQuizID(args[0])
	content, err := session.QuizContent(ctx, token, quizID)
	if err != nil {
		return err
	}

	var ack domain.Ack
	if a.guessList != "" {
		guesses, err := parseChoices(a.guessList)
		if err != nil {
			return err
		}
		ack, err = session.SubmitWithGuesses(ctx, token, quizID, content, answers, guesses)
		if err != nil {
			return err
		}
	} else {
		ack, err = session.SubmitAnswers(ctx, token, quizID, content, answers)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "submitted (%d) %s\n", ack.Status, ack.Message)
	return nil
}

// parseChoices reads "2,4,1" into answer values. Range checks are left to the
// codec.
func parseChoices(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	choices := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("answer %q is not a number", p))
		}
		choices = append(choices, n)
	}
	return choices, nil
}

func cmdPartner(ctx context.Context, a *app, _ []string) error {
	session, token, err := a.authed(ctx)
	if err != nil {
		return err
	}
	profile, err := session.PartnerInfo(ctx, token)
	if err != nil {
		return err
	}
	printProfile(a.out, profile)
	return nil
}

func cmdMe(ctx context.Context, a *app, _ []string) error {
	session, token, err := a.authed(ctx)
	if err != nil {
		return err
	}
	profile, err := session.UserInfo(ctx, token)
	if err != nil {
		return err
	}
	printProfile(a.out, profile)
	return nil
}

func printProfile(w io.Writer, p domain.Profile) {
	fmt.Fprintf(w, "%s (%s) mood %d: %s\n", p.DisplayName, p.Username, p.MoodScale, p.MoodStatus)
}

func cmdMood(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return domain.NewInvalidInputError("usage: mood <scale> <status>")
	}
	scale, err := strconv.Atoi(args[0])
	if err != nil {
		return domain.NewInvalidInputError(fmt.Sprintf("mood scale %q is not a number", args[0]))
	}
	session, token, err := a.authed(ctx)
	if err != nil {
		return err
	}
	ack, err := session.SetUserInfo(ctx, token, scale, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "mood updated (%d) %s\n", ack.Status, ack.Message)
	return nil
}

func cmdDailyQuestion(ctx context.Context, a *app, _ []string) error {
	svc, err := a.triviaService()
	if err != nil {
		return err
	}
	q, err := svc.DailyQuestion(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, q.Question)
	return nil
}

func cmdRiddle(ctx context.Context, a *app, _ []string) error {
	svc, err := a.triviaService()
	if err != nil {
		return err
	}
	riddle, err := svc.RiddleQuiz(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, riddle.Question)
	for i, opt := range riddle.Options {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, opt)
	}
	return nil
}

func (a *app) authed(ctx context.Context) (service.SyncSession, domain.Token, error) {
	session, err := a.syncSession()
	if err != nil {
		return nil, "", err
	}
	token, err := a.sessionToken(ctx)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

// exitCode maps error codes to process exit statuses.
func exitCode(err error) int {
	switch domain.CodeOf(err) {
	case domain.ErrInvalidInput, domain.ErrInvalidAnswerValue:
		return 2
	case domain.ErrTransportFailure:
		return 3
	case domain.ErrConflict:
		return 4
	default:
		return 1
	}
}
