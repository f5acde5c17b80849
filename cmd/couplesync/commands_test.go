package main

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"couples-sync/internal/config"
	"couples-sync/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenStore map[string]domain.Token

func (m memoryTokenStore) Save(_ context.Context, username string, token domain.Token, _ time.Duration) error {
	m[username] = token
	return nil
}

func (m memoryTokenStore) Load(_ context.Context, username string) (domain.Token, error) {
	token, ok := m[username]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return token, nil
}

func (m memoryTokenStore) Delete(_ context.Context, username string) error {
	delete(m, username)
	return nil
}

func (m memoryTokenStore) Ping(context.Context) error { return nil }

func startService(t *testing.T) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/login", func(c *fiber.Ctx) error {
		return c.SendString("tok-" + c.FormValue("username"))
	})
	app.Post("/get-answered-quizes", func(c *fiber.Ctx) error {
		if c.FormValue("token") != "tok-sam" {
			return c.Status(fiber.StatusUnauthorized).SendString("bad token")
		}
		return c.SendString("[]")
	})
	app.Post("/get-unanswered-quizzes-for-pair", func(c *fiber.Ctx) error {
		return c.SendString("[]")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Service:   config.ServiceConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
		Scheduler: config.SchedulerConfig{Threshold: 24 * time.Hour},
	}
}

func TestRun_Dispatch(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("http://127.0.0.1:1")

	t.Run("no command", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, cfg, nil, &out)
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
		assert.Contains(t, out.String(), "usage: couplesync")
	})

	t.Run("unknown command", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, cfg, []string{"dance"}, &out)
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
	})

	t.Run("not logged in", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, cfg, []string{"today"}, &out)
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
		assert.Contains(t, err.Error(), "not logged in")
	})

	t.Run("bad answer list", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, cfg, []string{"--token", "x", "answer", "1", "2,four"}, &out)
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
	})
}

func TestRun_LoginAndToday(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(startService(t))

	var out bytes.Buffer
	require.NoError(t, run(ctx, cfg, []string{"login", "-u", "sam", "-p", "pw"}, &out))
	assert.Equal(t, "tok-sam\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, cfg, []string{"today", "--token", "tok-sam"}, &out))
	assert.Equal(t, "no quiz available\n", out.String())
}

func TestApp_SessionToken(t *testing.T) {
	ctx := context.Background()
	store := memoryTokenStore{"sam": "stored"}
	a := &app{cfg: testConfig("http://localhost"), tokens: store}

	_, err := a.sessionToken(ctx)
	assert.Error(t, err)

	a.user = "sam"
	token, err := a.sessionToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Token("stored"), token)

	a.token = "explicit"
	token, err = a.sessionToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Token("explicit"), token)
}

func TestParseChoices(t *testing.T) {
	got, err := parseChoices("2, 4,1")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 1}, got)

	_, err = parseChoices("2,,1")
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(domain.NewInvalidInputError("x")))
	assert.Equal(t, 3, exitCode(domain.NewTransportFailureError("/login", nil)))
	assert.Equal(t, 4, exitCode(domain.NewConflictError("linked")))
	assert.Equal(t, 1, exitCode(domain.NewServiceError("/login", 500, nil)))
}
