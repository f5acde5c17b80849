package service

import (
	"context"
	"errors"
	"testing"

	"couples-sync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPairingClient_RequestCode(t *testing.T) {
	ctx := context.Background()
	token := domain.Token("tok")

	tests := []struct {
		name      string
		state     domain.PairingState
		resp      *domain.Response
		respErr   error
		wantState domain.PairingState
		wantCode  domain.ErrorCode
	}{
		{
			name:      "plain code",
			state:     domain.NewUnlinkedState(),
			resp:      respond(200, "4821\n"),
			wantState: domain.NewCodeIssuedState("4821"),
		},
		{
			name:      "json code with bare integer",
			state:     domain.NewUnlinkedState(),
			resp:      respond(200, `{"link_code": 4821}`),
			wantState: domain.NewCodeIssuedState("4821"),
		},
		{
			name:      "reissue replaces code",
			state:     domain.NewCodeIssuedState("1111"),
			resp:      respond(200, `{"code":"2222"}`),
			wantState: domain.NewCodeIssuedState("2222"),
		},
		{
			name:      "conflict",
			state:     domain.NewUnlinkedState(),
			resp:      respond(409, "already linked"),
			wantState: domain.PairingState{Phase: domain.Conflict},
			wantCode:  domain.ErrConflict,
		},
		{
			name:      "service error keeps state",
			state:     domain.NewUnlinkedState(),
			resp:      respond(500, "boom"),
			wantState: domain.NewUnlinkedState(),
			wantCode:  domain.ErrServiceError,
		},
		{
			name:      "empty body",
			state:     domain.NewUnlinkedState(),
			resp:      respond(200, "  "),
			wantState: domain.NewUnlinkedState(),
			wantCode:  domain.ErrMalformedResponse,
		},
		{
			name:      "transport failure keeps state",
			state:     domain.NewCodeIssuedState("1111"),
			respErr:   domain.NewTransportFailureError(pathGetLinkCode, errors.New("dial tcp: refused")),
			wantState: domain.NewCodeIssuedState("1111"),
			wantCode:  domain.ErrTransportFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			if tt.respErr != nil {
				transport.On("Post", ctx, pathGetLinkCode, formWith("token", "tok")).Return(nil, tt.respErr)
			} else {
				transport.On("Post", ctx, pathGetLinkCode, formWith("token", "tok")).Return(tt.resp, nil)
			}

			next, err := NewPairingClient(transport).RequestCode(ctx, token, tt.state)
			assert.Equal(t, tt.wantState, next)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, domain.CodeOf(err))
			}
			transport.AssertExpectations(t)
		})
	}
}

func TestPairingClient_ConflictIsNotServiceError(t *testing.T) {
	ctx := context.Background()
	transport := new(MockTransport)
	transport.On("Post", ctx, pathGetLinkCode, mock.Anything).Return(respond(409, ""), nil)

	_, err := NewPairingClient(transport).RequestCode(ctx, "tok", domain.NewUnlinkedState())

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrConflict, domainErr.Code)
	assert.Equal(t, 409, domainErr.Status)
	assert.False(t, domain.IsCode(err, domain.ErrServiceError))
}

func TestPairingClient_Redeem(t *testing.T) {
	ctx := context.Background()

	t.Run("links from code issued", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("Post", ctx, pathLinkUsers, formWith("token", "tok", "link_code", "4821")).
			Return(respond(200, "linked"), nil)

		next, err := NewPairingClient(transport).Redeem(ctx, "tok", domain.NewCodeIssuedState("9999"), " 4821 ")
		require.NoError(t, err)
		assert.Equal(t, domain.Linked, next.Phase)
		transport.AssertExpectations(t)
	})

	t.Run("failure is retryable", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("Post", ctx, pathLinkUsers, mock.Anything).Return(respond(400, "bad code"), nil)

		start := domain.NewUnlinkedState()
		next, err := NewPairingClient(transport).Redeem(ctx, "tok", start, "0000")
		assert.True(t, domain.IsCode(err, domain.ErrServiceError))
		assert.Equal(t, start, next)
	})

	t.Run("empty code", func(t *testing.T) {
		transport := new(MockTransport)
		_, err := NewPairingClient(transport).Redeem(ctx, "tok", domain.NewUnlinkedState(), "")
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
		transport.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPairingClient_LinkedIsTerminal(t *testing.T) {
	ctx := context.Background()
	transport := new(MockTransport)
	client := NewPairingClient(transport)
	linked := domain.PairingState{Phase: domain.Linked}

	next, err := client.RequestCode(ctx, "tok", linked)
	assert.NoError(t, err)
	assert.Equal(t, linked, next)

	next, err = client.Redeem(ctx, "tok", linked, "4821")
	assert.NoError(t, err)
	assert.Equal(t, linked, next)

	transport.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}
