package service

import (
	"context"
	"strings"

	"couples-sync/internal/domain"
	"couples-sync/internal/logger"
	"couples-sync/internal/wire"

	"go.uber.org/zap"
)

// PairingClient drives the partner linking handshake. It holds no state of
// its own: callers pass the current PairingState in and keep the one returned.
type PairingClient interface {
	// RequestCode asks the service for a link code to hand to the partner.
	RequestCode(ctx context.Context, token domain.Token, state domain.PairingState) (domain.PairingState, error)

	// Redeem links this user with the partner who issued code.
	Redeem(ctx context.Context, token domain.Token, state domain.PairingState, code string) (domain.PairingState, error)
}

type pairingClientImpl struct {
	transport domain.Transport
}

// NewPairingClient creates a new instance of PairingClient.
func NewPairingClient(transport domain.Transport) PairingClient {
	return &pairingClientImpl{transport: transport}
}

type linkCodeResponse struct {
	LinkCode string `json:"link_code"`
	Code     string `json:"code"`
}

func (p *pairingClientImpl) RequestCode(ctx context.Context, token domain.Token, state domain.PairingState) (domain.PairingState, error) {
	if state.IsTerminal() {
		return state, nil
	}

	resp, err := call(ctx, p.transport, pathGetLinkCode, tokenForm(token))
	if err != nil {
		if domain.IsCode(err, domain.ErrConflict) {
			logger.Get().Info("Pairing: service reports pair already linked or pending",
				zap.Stringer("from", state))
			return domain.PairingState{Phase: domain.Conflict}, err
		}
		return state, err
	}

	code, err := parseLinkCode(resp.Body)
	if err != nil {
		return state, err
	}

	next := domain.NewCodeIssuedState(code)
	logger.Get().Info("Pairing: link code issued",
		zap.Stringer("from", state),
		zap.Stringer("to", next))
	return next, nil
}

func (p *pairingClientImpl) Redeem(ctx context.Context, token domain.Token, state domain.PairingState, code string) (domain.PairingState, error) {
	if state.IsTerminal() {
		return state, nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return state, domain.NewInvalidInputError("link code is required")
	}
	if state.Phase == domain.Conflict {
		return state, domain.NewInvalidInputError("cannot redeem a link code from the conflict state")
	}

	form := tokenForm(token)
	form.Set("link_code", code)
	if _, err := call(ctx, p.transport, pathLinkUsers, form); err != nil {
		return state, err
	}

	logger.Get().Info("Pairing: partners linked", zap.Stringer("from", state))
	return domain.PairingState{Phase: domain.Linked}, nil
}

// parseLinkCode accepts either the bare code or a JSON object carrying it
// under link_code or code.
func parseLinkCode(body []byte) (string, error) {
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "{") {
		var parsed linkCodeResponse
		if err := wire.Decode([]byte(text), &parsed); err != nil {
			return "", err
		}
		text = parsed.LinkCode
		if text == "" {
			text = parsed.Code
		}
		text = strings.TrimSpace(text)
	} else {
		text = strings.Trim(text, `"`)
	}
	if text == "" {
		return "", domain.NewMalformedResponseError("empty link code", nil)
	}
	return text, nil
}
