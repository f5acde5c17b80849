package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"couples-sync/internal/domain"
	"couples-sync/internal/logger"

	"go.uber.org/zap"
)

// Remote service endpoints. All of them take a form-encoded POST body.
const (
	pathAddUser           = "/add-user"
	pathLogin             = "/login"
	pathGetLinkCode       = "/get-link-code"
	pathLinkUsers         = "/link-users"
	pathAnsweredQuizzes   = "/get-answered-quizes"
	pathUnansweredQuizzes = "/get-unanswered-quizzes-for-pair"
	pathQuizContent       = "/get-quiz-content"
	pathAnswerQuiz        = "/answer-quiz"
	pathPartnerInfo       = "/get-partner-info"
	pathUserInfo          = "/get-user-info"
	pathSetUserInfo       = "/set-user-info"
)

func tokenForm(token domain.Token) url.Values {
	return url.Values{"token": {string(token)}}
}

// call posts form to path and turns every non-2xx status into an error.
// 409 becomes a Conflict, anything else a ServiceError carrying the body.
func call(ctx context.Context, transport domain.Transport, path string, form url.Values) (*domain.Response, error) {
	resp, err := transport.Post(ctx, path, form)
	if err != nil {
		return nil, err
	}
	if err := statusError(path, resp); err != nil {
		logger.Get().Warn("Remote: request rejected",
			zap.String("path", path),
			zap.Int("status", resp.Status))
		return resp, err
	}
	return resp, nil
}

func statusError(path string, resp *domain.Response) error {
	if resp.OK() {
		return nil
	}
	if resp.Status == http.StatusConflict {
		msg := strings.TrimSpace(string(resp.Body))
		if msg == "" {
			msg = path + " reported a conflict"
		}
		return domain.NewConflictError(msg)
	}
	return domain.NewServiceError(path, resp.Status, resp.Body)
}

// ackOf reads the acknowledgement message of a write endpoint.
func ackOf(resp *domain.Response) domain.Ack {
	return domain.Ack{Status: resp.Status, Message: strings.TrimSpace(string(resp.Body))}
}
