package dto

import (
	"github.com/golang-jwt/jwt/v5"

	"couples-sync/internal/domain"
)

// ProfileResponse is the body of /get-user-info and /get-partner-info.
type ProfileResponse struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Name        string  `json:"name"`
	MoodScale   FlexInt `json:"mood_scale"`
	MoodStatus  string  `json:"mood_status"`
}

func (p ProfileResponse) ToDomain() domain.Profile {
	displayName := p.DisplayName
	if displayName == "" {
		displayName = p.Name
	}
	return domain.Profile{
		Username:    p.Username,
		DisplayName: displayName,
		MoodScale:   int(p.MoodScale),
		MoodStatus:  p.MoodStatus,
	}
}

// TokenClaims is the subset of claims read from a login token when it happens
// to be a JWT. Only the token store looks at it, to pick a TTL.
type TokenClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}
