package model

import "github.com/golang-jwt/jwt/v5"

// HostClaims are the JWT claims of a builder (host) token
type HostClaims struct {
	HostID string `json:"hostId"`
	jwt.RegisteredClaims
}

// RespondentClaims are the JWT claims of a respondent session token
type RespondentClaims struct {
	SessionID string `json:"sessionId"`
	SurveyID  string `json:"surveyId"`
	jwt.RegisteredClaims
}

// LoginRequest is the host login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful host login
type LoginResponse struct {
	Token  string `json:"token"`
	HostID string `json:"hostId"`
}
