package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() *AuthService {
	return NewAuthService("admin", "secret", "test-signing-key")
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService()

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login("admin", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.HostID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.Login("root", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateHostToken(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)

	claims, err := svc.ValidateHostToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.HostID, claims.HostID)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateHostToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := NewAuthService("admin", "secret", "different-key")
		resp, err := other.Login("admin", "secret")
		require.NoError(t, err)

		_, err = svc.ValidateHostToken(resp.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRespondentTokens(t *testing.T) {
	svc := newTestAuthService()

	token, err := svc.IssueRespondentToken("sess_1", "survey_1")
	require.NoError(t, err)

	claims, err := svc.ValidateRespondentToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess_1", claims.SessionID)
	assert.Equal(t, "survey_1", claims.SurveyID)

	// A host token is not a respondent token and vice versa.
	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	_, err = svc.ValidateRespondentToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
