package gitsync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/certwatch/docsite/internal/config"
)

func TestClassifyError_MapsToTypedErrors(t *testing.T) {
	var authErr *AuthError
	err := classifyError("clone", "https://git.example/x.git", errors.New("authentication required"))
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, "clone", authErr.Op)

	var nfErr *NotFoundError
	err = classifyError("clone", "https://git.example/x.git", errors.New("repository not found"))
	require.True(t, errors.As(err, &nfErr))

	var toErr *NetworkTimeoutError
	err = classifyError("pull", "https://git.example/x.git", errors.New("read tcp: i/o timeout"))
	require.True(t, errors.As(err, &toErr))

	err = classifyError("clone", "https://git.example/x.git", errors.New("something else"))
	require.Error(t, err)
	require.False(t, errors.As(err, &authErr))
}

func TestAuthMethod_TokenAndBasic(t *testing.T) {
	m, err := authMethod(&config.AuthConfig{Type: config.AuthTypeToken, Token: "tkn"})
	require.NoError(t, err)
	require.NotNil(t, m)

	m, err = authMethod(&config.AuthConfig{Type: config.AuthTypeBasic, Username: "u", Password: "p"})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestAuthMethod_NoneAndNil(t *testing.T) {
	m, err := authMethod(nil)
	require.NoError(t, err)
	require.Nil(t, m)

	m, err = authMethod(&config.AuthConfig{Type: config.AuthTypeNone})
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestAuthMethod_UnsupportedType_Fails(t *testing.T) {
	_, err := authMethod(&config.AuthConfig{Type: "kerberos"})
	require.Error(t, err)
}
