package auth

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jyoon-dev/skyticket/internal/testutil"
	"github.com/jyoon-dev/skyticket/tests/integration"
)

const SignupURL = "/api/member/signup"

func Test_Signup(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("signup ok", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, _ integration.Services) {
			data := `{"loginId": "alice", "password": "StrongEnoughPassword", "passwordConfirm": "StrongEnoughPassword"}`

			resp, err := http.Post(srvURL+SignupURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"success": true,
					"data": "alice registered successfully"
				}`, string(body))
		})
	})

	t.Run("signup with mismatched confirmation", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, _ integration.Services) {
			data := `{"loginId": "alice", "password": "StrongEnoughPassword", "passwordConfirm": "SomethingElseEntirely"}`

			resp, err := http.Post(srvURL+SignupURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"success": false,
					"error": {
						"code": "PASSWORDS_NOT_MATCHED",
						"message": "Password and confirmation do not match"
					}
				}`, string(body))
		})
	})

	t.Run("signup with taken login id", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			_, err := s.AuthService.Register(t.Context(), "alice", "StrongEnoughPassword", "StrongEnoughPassword")
			require.NoError(t, err)

			data := `{"loginId": "alice", "password": "AnotherGoodPassword", "passwordConfirm": "AnotherGoodPassword"}`

			resp, err := http.Post(srvURL+SignupURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"success": false,
					"error": {
						"code": "DUPLICATED_USER_ID",
						"message": "Login id is already registered"
					}
				}`, string(body))
		})
	})

	t.Run("signup with short password", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, _ integration.Services) {
			data := `{"loginId": "alice", "password": "short", "passwordConfirm": "short"}`

			resp, err := http.Post(srvURL+SignupURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), "INVALID_REQUEST")
			require.Contains(t, string(body), "password")
		})
	})
}
