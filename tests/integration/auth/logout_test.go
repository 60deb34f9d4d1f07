package auth

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jyoon-dev/skyticket/internal/testutil"
	"github.com/jyoon-dev/skyticket/tests/integration"
)

const LogoutURL = "/api/member/logout"

func Test_Logout(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Register and login through the service, returns both tokens
	registerAndLogin := func(t *testing.T, s integration.Services) (access string, refresh string) {
		t.Helper()
		_, err := s.AuthService.Register(t.Context(), "alice", "StrongEnoughPassword", "StrongEnoughPassword")
		require.NoError(t, err)
		pair, err := s.AuthService.Login(t.Context(), "alice", "StrongEnoughPassword")
		require.NoError(t, err)
		return pair.AccessToken, pair.RefreshToken
	}

	logout := func(t *testing.T, srvURL string, access string, refresh string) (*http.Response, string) {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, srvURL+LogoutURL, nil)
		require.NoError(t, err)
		if access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
		if refresh != "" {
			req.Header.Set("RefreshToken", refresh)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp, string(body)
	}

	t.Run("logout ok", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			access, refresh := registerAndLogin(t, s)

			resp, body := logout(t, srvURL, access, refresh)

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"success": true,
					"data": "logged out successfully"
				}`, body)
		})
	})

	t.Run("second logout has no session left", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			access, refresh := registerAndLogin(t, s)

			resp, body := logout(t, srvURL, access, refresh)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			resp, body = logout(t, srvURL, access, refresh)

			require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"success": false,
					"error": {
						"code": "TOKEN_NOT_FOUND",
						"message": "No refresh token stored for member"
					}
				}`, body)
		})
	})

	t.Run("logout with garbage refresh token", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			access, _ := registerAndLogin(t, s)

			resp, body := logout(t, srvURL, access, "not-even-a-token")

			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"success": false,
					"error": {
						"code": "INVALID_TOKEN",
						"message": "Refresh token is not valid"
					}
				}`, body)
		})
	})

	t.Run("logout without refresh token", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			access, _ := registerAndLogin(t, s)

			resp, body := logout(t, srvURL, access, "")

			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
			require.Contains(t, body, "INVALID_TOKEN")
		})
	})

	t.Run("logout with valid refresh but no access token", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			_, refresh := registerAndLogin(t, s)

			resp, body := logout(t, srvURL, "", refresh)

			// The refresh token alone does not identify a member
			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
			require.Contains(t, body, "MEMBER_NOT_FOUND")
		})
	})
}
