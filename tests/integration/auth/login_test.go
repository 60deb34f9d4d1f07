package auth

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jyoon-dev/skyticket/internal/testutil"
	"github.com/jyoon-dev/skyticket/tests/integration"
)

const LoginURL = "/api/member/login"

func Test_Login(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("login ok", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			_, err := s.AuthService.Register(t.Context(), "alice", "StrongEnoughPassword", "StrongEnoughPassword")
			require.NoError(t, err)

			data := `{"loginId": "alice", "password": "StrongEnoughPassword"}`
			resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"success": true,
					"data": "alice logged in successfully"
				}`, string(body))

			header := resp.Header.Get("Authorization")
			require.True(t, strings.HasPrefix(header, "Bearer "), "Authorization header should carry the bearer access token")
			require.NotEmpty(t, strings.TrimPrefix(header, "Bearer "))

			require.NotEmpty(t, resp.Header.Get("RefreshToken"), "RefreshToken header should carry the refresh token")

			expireMillis, err := strconv.ParseInt(resp.Header.Get("Access-Token-Expire-Time"), 10, 64)
			require.NoError(t, err, "Access-Token-Expire-Time should be epoch millis")
			expireAt := time.UnixMilli(expireMillis)
			require.WithinDuration(t, time.Now().Add(time.Minute), expireAt, 10*time.Second)
		})
	})

	t.Run("login with unknown member", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, _ integration.Services) {
			data := `{"loginId": "nobody", "password": "WhateverPassword"}`

			resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusNotFound, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"success": false,
					"error": {
						"code": "MEMBER_NOT_FOUND",
						"message": "Member could not be found"
					}
				}`, string(body))
			require.Empty(t, resp.Header.Get("Authorization"), "no token headers on failed login")
		})
	})

	t.Run("login with wrong password", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			_, err := s.AuthService.Register(t.Context(), "alice", "StrongEnoughPassword", "StrongEnoughPassword")
			require.NoError(t, err)

			data := `{"loginId": "alice", "password": "WrongPassword"}`
			resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"success": false,
					"error": {
						"code": "INVALID_MEMBER",
						"message": "Member could not be found"
					}
				}`, string(body))
			require.Empty(t, resp.Header.Get("Authorization"), "no token headers on failed login")
		})
	})

	t.Run("repeated login revokes the earlier refresh token", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			member, err := s.AuthService.Register(t.Context(), "alice", "StrongEnoughPassword", "StrongEnoughPassword")
			require.NoError(t, err)

			login := func() *http.Response {
				data := `{"loginId": "alice", "password": "StrongEnoughPassword"}`
				resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				_ = resp.Body.Close()
				require.Equal(t, http.StatusOK, resp.StatusCode)
				return resp
			}

			first := login()
			second := login()

			firstRefresh := first.Header.Get("RefreshToken")
			secondRefresh := second.Header.Get("RefreshToken")
			require.NotEqual(t, firstRefresh, secondRefresh)

			// A single record per member: logging out once ends the session,
			// there is no second session left from the first login
			require.NoError(t, s.AuthService.Logout(t.Context(), member, secondRefresh))
			err = s.AuthService.Logout(t.Context(), member, secondRefresh)
			require.Error(t, err, "the session is gone after one logout")
		})
	})
}
