package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/sekolahku/backend/core/pengguna"
)

func Test_penggunaApi_login(t *testing.T) {
	env := setup(t)

	admin := createPengguna(t, env, "admin", pengguna.RoleAdmin, "LolC@t123")

	authFailed := marchallObj(t, httpErr{Error: "Username atau password salah"})

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte("{}"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Required fields are missing: username, password", Code: "MISSING_REQUIRED_FIELDS"}),
		},
		{
			name:     "unknown username",
			body:     marchallObj(t, LoginRequest{Username: "lol", Password: "LolC@t123"}),
			wantCode: http.StatusUnauthorized,
			wantData: authFailed,
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, LoginRequest{Username: admin.Username, Password: "LolC@t"}),
			wantCode: http.StatusUnauthorized,
			wantData: authFailed,
		},
		{
			name:     "username is case-insensitive",
			body:     marchallObj(t, LoginRequest{Username: "ADMIN", Password: "LolC@t123"}),
			wantCode: http.StatusOK,
		},
		{
			name:     "login ok",
			body:     marchallObj(t, LoginRequest{Username: admin.Username, Password: "LolC@t123"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var resp LoginResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json.Unmarshal(): %v", err)
			}
			if resp.Token == "" {
				t.Error("login did not return a token")
			}
		})
	}
}

func Test_penggunaApi_refreshToken(t *testing.T) {
	env := setup(t)

	admin := createPengguna(t, env, "admin", pengguna.RoleAdmin, "LolC@t123")
	path := "/v1/auth/token-refresh"

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, path)
		env.app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("refresh ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, admin))
		env.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if resp.Token == "" {
			t.Error("refresh did not return a token")
		}
	})

	t.Run("refresh expired", func(t *testing.T) {
		oriat := time.Now().Add(-(testConf.Server.JWTRefreshExpirationDelta + time.Minute)).Unix()
		claims := GetPenggunaClaims(admin, oriat)
		token, err := GenerateToken(claims)
		if err != nil {
			t.Fatalf("GenerateToken(): %v", err)
		}

		req, rec := newAuthRequest(http.MethodPost, path, token)
		env.app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})}
		checkCodeAndData(t, tt, rec)
	})
}
