package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shhhinnovations/cryptokit/encryption"
	apperrors "github.com/shhhinnovations/cryptokit/errors"
	"github.com/shhhinnovations/cryptokit/hmactoken"
)

var issuedAt = time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestAPI(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	crypto, err := encryption.NewRijndael("passPhrase", "1234567890123456")
	if err != nil {
		t.Fatalf("NewRijndael: %v", err)
	}
	tokens := hmactoken.New([]byte("secret"), hmactoken.WithClock(func() time.Time { return issuedAt }))

	cfg.ApplyDefaults()
	engine := gin.New()
	NewAPI(crypto, tokens, cfg).Register(engine)
	return engine
}

func doJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorBody {
	t.Helper()
	var resp apperrors.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp.Error
}

func TestAPI_Encrypt(t *testing.T) {
	h := newTestAPI(t, Config{})

	w := doJSON(t, h, "/v1/encrypt", `{"salt":"my-salt","plaintext":"This is my string"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	want := "Y73wEClZpRPyki1H6akbtxQ7q87SZZG3HwVjWY9UDqg="
	if got := decodeData(t, w)["ciphertext"]; got != want {
		t.Errorf("ciphertext = %v, want %s", got, want)
	}
}

func TestAPI_Decrypt(t *testing.T) {
	h := newTestAPI(t, Config{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   apperrors.ErrorCode
		wantPlain  string
	}{
		{
			name:       "known ciphertext",
			body:       `{"salt":"my-salt","ciphertext":"Y73wEClZpRPyki1H6akbtxQ7q87SZZG3HwVjWY9UDqg="}`,
			wantStatus: http.StatusOK,
			wantPlain:  "This is my string",
		},
		{
			name:       "wrong salt",
			body:       `{"salt":"other","ciphertext":"Y73wEClZpRPyki1H6akbtxQ7q87SZZG3HwVjWY9UDqg="}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.ErrCodeDecryptionFailure,
		},
		{
			name:       "not base64",
			body:       `{"salt":"my-salt","ciphertext":"***"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.ErrCodeDecryptionFailure,
		},
		{
			name:       "missing ciphertext",
			body:       `{"salt":"my-salt"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ErrCodeInvalidInput,
		},
		{
			name:       "malformed json",
			body:       `{"salt":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, "/v1/decrypt", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				if got := decodeError(t, w).Code; got != tt.wantCode {
					t.Errorf("code = %s, want %s", got, tt.wantCode)
				}
				return
			}
			if got := decodeData(t, w)["plaintext"]; got != tt.wantPlain {
				t.Errorf("plaintext = %v, want %s", got, tt.wantPlain)
			}
		})
	}
}

func TestAPI_IssueAndVerify(t *testing.T) {
	h := newTestAPI(t, Config{MaxTokenTTL: 400 * 24 * time.Hour})

	w := doJSON(t, h, "/v1/tokens", `{"salt":"salt","data":"data","ttl_seconds":31536000}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	const want = "AMB8wtfE4gjWm-CrFSRInI3bsaKwdg2OzZEcrw__"
	if data["token"] != want {
		t.Errorf("token = %v, want %s", data["token"], want)
	}
	if data["expires_at"] != "2030-01-01T00:00:00Z" {
		t.Errorf("expires_at = %v", data["expires_at"])
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"valid", `{"salt":"salt","data":"data","token":"` + want + `"}`, "OK"},
		{"other data", `{"salt":"salt","data":"date","token":"` + want + `"}`, "Invalid"},
		{"garbage", `{"salt":"salt","data":"data","token":"!!"}`, "Invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, "/v1/tokens/verify", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if got := decodeData(t, w)["result"]; got != tt.want {
				t.Errorf("result = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestAPI_VerifyExpired(t *testing.T) {
	h := newTestAPI(t, Config{})
	// Expired at 2020-01-01 relative to the fixed 2029 clock.
	expired := hmactoken.New([]byte("secret")).ComputeHash("s", "d", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	w := doJSON(t, h, "/v1/tokens/verify", `{"salt":"s","data":"d","token":"`+expired+`"}`)
	if got := decodeData(t, w)["result"]; got != "Expired" {
		t.Errorf("result = %v, want Expired", got)
	}
}

func TestAPI_IssueRejectsTTL(t *testing.T) {
	h := newTestAPI(t, Config{MaxTokenTTL: time.Hour})

	tests := []struct {
		name string
		body string
	}{
		{"zero", `{"salt":"s","data":"d","ttl_seconds":0}`},
		{"negative", `{"salt":"s","data":"d","ttl_seconds":-5}`},
		{"over max", `{"salt":"s","data":"d","ttl_seconds":3601}`},
		{"overflow", `{"salt":"s","data":"d","ttl_seconds":9223372036854775807}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, "/v1/tokens", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if got := decodeError(t, w).Code; got != apperrors.ErrCodeInvalidInput {
				t.Errorf("code = %s", got)
			}
		})
	}
}

func TestAPI_VerifyRateLimited(t *testing.T) {
	h := newTestAPI(t, Config{VerifyRateLimit: 2})
	body := `{"salt":"s","data":"d","token":"x"}`

	for i := 0; i < 2; i++ {
		if w := doJSON(t, h, "/v1/tokens/verify", body); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	w := doJSON(t, h, "/v1/tokens/verify", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := decodeError(t, w).Code; got != apperrors.ErrCodeRateLimited {
		t.Errorf("code = %s", got)
	}
}

func TestAPI_NilBackendsSkipRoutes(t *testing.T) {
	engine := gin.New()
	NewAPI(nil, nil, Config{}).Register(engine)

	w := doJSON(t, engine, "/v1/encrypt", `{}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
