package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{BaseURL: srv.URL + "/admin/"})
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)

	_, err = NewClient(Options{BaseURL: "localhost:8080"})
	assert.Error(t, err)

	c, err := NewClient(Options{BaseURL: "http://localhost:8080/admin/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/admin", c.BaseURL())
}

func TestRequestCarriesTokenAndRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/video", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		cookie, err := r.Cookie(TokenCookie)
		require.NoError(t, err)
		assert.Equal(t, "tok", cookie.Value)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"intro","categories":[{"id":"2","name":"yoga"}]}]`))
	})
	client.SetToken("tok")

	videos, err := client.ListVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, models.ID(1), videos[0].ID)
	assert.Equal(t, models.ID(2), videos[0].Categories[0].ID)
}

func TestNoTokenNoAuthHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, err := r.Cookie(TokenCookie)
		assert.ErrorIs(t, err, http.ErrNoCookie)
		w.Write([]byte(`[]`))
	})

	types, err := client.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, types)
	assert.NotNil(t, types)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid token"}`, ErrUnauthorized, "Invalid token"},
		{"conflict", http.StatusConflict, `{"error":"user with this name exists"}`, ErrConflict, "user with this name exists"},
		{"not found", http.StatusNotFound, `{"error":"User not found"}`, ErrNotFound, "User not found"},
		{"plain text", http.StatusBadRequest, "bad things\n", nil, "bad things"},
		{"empty body", http.StatusInternalServerError, "", nil, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.GetUser(context.Background(), 7)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.NotEmpty(t, apiErr.RequestID)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.Equal(t, tt.message, Message(err, "fallback"))
		})
	}
}

func TestListNotFoundIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"No video files found"}`))
	})

	files, err := client.ListFiles(context.Background(), models.MediaVideo)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMutationsUseMethodAndPath(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()

		if r.Method != http.MethodDelete {
			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		}
		w.Write([]byte(`{"id":5,"message":"ok"}`))
	})

	ctx := context.Background()
	res, err := client.CreateCategory(ctx, models.CategoryRequest{Name: "Yoga", TypeIDs: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, models.ID(5), res.ID)

	_, err = client.UpdateType(ctx, 3, models.TypeRequest{Name: "Series"})
	require.NoError(t, err)
	_, err = client.DeleteVideo(ctx, 9)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /admin/category",
		"PUT /admin/type/3",
		"DELETE /admin/video/9",
	}, calls)
}

func TestSignInTokenFromCookie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.SignInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Login)
		assert.Equal(t, "hash", req.Password)

		http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "jwt-value", Path: "/admin"})
		w.Write([]byte(`{"message":"Authentication successful"}`))
	})

	res, err := client.SignIn(context.Background(), "admin", "hash")
	require.NoError(t, err)
	assert.Equal(t, models.SignInSuccessMessage, res.Message)
	assert.Equal(t, "jwt-value", res.Token)
}

func TestSignInTokenFromBodyWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "cookie"})
		w.Write([]byte(`{"token":"body"}`))
	})

	res, err := client.SignIn(context.Background(), "admin", "hash")
	require.NoError(t, err)
	assert.Equal(t, "body", res.Token)
}

func TestLogoutClearsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/logout", r.URL.Path)
		w.Write([]byte(`{"message":"Logged out successfully"}`))
	})
	client.SetToken("tok")

	res, err := client.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Logged out successfully", res.Message)
	assert.Empty(t, client.Token())
}

func TestVerifyToken(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		w.Write([]byte(`[]`))
	})

	assert.NoError(t, client.VerifyToken(context.Background()))

	status.Store(http.StatusNotFound)
	assert.NoError(t, client.VerifyToken(context.Background()))

	status.Store(http.StatusUnauthorized)
	assert.ErrorIs(t, client.VerifyToken(context.Background()), ErrUnauthorized)

	status.Store(http.StatusBadGateway)
	err := client.VerifyToken(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestUploadFileStreamsMultipart(t *testing.T) {
	content := strings.Repeat("x", 64*1024)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/files/img", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "cover.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, len(content), len(data))

		w.Write([]byte(`{"message":"Image cover.png uploaded successfully"}`))
	})

	var last, total int64
	res, err := client.UploadFile(context.Background(), Upload{
		Kind: models.MediaImage,
		Name: "cover.png",
		MIME: "image/png",
		Size: int64(len(content)),
		Body: strings.NewReader(content),
	}, func(sent, all int64) {
		last, total = sent, all
	})
	require.NoError(t, err)
	assert.Equal(t, "Image cover.png uploaded successfully", res.Message)
	assert.Equal(t, int64(len(content)), last)
	assert.Equal(t, int64(len(content)), total)
}

func TestUploadFileServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid video type"}`))
	})

	_, err := client.UploadFile(context.Background(), Upload{
		Kind: models.MediaVideo,
		Name: "clip.mp4",
		Body: strings.NewReader("data"),
		Size: 4,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "Invalid video type", Message(err, ""))
}

func TestRateLimitedClientHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL, RateLimit: 0.001, Burst: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = client.ListVideos(ctx)
	require.NoError(t, err)

	cancel()
	_, err = client.ListVideos(ctx)
	assert.Error(t, err)
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/video/:id", endpointLabel("/video/42"))
	assert.Equal(t, "/files/img", endpointLabel("/files/img"))
	assert.Equal(t, "/users", endpointLabel("/users?x=1"))
}

func TestHashPassword(t *testing.T) {
	assert.Equal(t,
		"2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b",
		HashPassword("secret"))
	assert.Len(t, HashPassword(""), 64)
}
