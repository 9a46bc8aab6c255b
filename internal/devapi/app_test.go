package devapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/devapi"
	"doomscrollr/internal/devapi/config"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second, BodyLimit: 8 << 20},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			BCryptCost:      4,
		},
		Seed: config.SeedConfig{Enabled: true, Username: "demo", Password: "demo-password"},
	}
}

func newApp(t *testing.T, mutate func(*config.Config)) (*fiber.App, *clock) {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}
	clk := newClock()
	app, err := devapi.New(context.Background(), cfg, devapi.Options{
		Registry: prometheus.NewRegistry(),
		Clock:    clk.Now,
	})
	require.NoError(t, err)
	return app, clk
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, app, req, token)
}

func callForm(t *testing.T, app *fiber.App, method, path, token string, fields map[string]string, file string) (int, []byte) {
	t.Helper()
	return callFormFile(t, app, method, path, token, fields, "image", file)
}

func callFormFile(t *testing.T, app *fiber.App, method, path, token string, fields map[string]string, field, file string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != "" {
		part, err := w.CreateFormFile(field, file)
		require.NoError(t, err)
		_, err = part.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return send(t, app, req, token)
}

func send(t *testing.T, app *fiber.App, req *http.Request, token string) (int, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

type tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func login(t *testing.T, app *fiber.App, username, password string) tokens {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))

	var pair tokens
	require.NoError(t, json.Unmarshal(body, &pair))
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	return pair
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestLoginAndProfile(t *testing.T) {
	app, _ := newApp(t, nil)
	pair := login(t, app, "demo", "demo-password")

	for _, path := range []string{"/api/me/", "/api/auth/user/"} {
		status, body := call(t, app, http.MethodGet, path, pair.Access, nil)
		require.Equal(t, http.StatusOK, status)
		user := decode[entities.User](t, body)
		assert.Equal(t, "demo", user.Username)
		assert.Equal(t, "demo@doomscrollr.local", user.Email)
		assert.Equal(t, 1, user.Following)
	}

	status, _ := call(t, app, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": "demo", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/auth/login/", "",
		map[string]string{"username": "nobody", "password": "demo-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddleware(t *testing.T) {
	app, _ := newApp(t, nil)
	pair := login(t, app, "demo", "demo-password")

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header"},
		{name: "wrong scheme", header: "Token " + pair.Access},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "refresh token as access", header: "Bearer " + pair.Refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/feed/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			status, body := send(t, app, req, "")
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, string(body), "detail")
		})
	}
}

func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	app, clk := newApp(t, nil)
	pair := login(t, app, "demo", "demo-password")

	status, _ := call(t, app, http.MethodGet, "/api/feed/", pair.Access, nil)
	require.Equal(t, http.StatusOK, status)

	clk.Advance(2 * time.Minute)
	status, _ = call(t, app, http.MethodGet, "/api/feed/", pair.Access, nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, status, string(body))
	refreshed := decode[tokens](t, body)
	require.NotEmpty(t, refreshed.Access)
	assert.Empty(t, refreshed.Refresh)

	status, _ = call(t, app, http.MethodGet, "/api/feed/", refreshed.Access, nil)
	assert.Equal(t, http.StatusOK, status)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		status, _ := call(t, app, http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": refreshed.Access})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		clk.Advance(2 * time.Hour)
		status, body := call(t, app, http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Contains(t, string(body), "token_not_valid")
	})

	t.Run("missing refresh field", func(t *testing.T) {
		status, _ := call(t, app, http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestRefreshRotation(t *testing.T) {
	app, _ := newApp(t, func(cfg *config.Config) { cfg.JWT.RotateRefresh = true })
	pair := login(t, app, "demo", "demo-password")

	status, body := call(t, app, http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[tokens](t, body).Refresh)
}

func TestRegister(t *testing.T) {
	app, _ := newApp(t, func(cfg *config.Config) { cfg.Seed.Enabled = false })

	status, body := call(t, app, http.MethodPost, "/api/auth/register/", "",
		map[string]string{"username": "alice", "email": "alice@example.com", "password": "long-enough"})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, "alice", decode[entities.User](t, body).Username)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{
			name:  "duplicate username",
			body:  map[string]string{"username": "Alice", "email": "a2@example.com", "password": "long-enough"},
			field: "username",
		},
		{
			name:  "short password",
			body:  map[string]string{"username": "bob", "email": "bob@example.com", "password": "short"},
			field: "password",
		},
		{
			name:  "invalid email",
			body:  map[string]string{"username": "carol", "email": "nope", "password": "long-enough"},
			field: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, http.MethodPost, "/api/auth/register/", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, decode[map[string]any](t, body), tt.field)
		})
	}

	login(t, app, "alice", "long-enough")
}

func TestProfileUpdateAndPassword(t *testing.T) {
	app, _ := newApp(t, nil)
	pair := login(t, app, "demo", "demo-password")

	status, body := callForm(t, app, http.MethodPut, "/api/me/", pair.Access,
		map[string]string{"bio": "scrolling", "username": "demo2"}, "me.png")
	require.Equal(t, http.StatusOK, status, string(body))
	user := decode[entities.User](t, body)
	assert.Equal(t, "demo2", user.Username)
	assert.Equal(t, "scrolling", user.Bio)
	assert.Contains(t, user.ProfileImage, "me.png")

	status, body = call(t, app, http.MethodPost, "/api/me/change-password/", pair.Access,
		map[string]string{"old_password": "wrong-password", "new_password": "another-password"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "old_password")

	status, _ = call(t, app, http.MethodPost, "/api/me/change-password/", pair.Access,
		map[string]string{"old_password": "demo-password", "new_password": "another-password"})
	require.Equal(t, http.StatusOK, status)

	login(t, app, "demo2", "another-password")
}

func TestProfileImageUpdate(t *testing.T) {
	app, _ := newApp(t, nil)
	pair := login(t, app, "demo", "demo-password")

	status, body := callFormFile(t, app, http.MethodPatch, "/api/profile/update/", pair.Access, nil, "profile_image", "avatar.png")
	require.Equal(t, http.StatusOK, status, string(body))
	user := decode[entities.User](t, body)
	assert.Equal(t, "demo", user.Username)
	assert.Contains(t, user.ProfileImage, "avatar.png")

	status, body = callFormFile(t, app, http.MethodPatch, "/api/profile/update/", pair.Access,
		map[string]string{"bio": "ignored"}, "profile_image", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[map[string]any](t, body), "profile_image")

	status, _ = callFormFile(t, app, http.MethodPatch, "/api/profile/update/", "", nil, "profile_image", "avatar.png")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestFeed(t *testing.T) {
	app, _ := newApp(t, nil)
	pair := login(t, app, "demo", "demo-password")

	status, body := callForm(t, app, http.MethodPost, "/api/social-posts/", pair.Access,
		map[string]string{"title": "Mine", "content": "hello from demo"}, "post.jpg")
	require.Equal(t, http.StatusCreated, status, string(body))
	post := decode[entities.Post](t, body)
	assert.Equal(t, "demo", post.User.Username)

	status, _ = callForm(t, app, http.MethodPost, "/api/social-posts/", pair.Access, map[string]string{"title": "empty"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodGet, "/api/feed/", pair.Access, nil)
	require.Equal(t, http.StatusOK, status)
	feed := decode[[]entities.Post](t, body)
	require.Len(t, feed, 2)
	assert.Equal(t, post.ID, feed[0].ID)

	postPath := "/api/feed/" + strconv.FormatInt(post.ID, 10)
	status, body = call(t, app, http.MethodPost, postPath+"/like/", pair.Access, struct{}{})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, decode[map[string]float64](t, body)["likes"], 0)

	status, body = call(t, app, http.MethodPost, postPath+"/comment/", pair.Access, map[string]string{"text": "first!"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "first!", decode[entities.Comment](t, body).Text)

	status, _ = call(t, app, http.MethodPost, "/api/feed/9999/like/", pair.Access, struct{}{})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, app, http.MethodPost, "/api/feed/abc/like/", pair.Access, struct{}{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodGet, "/api/social-posts/?author="+strconv.FormatInt(post.User.ID, 10), pair.Access, nil)
	require.Equal(t, http.StatusOK, status)
	mine := decode[[]entities.Post](t, body)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].Likes)
	assert.Len(t, mine[0].Comments, 1)
}

func TestProjectsAndFunding(t *testing.T) {
	app, _ := newApp(t, nil)
	pair := login(t, app, "demo", "demo-password")

	status, body := call(t, app, http.MethodGet, "/api/projects/", pair.Access, nil)
	require.Equal(t, http.StatusOK, status)
	projects := decode[[]entities.Project](t, body)
	require.Len(t, projects, 1)
	garden := projects[0]

	status, body = callForm(t, app, http.MethodPost, "/api/projects/", pair.Access, map[string]string{
		"title": "Library", "description": "Free books", "target_amount": "250",
	}, "")
	require.Equal(t, http.StatusCreated, status, string(body))
	library := decode[entities.Project](t, body)
	assert.InDelta(t, 250, library.FundingGoal, 0.001)

	status, _ = callForm(t, app, http.MethodPost, "/api/projects/", pair.Access, map[string]string{
		"title": "Broken", "description": "x", "target_amount": "-1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodPost, "/api/transactions/", pair.Access,
		map[string]any{"receiver": garden.Owner.ID, "project": garden.ID, "amount": 40})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, _ = call(t, app, http.MethodPost, "/api/transactions/", pair.Access,
		map[string]any{"receiver": library.Owner.ID, "project": garden.ID, "amount": 40})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodGet, "/api/projects/"+strconv.FormatInt(garden.ID, 10)+"/", pair.Access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 40, decode[entities.Project](t, body).CurrentFunding, 0.001)

	status, body = call(t, app, http.MethodGet, "/api/user-transactions/", pair.Access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]entities.Transaction](t, body), 1)

	userPath := "/api/users/" + strconv.FormatInt(library.Owner.ID, 10)
	status, body = call(t, app, http.MethodGet, userPath+"/funded-projects/", pair.Access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]entities.Project](t, body), 1)

	status, body = call(t, app, http.MethodGet, "/api/projects/?owner="+strconv.FormatInt(library.Owner.ID, 10), pair.Access, nil)
	require.Equal(t, http.StatusOK, status)
	owned := decode[[]entities.Project](t, body)
	require.Len(t, owned, 1)
	assert.Equal(t, library.ID, owned[0].ID)

	status, _ = call(t, app, http.MethodGet, "/api/users/9999/projects/", pair.Access, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUsersAndConversations(t *testing.T) {
	app, _ := newApp(t, nil)
	demo := login(t, app, "demo", "demo-password")
	other := login(t, app, "doomscroller", "demo-password")

	status, body := call(t, app, http.MethodGet, "/api/users/", demo.Access, nil)
	require.Equal(t, http.StatusOK, status)
	users := decode[[]entities.User](t, body)
	require.Len(t, users, 2)
	target := users[1]
	assert.True(t, target.IsFollowing)

	userPath := "/api/users/" + strconv.FormatInt(target.ID, 10)
	status, _ = call(t, app, http.MethodPost, userPath+"/unfollow/", demo.Access, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = call(t, app, http.MethodGet, userPath+"/", demo.Access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[entities.User](t, body).IsFollowing)

	status, _ = call(t, app, http.MethodPost, "/api/users/"+strconv.FormatInt(users[0].ID, 10)+"/follow/", demo.Access, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodPost, "/api/conversations/", demo.Access, map[string]int64{"user": target.ID})
	require.Equal(t, http.StatusCreated, status, string(body))
	conv := decode[entities.Conversation](t, body)

	msgPath := "/api/conversations/" + strconv.FormatInt(conv.ID, 10) + "/messages/"
	status, _ = call(t, app, http.MethodPost, msgPath, demo.Access, map[string]string{"text": "hi"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = call(t, app, http.MethodPost, msgPath, other.Access, map[string]string{"text": "hello"})
	require.Equal(t, http.StatusCreated, status)

	status, body = call(t, app, http.MethodGet, msgPath, other.Access, nil)
	require.Equal(t, http.StatusOK, status)
	msgs := decode[[]entities.Message](t, body)
	require.Len(t, msgs, 2)
	assert.Equal(t, "demo", msgs[0].Sender)

	status, body = call(t, app, http.MethodGet, "/api/conversations/", other.Access, nil)
	require.Equal(t, http.StatusOK, status)
	convs := decode[[]entities.Conversation](t, body)
	require.Len(t, convs, 1)
	assert.Equal(t, "demo", convs[0].User.Username)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "hello", convs[0].LastMessage.Text)
}

func TestRouteNotFoundMetricsAndRequestID(t *testing.T) {
	app, _ := newApp(t, nil)

	status, body := call(t, app, http.MethodGet, "/api/nothing-here/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "Route not found")

	req := httptest.NewRequest(http.MethodGet, "/api/feed/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))

	status, body = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "doomscrollr_devapi_requests_total")
}
