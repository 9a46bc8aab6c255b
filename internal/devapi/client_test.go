package devapi_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doomscrollr/internal/client/adapters/store"
	"doomscrollr/internal/client/api"
	"doomscrollr/internal/client/session"
	"doomscrollr/internal/devapi/config"
)

// appTransport отправляет запросы клиента прямо в fiber приложение.
type appTransport struct {
	app *fiber.App
}

func (t appTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.app.Test(req)
}

type clientEnv struct {
	clock  *clock
	store  *store.MemoryStore
	client *api.Client
	ended  *atomic.Int32
}

func newClientEnv(t *testing.T, mutate func(*config.Config)) *clientEnv {
	t.Helper()

	app, clk := newApp(t, mutate)
	env := &clientEnv{clock: clk, store: store.NewMemoryStore(), ended: &atomic.Int32{}}

	transport := appTransport{app: app}
	s, err := session.New(context.Background(), session.Config{
		BaseURL: "http://devapi.test/api/",
		Timeout: 5 * time.Second,
	}, env.store,
		session.WithTransport(transport),
		session.WithRefreshTransport(transport),
		session.WithSessionEndedHandler(func(context.Context, error) { env.ended.Add(1) }),
	)
	require.NoError(t, err)

	env.client = api.New(s)
	return env
}

func TestClientSurvivesAccessTokenExpiry(t *testing.T) {
	env := newClientEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.client.Login(ctx, api.LoginRequest{Username: "demo", Password: "demo-password"}))
	before, err := env.store.Load(ctx)
	require.NoError(t, err)

	me, err := env.client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo", me.Username)

	env.clock.Advance(2 * time.Minute)

	feed, err := env.client.Feed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	after, err := env.store.Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.Access, after.Access)
	assert.Equal(t, before.Refresh, after.Refresh)
	assert.Zero(t, env.ended.Load())

	projects, err := env.client.Projects(ctx, api.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 1)

	tx, err := env.client.Fund(ctx, projects[0], 15)
	require.NoError(t, err)
	assert.Equal(t, projects[0].ID, tx.Project)
}

func TestClientEndsSessionWhenRefreshTokenExpires(t *testing.T) {
	env := newClientEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.client.Login(ctx, api.LoginRequest{Username: "demo", Password: "demo-password"}))

	env.clock.Advance(2 * time.Hour)

	_, err := env.client.Me(ctx)
	require.ErrorIs(t, err, session.ErrReauthRequired)
	require.ErrorIs(t, err, session.ErrRefreshFailed)
	assert.Equal(t, int32(1), env.ended.Load())
	assert.False(t, env.client.Session().Authenticated())

	creds, err := env.store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}

func TestClientPersistsRotatedRefreshToken(t *testing.T) {
	env := newClientEnv(t, func(cfg *config.Config) { cfg.JWT.RotateRefresh = true })
	ctx := context.Background()

	require.NoError(t, env.client.Login(ctx, api.LoginRequest{Username: "demo", Password: "demo-password"}))
	before, err := env.store.Load(ctx)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Minute)

	conv, err := env.client.StartConversation(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "doomscroller", conv.User.Username)

	after, err := env.store.Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.Refresh, after.Refresh)

	msg, err := env.client.SendMessage(ctx, conv.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "demo", msg.Sender)
}
