// Package session реализует аутентифицированную HTTP-сессию для Doomscrollr API:
// подстановку access токена, единственное на всех обновление токена при 401,
// очередь ожидающих запросов и однократный повтор.
package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"doomscrollr/internal/client/config"
	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/client/metrics"
	"doomscrollr/internal/client/ports/store"
	"doomscrollr/pkg/logger"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-ID"

	contentTypeJSON = "application/json"

	maxResponseBody = 10 << 20

	// maxReplays - сколько раз запрос повторяется после 401.
	maxReplays = 1
)

const (
	LogSessionCreated     = "session created"
	LogRequestSent        = "request sent"
	LogRequestFailed      = "request transport failure"
	LogUnauthorized       = "unauthorized response, recovering session"
	LogReplay             = "replaying request with refreshed token"
	LogQueued             = "token refresh in progress, request queued"
	LogQueueAbandoned     = "queued request cancelled before refresh settled"
	LogStaleToken         = "request used a superseded token, replaying without refresh"
	LogRefreshStarted     = "refreshing access token"
	LogRefreshSucceeded   = "access token refreshed"
	LogRefreshFailed      = "access token refresh failed"
	LogNoRefreshToken     = "no refresh token available"
	LogPersistFailed      = "failed to persist refreshed access token, keeping it in memory"
	LogClearFailed        = "failed to clear credentials"
	LogSessionEnded       = "session ended, re-authentication required"
	LogCredentialsSet     = "credentials stored"
	LogLoggedOut          = "logged out"
	LogRefreshSuperseded  = "credentials replaced during token refresh, refresh result discarded"
	ErrorFailedLoadCreds  = "failed to load credentials"
	ErrorInvalidBaseURL   = "invalid base url"
	ErrorFailedBuildReq   = "failed to build request"
	ErrorFailedReadBody   = "failed to read response body"
	ErrorFailedSaveCreds  = "failed to save credentials"
	ErrorFailedClearCreds = "failed to clear credentials"
)

// Config - параметры сессии.
type Config struct {
	BaseURL        string
	RefreshPath    string
	AuthScheme     string
	UserAgent      string
	Timeout        time.Duration
	RefreshTimeout time.Duration
}

// NewConfig собирает Config из конфигурации клиента.
func NewConfig(cfg *config.Config) Config {
	return Config{
		BaseURL:        cfg.API.BaseURL,
		RefreshPath:    cfg.Session.RefreshPath,
		AuthScheme:     cfg.Session.AuthScheme,
		UserAgent:      cfg.API.UserAgent,
		Timeout:        cfg.API.Timeout,
		RefreshTimeout: cfg.Session.RefreshTimeout,
	}
}

// Session - клиент API, который держит учетные данные и восстанавливает их при 401.
// Безопасен для конкурентного использования.
type Session struct {
	baseURL        string
	refreshURL     string
	scheme         string
	userAgent      string
	refreshTimeout time.Duration

	client        *http.Client
	refreshClient *http.Client

	store   store.CredentialStore
	metrics *metrics.Session
	onEnded SessionEndedHandler

	// credMu упорядочивает записи в хранилище между входом, выходом и циклом обновления.
	// Берется до mu.
	credMu sync.Mutex

	mu         sync.Mutex
	access     string
	generation uint64
	refreshing bool
	waiters    []chan refreshOutcome
}

// New создает сессию и загружает сохраненные учетные данные из st.
func New(ctx context.Context, cfg Config, st store.CredentialStore, opts ...Option) (*Session, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", ErrorInvalidBaseURL, cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s %q: %w", ErrorInvalidBaseURL, cfg.BaseURL, ErrRelativeBaseURL)
	}

	if cfg.RefreshPath == "" {
		cfg.RefreshPath = "auth/token/refresh/"
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 10 * time.Second
	}

	s := &Session{
		baseURL:        strings.TrimRight(base.String(), "/"),
		scheme:         cfg.AuthScheme,
		userAgent:      cfg.UserAgent,
		refreshTimeout: cfg.RefreshTimeout,
		client:         &http.Client{Timeout: cfg.Timeout},
		refreshClient:  &http.Client{},
		store:          st,
	}
	s.refreshURL = s.resolve(cfg.RefreshPath)

	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewSession(nil)
	}

	creds, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedLoadCreds, err)
	}
	s.access = creds.Access

	logger.Log(ctx).Debug(ctx, LogSessionCreated,
		zap.String("base_url", s.baseURL),
		zap.Bool("authenticated", creds.Access != ""))

	return s, nil
}

// Do отправляет запрос с текущим access токеном. На 401 сессия один раз
// обновляет токен и повторяет запрос. Ответы вне 2xx возвращаются как *APIError.
func (s *Session) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, requestID := logger.EnsureRequestID(ctx)
	log := logger.Log(ctx).With(zap.String("method", req.Method), zap.String("path", req.Path))

	token := s.currentAccess()
	for attempt := 0; ; attempt++ {
		resp, err := s.send(ctx, req, token, requestID)
		if err != nil {
			log.Warn(ctx, LogRequestFailed, zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}

		log.Debug(ctx, LogRequestSent, zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))

		if resp.StatusCode != http.StatusUnauthorized || attempt >= maxReplays {
			return checkStatus(req, resp)
		}

		log.Info(ctx, LogUnauthorized)
		token, err = s.recoverSession(ctx, token)
		if err != nil {
			return nil, err
		}

		log.Debug(ctx, LogReplay)
		s.metrics.ReplaysTotal.Inc()
	}
}

// SetCredentials сохраняет пару токенов, например после входа. Идущий в этот момент
// цикл обновления не перезапишет новую пару.
func (s *Session) SetCredentials(ctx context.Context, creds entities.Credentials) error {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	if err := s.store.Save(ctx, creds); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedSaveCreds, err)
	}

	s.mu.Lock()
	s.access = creds.Access
	s.generation++
	s.mu.Unlock()

	logger.Log(ctx).Debug(ctx, LogCredentialsSet)
	return nil
}

// Credentials возвращает сохраненную пару токенов.
func (s *Session) Credentials(ctx context.Context) (entities.Credentials, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedLoadCreds, err)
	}
	return creds, nil
}

// Authenticated сообщает, есть ли у сессии access токен.
func (s *Session) Authenticated() bool {
	return s.currentAccess() != ""
}

// Logout удаляет учетные данные. Сигнал завершения сессии при этом не отправляется.
func (s *Session) Logout(ctx context.Context) error {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	s.mu.Lock()
	s.access = ""
	s.generation++
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedClearCreds, err)
	}

	logger.Log(ctx).Debug(ctx, LogLoggedOut)
	return nil
}

// Refreshing сообщает, идет ли сейчас обновление токена.
func (s *Session) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing
}

// Pending возвращает число запросов, ожидающих обновления токена.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiters)
}

func (s *Session) currentAccess() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// current сообщает, что учетные данные не менялись с поколения gen.
func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

func (s *Session) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (s *Session) send(ctx context.Context, req *Request, token, requestID string) (*Response, error) {
	httpReq, err := s.newHTTPRequest(ctx, req, token, requestID)
	if err != nil {
		return nil, err
	}

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		s.metrics.ObserveRequest(req.Method, 0)
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, ErrTransport, err)
	}
	defer httpResp.Body.Close()

	s.metrics.ObserveRequest(req.Method, httpResp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %s: %w: %w", req.Method, req.Path, ErrorFailedReadBody, ErrTransport, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

func (s *Session) newHTTPRequest(ctx context.Context, req *Request, token, requestID string) (*http.Request, error) {
	target := s.resolve(req.Path)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedBuildReq, err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set(headerContentType, req.ContentType)
	}
	if httpReq.Header.Get(headerAccept) == "" {
		httpReq.Header.Set(headerAccept, contentTypeJSON)
	}
	if s.userAgent != "" {
		httpReq.Header.Set(headerUserAgent, s.userAgent)
	}
	httpReq.Header.Set(headerRequestID, requestID)
	if token != "" {
		httpReq.Header.Set(headerAuthorization, s.scheme+" "+token)
	}

	return httpReq, nil
}

func checkStatus(req *Request, resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	return nil, &APIError{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}
}
