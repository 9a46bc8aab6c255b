package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/client/metrics"
	"doomscrollr/pkg/logger"
)

type refreshOutcome struct {
	token string
	err   error
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// recoverSession возвращает токен для повтора запроса, отправленного с sentWith.
// Пока идет обновление, остальные запросы ждут его результата в порядке очереди.
func (s *Session) recoverSession(ctx context.Context, sentWith string) (string, error) {
	log := logger.Log(ctx)

	s.mu.Lock()
	if s.refreshing {
		wait := make(chan refreshOutcome, 1)
		s.waiters = append(s.waiters, wait)
		s.metrics.PendingRequests.Inc()
		s.mu.Unlock()

		log.Debug(ctx, LogQueued)

		select {
		case out := <-wait:
			return out.token, out.err
		case <-ctx.Done():
			log.Debug(ctx, LogQueueAbandoned, zap.Error(ctx.Err()))
			return "", ctx.Err()
		}
	}

	if s.access != "" && s.access != sentWith {
		token := s.access
		s.mu.Unlock()

		log.Debug(ctx, LogStaleToken)
		return token, nil
	}

	s.refreshing = true
	gen := s.generation
	s.mu.Unlock()

	// Цикл восстановления завершается независимо от отмены вызывающего.
	cycleCtx := context.WithoutCancel(ctx)

	token, err := s.refresh(cycleCtx, gen)
	return s.settle(cycleCtx, gen, token, err)
}

// refresh обновляет access токен. Результат сохраняется, только если учетные данные
// остались поколения gen.
func (s *Session) refresh(ctx context.Context, gen uint64) (string, error) {
	log := logger.Log(ctx)

	creds, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.RefreshFailure)
		log.Error(ctx, ErrorFailedLoadCreds, zap.Error(err))
		return "", fmt.Errorf("%w: %s: %w", ErrRefreshFailed, ErrorFailedLoadCreds, err)
	}
	if creds.Refresh == "" {
		s.metrics.ObserveRefresh(metrics.RefreshNoToken)
		log.Info(ctx, LogNoRefreshToken)
		return "", ErrNoRefreshToken
	}

	log.Debug(ctx, LogRefreshStarted)

	access, rotated, err := s.callRefresh(ctx, creds.Refresh)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.RefreshFailure)
		log.Warn(ctx, LogRefreshFailed, zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	s.metrics.ObserveRefresh(metrics.RefreshSuccess)
	s.persist(ctx, gen, access, rotated)

	log.Info(ctx, LogRefreshSucceeded, zap.Bool("rotated", rotated != ""))

	return access, nil
}

func (s *Session) callRefresh(ctx context.Context, refreshToken string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.refreshTimeout)
	defer cancel()

	payload, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", ErrorFailedBuildReq, err)
	}
	req.Header.Set(headerContentType, contentTypeJSON)
	req.Header.Set(headerAccept, contentTypeJSON)
	if s.userAgent != "" {
		req.Header.Set(headerUserAgent, s.userAgent)
	}
	if id, ok := logger.GetRequestID(ctx); ok {
		req.Header.Set(headerRequestID, id)
	}

	resp, err := s.refreshClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w: %w", ErrorFailedReadBody, ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &APIError{
			Method:     http.MethodPost,
			Path:       s.refreshURL,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
	}

	var out refreshResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.Access == "" {
		return "", "", ErrInvalidRefreshResponse
	}

	return out.Access, out.Refresh, nil
}

func (s *Session) persist(ctx context.Context, gen uint64, access, rotated string) {
	log := logger.Log(ctx)

	s.credMu.Lock()
	defer s.credMu.Unlock()

	if !s.current(gen) {
		return
	}

	var err error
	if rotated != "" {
		err = s.store.Save(ctx, entities.Credentials{Access: access, Refresh: rotated})
	} else {
		err = s.store.SaveAccess(ctx, access)
	}
	if err != nil {
		log.Warn(ctx, LogPersistFailed, zap.Error(err))
	}
}

// settle завершает цикл восстановления: раздает результат очереди в порядке
// поступления и снимает флаг обновления. Если за время цикла учетные данные
// заменили или удалили, очередь получает текущий токен или ErrLoggedOut.
func (s *Session) settle(ctx context.Context, gen uint64, token string, cause error) (string, error) {
	log := logger.Log(ctx)

	if cause != nil {
		s.credMu.Lock()
		if s.current(gen) {
			if err := s.store.Clear(ctx); err != nil {
				log.Error(ctx, LogClearFailed, zap.Error(err))
			}
		}
		s.credMu.Unlock()
	}

	s.mu.Lock()
	superseded := s.generation != gen
	switch {
	case superseded && s.access != "":
		token, cause = s.access, nil
	case superseded:
		token, cause = "", ErrLoggedOut
	case cause != nil:
		s.access = ""
	default:
		s.access = token
	}
	waiters := s.waiters
	s.waiters = nil
	for _, wait := range waiters {
		wait <- refreshOutcome{token: token, err: cause}
	}
	s.refreshing = false
	s.mu.Unlock()

	s.metrics.PendingRequests.Sub(float64(len(waiters)))

	if superseded {
		log.Info(ctx, LogRefreshSuperseded, zap.Int("waiters", len(waiters)))
		return token, cause
	}
	if cause == nil {
		return token, nil
	}

	log.Warn(ctx, LogSessionEnded, zap.Int("rejected", len(waiters)), zap.Error(cause))
	if s.onEnded != nil {
		s.onEnded(ctx, cause)
	}
	return token, cause
}
