package session

import (
	"context"
	"net/http"
	"net/url"
)

// Get выполняет GET и декодирует JSON ответ в out.
func (s *Session) Get(ctx context.Context, path string, query url.Values, out any) error {
	req := &Request{Method: http.MethodGet, Path: path, Query: query}
	return s.doDecode(ctx, req, out)
}

// Post отправляет in как JSON и декодирует ответ в out.
func (s *Session) Post(ctx context.Context, path string, in, out any) error {
	return s.doJSON(ctx, http.MethodPost, path, in, out)
}

// Put отправляет in как JSON и декодирует ответ в out.
func (s *Session) Put(ctx context.Context, path string, in, out any) error {
	return s.doJSON(ctx, http.MethodPut, path, in, out)
}

// Patch отправляет in как JSON и декодирует ответ в out.
func (s *Session) Patch(ctx context.Context, path string, in, out any) error {
	return s.doJSON(ctx, http.MethodPatch, path, in, out)
}

// Delete выполняет DELETE и декодирует ответ в out, если он есть.
func (s *Session) Delete(ctx context.Context, path string, out any) error {
	return s.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// PostMultipart отправляет multipart/form-data тело.
func (s *Session) PostMultipart(ctx context.Context, path string, form *Multipart, out any) error {
	return s.doMultipart(ctx, http.MethodPost, path, form, out)
}

// PutMultipart отправляет multipart/form-data тело.
func (s *Session) PutMultipart(ctx context.Context, path string, form *Multipart, out any) error {
	return s.doMultipart(ctx, http.MethodPut, path, form, out)
}

// PatchMultipart отправляет multipart/form-data тело.
func (s *Session) PatchMultipart(ctx context.Context, path string, form *Multipart, out any) error {
	return s.doMultipart(ctx, http.MethodPatch, path, form, out)
}

func (s *Session) doJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := NewJSONRequest(method, path, in)
	if err != nil {
		return err
	}
	return s.doDecode(ctx, req, out)
}

func (s *Session) doMultipart(ctx context.Context, method, path string, form *Multipart, out any) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	req := &Request{Method: method, Path: path, Body: body, ContentType: contentType}
	return s.doDecode(ctx, req, out)
}

func (s *Session) doDecode(ctx context.Context, req *Request, out any) error {
	resp, err := s.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}
