package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
)

// Request - неизменяемое описание запроса. Тело хранится целиком, чтобы
// запрос можно было повторить после обновления токена.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
}

// NewJSONRequest кодирует in в JSON. nil in означает запрос без тела.
func NewJSONRequest(method, path string, in any) (*Request, error) {
	req := &Request{Method: method, Path: path}
	if in == nil {
		return req, nil
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req.Body = body
	req.ContentType = contentTypeJSON
	return req, nil
}

// Response - полностью прочитанный ответ API.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode разбирает JSON тело ответа в out. Пустое тело ничего не меняет.
func (r *Response) Decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// FilePart - файл в multipart теле.
type FilePart struct {
	Field    string
	FileName string
	Content  []byte
}

// Multipart описывает multipart/form-data тело, например для загрузки изображений.
type Multipart struct {
	Fields map[string]string
	Files  []FilePart
}

// Encode собирает тело и возвращает его вместе с Content-Type.
func (m *Multipart) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write multipart field %q: %w", k, err)
		}
	}

	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create multipart file %q: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write multipart file %q: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
