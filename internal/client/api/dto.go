package api

import (
	"strconv"

	"doomscrollr/internal/client/session"
)

// RegisterRequest - данные регистрации.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest - данные входа.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair - ответ эндпоинта входа.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ChangePasswordRequest - смена пароля.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128,nefield=OldPassword"`
}

// CommentRequest - комментарий к посту.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// FundRequest - перевод средств на проект.
type FundRequest struct {
	Receiver int64   `json:"receiver" validate:"gt=0"`
	Project  int64   `json:"project" validate:"gt=0"`
	Amount   float64 `json:"amount" validate:"gt=0"`
}

// MessageRequest - сообщение в диалог.
type MessageRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// ConversationRequest - открытие диалога с пользователем.
type ConversationRequest struct {
	User int64 `json:"user" validate:"gt=0"`
}

// Upload - файл для multipart загрузки.
type Upload struct {
	FileName string
	Content  []byte
}

// ProfileUpdate - изменение профиля текущего пользователя.
type ProfileUpdate struct {
	Username string `validate:"omitempty,min=3,max=150"`
	Bio      string `validate:"max=500"`
	Image    *Upload
}

// NewPost - новый социальный пост.
type NewPost struct {
	Title   string `validate:"max=200"`
	Content string `validate:"required"`
	Image   *Upload
}

// NewProject - новый проект для сбора средств.
type NewProject struct {
	Title        string  `validate:"required,max=200"`
	Description  string  `validate:"required"`
	TargetAmount float64 `validate:"gt=0"`
	Image        *Upload
}

func (p ProfileUpdate) form() *session.Multipart {
	form := &session.Multipart{Fields: map[string]string{"bio": p.Bio}}
	if p.Username != "" {
		form.Fields["username"] = p.Username
	}
	attach(form, "image", p.Image)
	return form
}

func (p NewPost) form() *session.Multipart {
	form := &session.Multipart{Fields: map[string]string{"content": p.Content}}
	if p.Title != "" {
		form.Fields["title"] = p.Title
	}
	attach(form, "image", p.Image)
	return form
}

func (p NewProject) form() *session.Multipart {
	form := &session.Multipart{Fields: map[string]string{
		"title":         p.Title,
		"description":   p.Description,
		"target_amount": strconv.FormatFloat(p.TargetAmount, 'f', -1, 64),
	}}
	attach(form, "image", p.Image)
	return form
}

func attach(form *session.Multipart, field string, u *Upload) {
	if u == nil {
		return
	}
	form.Files = append(form.Files, session.FilePart{Field: field, FileName: u.FileName, Content: u.Content})
}
