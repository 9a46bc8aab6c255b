package handlers

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type textRequest struct {
	Text string `json:"text" validate:"required"`
}

type fundRequest struct {
	Receiver int64   `json:"receiver" validate:"gt=0"`
	Project  int64   `json:"project" validate:"gt=0"`
	Amount   float64 `json:"amount" validate:"gt=0"`
}

type conversationRequest struct {
	User int64 `json:"user" validate:"gt=0"`
}
