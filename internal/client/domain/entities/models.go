package entities

import "time"

// User - публичный профиль пользователя.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Followers    int    `json:"followers_count,omitempty"`
	Following    int    `json:"following_count,omitempty"`
	IsFollowing  bool   `json:"is_following,omitempty"`
}

// Comment - комментарий к посту ленты.
type Comment struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Post - социальный пост ленты.
type Post struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Project - проект для сбора средств.
type Project struct {
	ID             int64     `json:"id"`
	Owner          User      `json:"owner"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Image          string    `json:"image,omitempty"`
	FundingGoal    float64   `json:"funding_goal"`
	CurrentFunding float64   `json:"current_funding"`
	CreatedAt      time.Time `json:"created_at"`
}

// Progress возвращает долю собранных средств в процентах.
func (p Project) Progress() float64 {
	if p.FundingGoal <= 0 {
		return 0
	}
	return p.CurrentFunding / p.FundingGoal * 100
}

// Transaction - перевод средств на проект.
type Transaction struct {
	ID        int64     `json:"id"`
	Sender    int64     `json:"sender"`
	Receiver  int64     `json:"receiver"`
	Project   int64     `json:"project"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation - диалог с другим пользователем.
type Conversation struct {
	ID          int64     `json:"id"`
	User        User      `json:"user"`
	LastMessage *Message  `json:"last_message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message - сообщение в диалоге.
type Message struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender_username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
