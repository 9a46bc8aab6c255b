// Package storage - хранилище данных локального сервера в памяти.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"doomscrollr/internal/client/domain/entities"
)

// Ошибки хранилища.
var (
	ErrNotFound       = errors.New("not found")
	ErrUsernameTaken  = errors.New("a user with that username already exists")
	ErrSelfFollow     = errors.New("cannot follow yourself")
	ErrNotParticipant = errors.New("not a participant of the conversation")
	ErrSelfChat       = errors.New("cannot start a conversation with yourself")
	ErrInvalidFunding = errors.New("receiver must be the project owner")
)

type userRecord struct {
	user      entities.User
	hash      string
	following map[int64]struct{}
}

type postRecord struct {
	post  entities.Post
	likes map[int64]struct{}
}

type conversationRecord struct {
	id        int64
	members   [2]int64
	messages  []entities.Message
	createdAt time.Time
}

// Memory хранит пользователей, ленту, проекты, переводы и диалоги.
type Memory struct {
	mu  sync.RWMutex
	now func() time.Time

	nextID int64

	users         map[int64]*userRecord
	usernames     map[string]int64
	posts         []*postRecord
	projects      map[int64]*entities.Project
	transactions  []entities.Transaction
	conversations map[int64]*conversationRecord
}

// NewMemory создает пустое хранилище.
func NewMemory() *Memory {
	return &Memory{
		now:           time.Now,
		users:         make(map[int64]*userRecord),
		usernames:     make(map[string]int64),
		projects:      make(map[int64]*entities.Project),
		conversations: make(map[int64]*conversationRecord),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// CreateUser регистрирует пользователя с хешем пароля.
func (m *Memory) CreateUser(username, email, hash string) (entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(username)
	if _, ok := m.usernames[key]; ok {
		return entities.User{}, ErrUsernameTaken
	}

	rec := &userRecord{
		user:      entities.User{ID: m.id(), Username: username, Email: email},
		hash:      hash,
		following: make(map[int64]struct{}),
	}
	m.users[rec.user.ID] = rec
	m.usernames[key] = rec.user.ID

	return rec.user, nil
}

// Credentials возвращает пользователя и хеш пароля по имени.
func (m *Memory) Credentials(username string) (entities.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usernames[strings.ToLower(username)]
	if !ok {
		return entities.User{}, "", ErrNotFound
	}
	rec := m.users[id]
	return rec.user, rec.hash, nil
}

// PasswordHash возвращает хеш пароля пользователя.
func (m *Memory) PasswordHash(id int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[id]
	if !ok {
		return "", ErrNotFound
	}
	return rec.hash, nil
}

// SetPasswordHash заменяет хеш пароля.
func (m *Memory) SetPasswordHash(id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	rec.hash = hash
	return nil
}

// User возвращает профиль id с точки зрения viewer.
func (m *Memory) User(viewer, id int64) (entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[id]; !ok {
		return entities.User{}, ErrNotFound
	}
	return m.profile(viewer, id), nil
}

// Users возвращает всех пользователей по возрастанию id.
func (m *Memory) Users(viewer int64) []entities.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]entities.User, 0, len(m.users))
	for id := range m.users {
		users = append(users, m.profile(viewer, id))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// UpdateUser меняет имя, описание и изображение. Пустые значения не меняются.
func (m *Memory) UpdateUser(id int64, username, bio, image string) (entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.users[id]
	if !ok {
		return entities.User{}, ErrNotFound
	}

	if username != "" && !strings.EqualFold(username, rec.user.Username) {
		key := strings.ToLower(username)
		if _, taken := m.usernames[key]; taken {
			return entities.User{}, ErrUsernameTaken
		}
		delete(m.usernames, strings.ToLower(rec.user.Username))
		m.usernames[key] = id
		rec.user.Username = username
	}
	if bio != "" {
		rec.user.Bio = bio
	}
	if image != "" {
		rec.user.ProfileImage = image
	}

	return m.profile(id, id), nil
}

// Follow подписывает follower на id.
func (m *Memory) Follow(follower, id int64) error {
	return m.setFollow(follower, id, true)
}

// Unfollow отменяет подписку.
func (m *Memory) Unfollow(follower, id int64) error {
	return m.setFollow(follower, id, false)
}

func (m *Memory) setFollow(follower, id int64, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if follower == id {
		return ErrSelfFollow
	}
	rec, ok := m.users[follower]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}

	if on {
		rec.following[id] = struct{}{}
	} else {
		delete(rec.following, id)
	}
	return nil
}

// profile вызывается под m.mu.
func (m *Memory) profile(viewer, id int64) entities.User {
	rec := m.users[id]
	user := rec.user
	user.Following = len(rec.following)

	for otherID, other := range m.users {
		if _, ok := other.following[id]; ok {
			user.Followers++
			if otherID == viewer {
				user.IsFollowing = true
			}
		}
	}
	if viewer != id {
		user.Email = ""
	}
	return user
}

// CreatePost публикует пост.
func (m *Memory) CreatePost(authorID int64, title, content, image string) (entities.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[authorID]; !ok {
		return entities.Post{}, ErrNotFound
	}

	rec := &postRecord{
		post: entities.Post{
			ID:        m.id(),
			User:      m.profile(authorID, authorID),
			Title:     title,
			Content:   content,
			Image:     image,
			CreatedAt: m.now(),
		},
		likes: make(map[int64]struct{}),
	}
	m.posts = append(m.posts, rec)
	return rec.post, nil
}

// Posts возвращает посты от новых к старым. author > 0 ограничивает автора.
func (m *Memory) Posts(author int64) []entities.Post {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]entities.Post, 0, len(m.posts))
	for i := len(m.posts) - 1; i >= 0; i-- {
		rec := m.posts[i]
		if author > 0 && rec.post.User.ID != author {
			continue
		}
		post := rec.post
		post.Likes = len(rec.likes)
		post.Comments = append([]entities.Comment(nil), rec.post.Comments...)
		posts = append(posts, post)
	}
	return posts
}

// Like отмечает пост. Повторная отметка ничего не меняет.
func (m *Memory) Like(userID, postID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.post(postID)
	if err != nil {
		return 0, err
	}
	rec.likes[userID] = struct{}{}
	return len(rec.likes), nil
}

// AddComment добавляет комментарий к посту.
func (m *Memory) AddComment(userID, postID int64, text string) (entities.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.post(postID)
	if err != nil {
		return entities.Comment{}, err
	}

	comment := entities.Comment{
		ID:        m.id(),
		User:      m.profile(userID, userID),
		Text:      text,
		CreatedAt: m.now(),
	}
	rec.post.Comments = append(rec.post.Comments, comment)
	return comment, nil
}

func (m *Memory) post(id int64) (*postRecord, error) {
	for _, rec := range m.posts {
		if rec.post.ID == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// CreateProject создает проект.
func (m *Memory) CreateProject(ownerID int64, title, description string, goal float64, image string) (entities.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[ownerID]; !ok {
		return entities.Project{}, ErrNotFound
	}

	project := &entities.Project{
		ID:          m.id(),
		Owner:       m.profile(ownerID, ownerID),
		Title:       title,
		Description: description,
		Image:       image,
		FundingGoal: goal,
		CreatedAt:   m.now(),
	}
	m.projects[project.ID] = project
	return *project, nil
}

// Project возвращает проект.
func (m *Memory) Project(id int64) (entities.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return entities.Project{}, ErrNotFound
	}
	return *p, nil
}

// Projects возвращает проекты. owner > 0 ограничивает владельца.
func (m *Memory) Projects(owner int64) []entities.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filterProjects(func(p *entities.Project) bool {
		return owner <= 0 || p.Owner.ID == owner
	})
}

// FundedProjects возвращает проекты, на которые переводил userID.
func (m *Memory) FundedProjects(userID int64) []entities.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()

	funded := make(map[int64]struct{})
	for _, tx := range m.transactions {
		if tx.Sender == userID {
			funded[tx.Project] = struct{}{}
		}
	}
	return m.filterProjects(func(p *entities.Project) bool {
		_, ok := funded[p.ID]
		return ok
	})
}

func (m *Memory) filterProjects(keep func(*entities.Project) bool) []entities.Project {
	projects := make([]entities.Project, 0, len(m.projects))
	for _, p := range m.projects {
		if keep(p) {
			projects = append(projects, *p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return projects
}

// Fund записывает перевод и увеличивает собранную сумму проекта.
func (m *Memory) Fund(sender, receiver, projectID int64, amount float64) (entities.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[projectID]
	if !ok {
		return entities.Transaction{}, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
	}
	if p.Owner.ID != receiver {
		return entities.Transaction{}, ErrInvalidFunding
	}

	p.CurrentFunding += amount
	tx := entities.Transaction{
		ID:        m.id(),
		Sender:    sender,
		Receiver:  receiver,
		Project:   projectID,
		Amount:    amount,
		CreatedAt: m.now(),
	}
	m.transactions = append(m.transactions, tx)
	return tx, nil
}

// Transactions возвращает переводы, где userID отправитель или получатель.
func (m *Memory) Transactions(userID int64) []entities.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	txs := make([]entities.Transaction, 0)
	for i := len(m.transactions) - 1; i >= 0; i-- {
		tx := m.transactions[i]
		if tx.Sender == userID || tx.Receiver == userID {
			txs = append(txs, tx)
		}
	}
	return txs
}

// StartConversation возвращает диалог userID с other, создавая его при необходимости.
func (m *Memory) StartConversation(userID, other int64) (entities.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if userID == other {
		return entities.Conversation{}, ErrSelfChat
	}
	if _, ok := m.users[other]; !ok {
		return entities.Conversation{}, ErrNotFound
	}

	for _, conv := range m.conversations {
		if conv.has(userID) && conv.has(other) {
			return m.conversationView(conv, userID), nil
		}
	}

	conv := &conversationRecord{id: m.id(), members: [2]int64{userID, other}, createdAt: m.now()}
	m.conversations[conv.id] = conv
	return m.conversationView(conv, userID), nil
}

// Conversations возвращает диалоги пользователя.
func (m *Memory) Conversations(userID int64) []entities.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	convs := make([]entities.Conversation, 0)
	for _, conv := range m.conversations {
		if conv.has(userID) {
			convs = append(convs, m.conversationView(conv, userID))
		}
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].ID < convs[j].ID })
	return convs
}

// Messages возвращает сообщения диалога, если userID в нем участвует.
func (m *Memory) Messages(userID, convID int64) ([]entities.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, err := m.conversation(userID, convID)
	if err != nil {
		return nil, err
	}
	return append([]entities.Message{}, conv.messages...), nil
}

// SendMessage добавляет сообщение в диалог.
func (m *Memory) SendMessage(userID, convID int64, text string) (entities.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, err := m.conversation(userID, convID)
	if err != nil {
		return entities.Message{}, err
	}

	msg := entities.Message{
		ID:        m.id(),
		Sender:    m.users[userID].user.Username,
		Text:      text,
		CreatedAt: m.now(),
	}
	conv.messages = append(conv.messages, msg)
	return msg, nil
}

func (m *Memory) conversation(userID, convID int64) (*conversationRecord, error) {
	conv, ok := m.conversations[convID]
	if !ok {
		return nil, ErrNotFound
	}
	if !conv.has(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

func (m *Memory) conversationView(conv *conversationRecord, viewer int64) entities.Conversation {
	other := conv.members[0]
	if other == viewer {
		other = conv.members[1]
	}

	view := entities.Conversation{
		ID:        conv.id,
		User:      m.profile(viewer, other),
		CreatedAt: conv.createdAt,
	}
	if n := len(conv.messages); n > 0 {
		last := conv.messages[n-1]
		view.LastMessage = &last
	}
	return view
}

func (c *conversationRecord) has(userID int64) bool {
	return c.members[0] == userID || c.members[1] == userID
}
