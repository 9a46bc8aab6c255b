package cli

import "context"

// UsersCmd показывает пользователей.
type UsersCmd struct {
	command
}

func (c *UsersCmd) run(ctx context.Context, e *env) error {
	users, err := e.client.Users(ctx)
	if err != nil {
		return err
	}
	return e.print(users, func() {
		for _, u := range users {
			e.printUser(u)
		}
	})
}

type userArg struct {
	UserID int64 `positional-arg-name:"user-id" required:"yes"`
}

// FollowCmd подписывается на пользователя.
type FollowCmd struct {
	command
	Args userArg `positional-args:"yes"`
}

func (c *FollowCmd) run(ctx context.Context, e *env) error {
	if err := e.client.Follow(ctx, c.Args.UserID); err != nil {
		return err
	}
	e.printf("following user #%d\n", c.Args.UserID)
	return nil
}

// UnfollowCmd отменяет подписку.
type UnfollowCmd struct {
	command
	Args userArg `positional-args:"yes"`
}

func (c *UnfollowCmd) run(ctx context.Context, e *env) error {
	if err := e.client.Unfollow(ctx, c.Args.UserID); err != nil {
		return err
	}
	e.printf("unfollowed user #%d\n", c.Args.UserID)
	return nil
}

// ChatsCmd показывает диалоги.
type ChatsCmd struct {
	command
}

func (c *ChatsCmd) run(ctx context.Context, e *env) error {
	convs, err := e.client.Conversations(ctx)
	if err != nil {
		return err
	}
	return e.print(convs, func() {
		for _, conv := range convs {
			e.printf("#%d  @%s\n", conv.ID, conv.User.Username)
		}
	})
}

// ChatCmd открывает диалог с пользователем.
type ChatCmd struct {
	command
	Args userArg `positional-args:"yes"`
}

func (c *ChatCmd) run(ctx context.Context, e *env) error {
	conv, err := e.client.StartConversation(ctx, c.Args.UserID)
	if err != nil {
		return err
	}
	return e.print(conv, func() { e.printf("conversation #%d with @%s\n", conv.ID, conv.User.Username) })
}

type conversationArg struct {
	ConversationID int64 `positional-arg-name:"conversation-id" required:"yes"`
}

// MessagesCmd показывает сообщения диалога.
type MessagesCmd struct {
	command
	Args conversationArg `positional-args:"yes"`
}

func (c *MessagesCmd) run(ctx context.Context, e *env) error {
	msgs, err := e.client.Messages(ctx, c.Args.ConversationID)
	if err != nil {
		return err
	}
	return e.print(msgs, func() {
		for _, m := range msgs {
			e.printf("[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Sender, m.Text)
		}
	})
}

// SendCmd отправляет сообщение.
type SendCmd struct {
	command
	Args struct {
		ConversationID int64  `positional-arg-name:"conversation-id" required:"yes"`
		Text           string `positional-arg-name:"text" required:"yes"`
	} `positional-args:"yes"`
}

func (c *SendCmd) run(ctx context.Context, e *env) error {
	msg, err := e.client.SendMessage(ctx, c.Args.ConversationID, c.Args.Text)
	if err != nil {
		return err
	}
	return e.print(msg, func() { e.printf("sent\n") })
}
