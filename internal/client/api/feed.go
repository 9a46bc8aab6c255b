package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"doomscrollr/internal/client/domain/entities"
)

// Feed возвращает ленту постов.
func (c *Client) Feed(ctx context.Context) ([]entities.Post, error) {
	var posts []entities.Post
	if err := c.get(ctx, "feed/", nil, &posts); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return posts, nil
}

// Like ставит отметку на пост.
func (c *Client) Like(ctx context.Context, postID int64) error {
	if err := c.checkID("post id", postID); err != nil {
		return err
	}
	if err := c.session.Post(ctx, idPath("feed/%s/like/", postID), struct{}{}, nil); err != nil {
		return fmt.Errorf("like post %d: %w", postID, err)
	}
	return nil
}

// Comment добавляет комментарий к посту.
func (c *Client) Comment(ctx context.Context, postID int64, text string) (*entities.Comment, error) {
	if err := c.checkID("post id", postID); err != nil {
		return nil, err
	}
	req := CommentRequest{Text: text}
	if err := c.check(req); err != nil {
		return nil, err
	}

	var comment entities.Comment
	if err := c.session.Post(ctx, idPath("feed/%s/comment/", postID), req, &comment); err != nil {
		return nil, fmt.Errorf("comment post %d: %w", postID, err)
	}
	return &comment, nil
}

// CreatePost публикует пост с необязательным изображением.
func (c *Client) CreatePost(ctx context.Context, post NewPost) (*entities.Post, error) {
	if err := c.check(post); err != nil {
		return nil, err
	}

	var created entities.Post
	if err := c.session.PostMultipart(ctx, "social-posts/", post.form(), &created); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &created, nil
}

// PostsByAuthor возвращает посты пользователя.
func (c *Client) PostsByAuthor(ctx context.Context, userID int64) ([]entities.Post, error) {
	if err := c.checkID("user id", userID); err != nil {
		return nil, err
	}

	var posts []entities.Post
	query := url.Values{"author": {strconv.FormatInt(userID, 10)}}
	if err := c.get(ctx, "social-posts/", query, &posts); err != nil {
		return nil, fmt.Errorf("posts of user %d: %w", userID, err)
	}
	return posts, nil
}
