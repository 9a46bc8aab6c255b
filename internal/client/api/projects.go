package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"doomscrollr/internal/client/domain/entities"
)

// ProjectFilter ограничивает список проектов. Нулевое значение - все проекты.
type ProjectFilter struct {
	Owner int64
}

func (f ProjectFilter) query() url.Values {
	if f.Owner <= 0 {
		return nil
	}
	return url.Values{"owner": {strconv.FormatInt(f.Owner, 10)}}
}

// Projects возвращает список проектов.
func (c *Client) Projects(ctx context.Context, filter ProjectFilter) ([]entities.Project, error) {
	var projects []entities.Project
	if err := c.get(ctx, "projects/", filter.query(), &projects); err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	return projects, nil
}

// Project возвращает проект по идентификатору.
func (c *Client) Project(ctx context.Context, id int64) (*entities.Project, error) {
	if err := c.checkID("project id", id); err != nil {
		return nil, err
	}

	var project entities.Project
	if err := c.get(ctx, idPath("projects/%s/", id), nil, &project); err != nil {
		return nil, fmt.Errorf("project %d: %w", id, err)
	}
	return &project, nil
}

// CreateProject создает проект.
func (c *Client) CreateProject(ctx context.Context, project NewProject) (*entities.Project, error) {
	if err := c.check(project); err != nil {
		return nil, err
	}

	var created entities.Project
	if err := c.session.PostMultipart(ctx, "projects/", project.form(), &created); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &created, nil
}

// Fund переводит amount владельцу проекта.
func (c *Client) Fund(ctx context.Context, project entities.Project, amount float64) (*entities.Transaction, error) {
	req := FundRequest{Receiver: project.Owner.ID, Project: project.ID, Amount: amount}
	if err := c.check(req); err != nil {
		return nil, err
	}

	var tx entities.Transaction
	if err := c.session.Post(ctx, "transactions/", req, &tx); err != nil {
		return nil, fmt.Errorf("fund project %d: %w", project.ID, err)
	}
	return &tx, nil
}

// Transactions возвращает переводы текущего пользователя.
func (c *Client) Transactions(ctx context.Context) ([]entities.Transaction, error) {
	var txs []entities.Transaction
	if err := c.get(ctx, "user-transactions/", nil, &txs); err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}
	return txs, nil
}
