package cli

import (
	"context"
	"os"
	"path/filepath"

	"doomscrollr/internal/client/api"
)

// FeedCmd показывает ленту.
type FeedCmd struct {
	command
}

func (c *FeedCmd) run(ctx context.Context, e *env) error {
	posts, err := e.client.Feed(ctx)
	if err != nil {
		return err
	}
	return e.print(posts, func() {
		for _, p := range posts {
			e.printPost(p)
		}
	})
}

// PostCmd публикует пост.
type PostCmd struct {
	command
	Title   string `long:"title" description:"post title"`
	Content string `long:"content" short:"c" required:"yes" description:"post text"`
	Image   string `long:"image" description:"path to an image file"`
}

func (c *PostCmd) run(ctx context.Context, e *env) error {
	upload, err := readUpload(c.Image)
	if err != nil {
		return err
	}
	post, err := e.client.CreatePost(ctx, api.NewPost{Title: c.Title, Content: c.Content, Image: upload})
	if err != nil {
		return err
	}
	return e.print(post, func() { e.printf("published post #%d\n", post.ID) })
}

// LikeCmd ставит отметку на пост.
type LikeCmd struct {
	command
	Args struct {
		PostID int64 `positional-arg-name:"post-id" required:"yes"`
	} `positional-args:"yes"`
}

func (c *LikeCmd) run(ctx context.Context, e *env) error {
	if err := e.client.Like(ctx, c.Args.PostID); err != nil {
		return err
	}
	e.printf("liked post #%d\n", c.Args.PostID)
	return nil
}

// CommentCmd комментирует пост.
type CommentCmd struct {
	command
	Args struct {
		PostID int64  `positional-arg-name:"post-id" required:"yes"`
		Text   string `positional-arg-name:"text" required:"yes"`
	} `positional-args:"yes"`
}

func (c *CommentCmd) run(ctx context.Context, e *env) error {
	comment, err := e.client.Comment(ctx, c.Args.PostID, c.Args.Text)
	if err != nil {
		return err
	}
	return e.print(comment, func() { e.printf("commented on post #%d\n", c.Args.PostID) })
}

// ProjectsCmd показывает проекты.
type ProjectsCmd struct {
	command
	Owner int64 `long:"owner" description:"only projects of this user id"`
}

func (c *ProjectsCmd) run(ctx context.Context, e *env) error {
	projects, err := e.client.Projects(ctx, api.ProjectFilter{Owner: c.Owner})
	if err != nil {
		return err
	}
	return e.print(projects, func() {
		for _, p := range projects {
			e.printProject(p)
		}
	})
}

// ProjectCmd показывает проект.
type ProjectCmd struct {
	command
	Args struct {
		ID int64 `positional-arg-name:"project-id" required:"yes"`
	} `positional-args:"yes"`
}

func (c *ProjectCmd) run(ctx context.Context, e *env) error {
	project, err := e.client.Project(ctx, c.Args.ID)
	if err != nil {
		return err
	}
	return e.print(project, func() {
		e.printProject(*project)
		if project.Description != "" {
			e.printf("  %s\n", project.Description)
		}
	})
}

// NewProjectCmd создает проект.
type NewProjectCmd struct {
	command
	Title       string  `long:"title" required:"yes" description:"project title"`
	Description string  `long:"description" required:"yes" description:"project description"`
	Target      float64 `long:"target" required:"yes" description:"funding goal"`
	Image       string  `long:"image" description:"path to an image file"`
}

func (c *NewProjectCmd) run(ctx context.Context, e *env) error {
	upload, err := readUpload(c.Image)
	if err != nil {
		return err
	}
	project, err := e.client.CreateProject(ctx, api.NewProject{
		Title:        c.Title,
		Description:  c.Description,
		TargetAmount: c.Target,
		Image:        upload,
	})
	if err != nil {
		return err
	}
	return e.print(project, func() { e.printf("created project #%d\n", project.ID) })
}

// FundCmd переводит средства на проект.
type FundCmd struct {
	command
	Args struct {
		ProjectID int64   `positional-arg-name:"project-id" required:"yes"`
		Amount    float64 `positional-arg-name:"amount" required:"yes"`
	} `positional-args:"yes"`
}

func (c *FundCmd) run(ctx context.Context, e *env) error {
	project, err := e.client.Project(ctx, c.Args.ProjectID)
	if err != nil {
		return err
	}
	tx, err := e.client.Fund(ctx, *project, c.Args.Amount)
	if err != nil {
		return err
	}
	return e.print(tx, func() {
		e.printf("funded %q with %.2f\n", project.Title, c.Args.Amount)
	})
}

// TransactionsCmd показывает переводы текущего пользователя.
type TransactionsCmd struct {
	command
}

func (c *TransactionsCmd) run(ctx context.Context, e *env) error {
	txs, err := e.client.Transactions(ctx)
	if err != nil {
		return err
	}
	return e.print(txs, func() {
		for _, tx := range txs {
			e.printf("#%d  project %d  %.2f  %s\n", tx.ID, tx.Project, tx.Amount, tx.CreatedAt.Format("2006-01-02"))
		}
	})
}

func readUpload(path string) (*api.Upload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &api.Upload{FileName: filepath.Base(path), Content: data}, nil
}
