package cli

import (
	"encoding/json"
	"fmt"

	"doomscrollr/internal/client/domain/entities"
)

func (e *env) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

// print выводит v как JSON при --json, иначе вызывает human.
func (e *env) print(v any, human func()) error {
	if !e.opts.JSON {
		human()
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	e.printf("%s\n", data)
	return nil
}

func (e *env) printUser(u entities.User) {
	e.printf("#%d  @%s", u.ID, u.Username)
	if u.Email != "" {
		e.printf("  <%s>", u.Email)
	}
	e.printf("\n")
}

func (e *env) printPost(p entities.Post) {
	e.printf("#%d  @%s  %d likes  %d comments\n", p.ID, p.User.Username, p.Likes, len(p.Comments))
	if p.Title != "" {
		e.printf("  %s\n", p.Title)
	}
	e.printf("  %s\n", p.Content)
}

func (e *env) printProject(p entities.Project) {
	e.printf("#%d  %s  by @%s  %.2f/%.2f (%.0f%%)\n",
		p.ID, p.Title, p.Owner.Username, p.CurrentFunding, p.FundingGoal, p.Progress())
}
