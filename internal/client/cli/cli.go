// Package cli - команды консольного клиента doomscrollr.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"doomscrollr/internal/client/adapters/store"
	"doomscrollr/internal/client/api"
	"doomscrollr/internal/client/config"
	"doomscrollr/internal/client/metrics"
	storePorts "doomscrollr/internal/client/ports/store"
	"doomscrollr/internal/client/resilience"
	"doomscrollr/internal/client/session"
	"doomscrollr/pkg/logger"
)

// Коды завершения.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitReauth = 2
)

// MsgSessionExpired выводится, когда нужен повторный вход.
const MsgSessionExpired = "session expired, please log in again"

const (
	LogCommandFailed  = "command failed"
	ErrorFailedLogger = "failed to initialize logger"
	ErrorFailedStore  = "failed to open credential store"
	ErrorFailedInit   = "failed to initialize session"
)

// errNoHandler возвращается, если команда запущена без обработчика парсера.
var errNoHandler = errors.New("command handler is not configured")

// Options - корневая команда с глобальными флагами.
type Options struct {
	EnvFile string `long:"env-file" default:".env" description:"optional .env file with DOOMSCROLLR_* variables"`
	JSON    bool   `long:"json" description:"print raw JSON"`

	Register     RegisterCmd     `command:"register" description:"Create an account"`
	Login        LoginCmd        `command:"login" description:"Log in and store tokens"`
	Logout       LogoutCmd       `command:"logout" description:"Forget stored tokens"`
	Whoami       WhoamiCmd       `command:"whoami" description:"Show the current user"`
	Feed         FeedCmd         `command:"feed" description:"Show the feed"`
	Post         PostCmd         `command:"post" description:"Publish a post"`
	Like         LikeCmd         `command:"like" description:"Like a post"`
	Comment      CommentCmd      `command:"comment" description:"Comment on a post"`
	Projects     ProjectsCmd     `command:"projects" description:"List projects"`
	Project      ProjectCmd      `command:"project" description:"Show a project"`
	NewProject   NewProjectCmd   `command:"new-project" description:"Create a project"`
	Fund         FundCmd         `command:"fund" description:"Fund a project"`
	Transactions TransactionsCmd `command:"transactions" description:"List your transactions"`
	Users        UsersCmd        `command:"users" description:"List users"`
	Follow       FollowCmd       `command:"follow" description:"Follow a user"`
	Unfollow     UnfollowCmd     `command:"unfollow" description:"Unfollow a user"`
	Chats        ChatsCmd        `command:"chats" description:"List conversations"`
	Chat         ChatCmd         `command:"chat" description:"Start a conversation with a user"`
	Messages     MessagesCmd     `command:"messages" description:"Show conversation messages"`
	Send         SendCmd         `command:"send" description:"Send a message"`
}

// Deps - внешние зависимости запуска. Нулевые поля заменяются значениями по умолчанию.
type Deps struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Registerer prometheus.Registerer
	Store      storePorts.CredentialStore
	Transport  http.RoundTripper
}

// command реализует flags.Commander для всех подкоманд; сама работа
// выполняется в run через обработчик парсера.
type command struct{}

func (command) Execute([]string) error {
	return errNoHandler
}

type runner interface {
	run(ctx context.Context, e *env) error
}

// env - окружение выполнения одной команды.
type env struct {
	opts   *Options
	out    io.Writer
	client *api.Client
}

// Main разбирает аргументы и выполняет команду с зависимостями по умолчанию.
func Main(args []string) int {
	return Run(context.Background(), args, Deps{})
}

// Run разбирает аргументы, выполняет команду и возвращает код завершения.
func Run(ctx context.Context, args []string, deps Deps) int {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}

	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, _ []string) error {
		r, ok := cmd.(runner)
		if !ok {
			return errNoHandler
		}
		return execute(ctx, opts, deps, r)
	}

	_, err := parser.ParseArgs(args)
	if err == nil {
		return ExitOK
	}

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		_, _ = fmt.Fprintln(deps.Stdout, flagsErr.Message)
		return ExitOK
	}

	if errors.Is(err, session.ErrReauthRequired) {
		_, _ = fmt.Fprintln(deps.Stderr, MsgSessionExpired)
		return ExitReauth
	}

	_, _ = fmt.Fprintln(deps.Stderr, "error:", err)
	return ExitError
}

func execute(ctx context.Context, opts *Options, deps Deps, r runner) error {
	cfg, err := config.Load(ctx, opts.EnvFile)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedLogger, err)
	}
	defer func() { _ = log.Sync() }()
	ctx = logger.NewContext(ctx, log)

	st := deps.Store
	if st == nil {
		if st, err = store.NewStore(ctx, &cfg.Storage, &cfg.Redis); err != nil {
			return fmt.Errorf("%s: %w", ErrorFailedStore, err)
		}
		defer func() { _ = st.Close() }()
	}

	transport := deps.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	sess, err := session.New(ctx, session.NewConfig(cfg), st,
		session.WithTransport(resilience.Wrap(transport, cfg.Resilience)),
		session.WithRefreshTransport(transport),
		session.WithMetrics(metrics.NewSession(deps.Registerer)),
		session.WithSessionEndedHandler(func(ctx context.Context, cause error) {
			logger.Log(ctx).Warn(ctx, session.LogSessionEnded, zap.Error(cause))
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedInit, err)
	}

	e := &env{opts: opts, out: deps.Stdout, client: api.New(sess)}
	if err := r.run(ctx, e); err != nil {
		log.Debug(ctx, LogCommandFailed, zap.Error(err))
		return err
	}
	return nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	env := cfg.Logging.GetEnvironment()
	if cfg.Logging.File != "" {
		return logger.NewFileLogger(env, cfg.Logging.Level, logger.FileOptions{Path: cfg.Logging.File})
	}
	return logger.NewLogger(env, cfg.Logging.Level)
}
