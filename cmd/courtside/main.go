// courtside — консольный клиент REST-бэкенда ранов:
// чтение и курсорный обход ресурсов, CRUD, загрузка медиа и выпуск dev-токена.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/courtside/internal/apiclient"
	"github.com/pribylovaa/courtside/internal/auth"
	"github.com/pribylovaa/courtside/internal/config"
	logctx "github.com/pribylovaa/courtside/pkg/log"
	"github.com/pribylovaa/courtside/pkg/redact"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// cliSubject — subject dev-токена, который CLI выпускает сам.
const cliSubject = "courtside-cli"

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// app — зависимости команд.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	help string
	run  func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"list":        {help: "list all records of a resource", run: cmdList},
	"page":        {help: "fetch one cursor page or walk all pages (-all)", run: cmdPage},
	"get":         {help: "get a record by id", run: cmdGet},
	"create":      {help: "create a record from JSON", run: cmdCreate},
	"update":      {help: "replace a record from JSON", run: cmdUpdate},
	"delete":      {help: "delete a record by id", run: cmdDelete},
	"upload":      {help: "upload a media file to storage", run: cmdUpload},
	"file-exists": {help: "check that a media file exists", run: cmdFileExists},
	"file-delete": {help: "delete a media file", run: cmdFileDelete},
	"token":       {help: "issue a development bearer token", run: cmdToken},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("courtside", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr, fs)
		return 2
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		usage(stderr, fs)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	log := setupLogger(cfg.Env, stderr)
	ctx = logctx.Into(ctx, log)

	a := &app{cfg: cfg, log: log, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, a, rest[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}

		log.Error("command_failed",
			slog.String("command", rest[0]),
			slog.String("err", err.Error()),
		)

		return 1
	}

	return 0
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: courtside [--config path] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].help)
	}

	fmt.Fprintln(w)
	fs.PrintDefaults()
}

// client собирает apiclient по конфигу.
func (a *app) client() (*apiclient.Client, error) {
	return apiclient.New(apiclient.Options{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.Timeout,
		Limits:  apiclient.Limits{Default: a.cfg.Limits.Default, Max: a.cfg.Limits.Max},
		Routes:  a.cfg.Routes,
	})
}

// tokens: api.token из конфига, иначе dev-токен из auth.jwt_secret
// с ролью администратора (для локального stub-бэкенда).
func (a *app) tokens() (apiclient.TokenSource, error) {
	if a.cfg.API.Token != "" {
		a.log.Debug("token_source",
			slog.String("kind", "static"),
			slog.String("token", redact.Token(a.cfg.API.Token)),
		)

		return apiclient.StaticToken(a.cfg.API.Token), nil
	}

	issuer, err := a.issuer()
	if err != nil {
		return nil, err
	}

	a.log.Debug("token_source",
		slog.String("kind", "issued"),
		slog.String("secret", redact.Secret()),
	)

	return apiclient.TokenFunc(func(context.Context) (string, error) {
		return issuer.Issue(cliSubject, a.cfg.Auth.AdminRole)
	}), nil
}

func (a *app) issuer() (*auth.Tokens, error) {
	return auth.New(auth.Options{
		Secret: a.cfg.Auth.JWTSecret,
		Issuer: a.cfg.Auth.Issuer,
		TTL:    a.cfg.Auth.TokenTTL,
		Leeway: a.cfg.Auth.Leeway,
	})
}

func (a *app) print(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.stdout, string(raw))
	return err
}

// setupLogger пишет в stderr, чтобы stdout оставался чистым JSON.
func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
