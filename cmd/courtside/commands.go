package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/courtside/internal/apiclient"
	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/storage"
	"github.com/pribylovaa/courtside/internal/storage/minio"
	"github.com/pribylovaa/courtside/pkg/redact"
)

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// documents — нетипизированный клиент ресурса и источник токена.
func (a *app) documents(resource string) (*apiclient.Resource[models.Document, models.Document], apiclient.TokenSource, error) {
	c, err := a.client()
	if err != nil {
		return nil, nil, err
	}

	res, err := apiclient.Documents(c, resource)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := a.tokens()
	if err != nil {
		return nil, nil, err
	}

	return res, tokens, nil
}

func cmdList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "list")
	resource := fs.String("resource", models.ResourceRun, "resource name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, tokens, err := a.documents(*resource)
	if err != nil {
		return err
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}

	items, err := res.ListAll(ctx, token)
	if err != nil {
		return err
	}

	return a.print(items)
}

func cmdPage(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "page")
	resource := fs.String("resource", models.ResourceRun, "resource name")
	limit := fs.Int("limit", 0, "page size (0 = server default)")
	sortBy := fs.String("sort", "", "sort field, optionally with :asc or :desc")
	direction := fs.String("direction", "next", "next or previous")
	cursor := fs.String("cursor", "", "cursor from a previous page")
	all := fs.Bool("all", false, "walk every page in the chosen direction")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, tokens, err := a.documents(*resource)
	if err != nil {
		return err
	}

	req := models.PageRequest{
		Cursor:    *cursor,
		Limit:     *limit,
		Direction: *direction,
		SortBy:    *sortBy,
	}

	if !*all {
		token, err := tokens.Token(ctx)
		if err != nil {
			return err
		}

		page, err := res.ListPage(ctx, req, token)
		if err != nil {
			return err
		}

		return a.print(page)
	}

	pager := res.Walk(req, tokens)
	items, err := apiclient.Collect(ctx, pager)
	if err != nil {
		return err
	}

	a.log.Info("walk_done",
		slog.String("resource", *resource),
		slog.Int("pages", pager.Pages()),
		slog.Int("items", len(items)),
	)

	return a.print(items)
}

func cmdGet(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "get")
	resource := fs.String("resource", models.ResourceRun, "resource name")
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, tokens, err := a.documents(*resource)
	if err != nil {
		return err
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}

	doc, err := res.GetByID(ctx, *id, token)
	if err != nil {
		return err
	}

	return a.print(doc)
}

func cmdCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "create")
	resource := fs.String("resource", models.ResourceRun, "resource name")
	data := fs.String("data", "", "JSON object, or @path to read it from a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := readDocument(*data)
	if err != nil {
		return err
	}

	res, tokens, err := a.documents(*resource)
	if err != nil {
		return err
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}

	created, err := res.Create(ctx, doc, token)
	if err != nil {
		return err
	}

	return a.print(created)
}

func cmdUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "update")
	resource := fs.String("resource", models.ResourceRun, "resource name")
	data := fs.String("data", "", "JSON object with id, or @path to read it from a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := readDocument(*data)
	if err != nil {
		return err
	}

	res, tokens, err := a.documents(*resource)
	if err != nil {
		return err
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}

	ok, err := res.Update(ctx, doc, token)
	if err != nil {
		return err
	}

	return a.print(map[string]bool{"ok": ok})
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "delete")
	resource := fs.String("resource", models.ResourceRun, "resource name")
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, tokens, err := a.documents(*resource)
	if err != nil {
		return err
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return err
	}

	result, err := res.Delete(ctx, *id, token)
	if err != nil {
		return err
	}

	return a.print(map[string]any{
		"ok":       result.OK,
		"notFound": result.NotFound,
		"message":  result.Message,
	})
}

// readDocument разбирает -data: JSON-объект или @путь к файлу.
func readDocument(data string) (models.Document, error) {
	raw := []byte(strings.TrimSpace(data))
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: -data is required", errUsage)
	}

	if raw[0] == '@' {
		b, err := os.ReadFile(string(raw[1:]))
		if err != nil {
			return nil, err
		}
		raw = b
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode -data: %w", err)
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: -data must be a JSON object", errUsage)
	}

	return doc, nil
}

// media — хранилище медиа по конфигу s3.
func (a *app) media(ctx context.Context) (storage.Storage, error) {
	if !a.cfg.S3.Enabled() {
		return nil, fmt.Errorf("storage is not configured: set s3.endpoint")
	}

	a.log.Debug("storage_connect",
		slog.String("endpoint", a.cfg.S3.Endpoint),
		slog.String("bucket", a.cfg.S3.Bucket),
		slog.String("password", redact.Secret()),
	)

	return minio.New(ctx, a.cfg.S3)
}

func cmdUpload(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "upload")
	file := fs.String("file", "", "local file to upload")
	container := fs.String("container", "", "target container, e.g. runs/42")
	name := fs.String("name", "", "object name (default: file base name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file == "" {
		return fmt.Errorf("%w: -file is required", errUsage)
	}

	if *name == "" {
		*name = filepath.Base(*file)
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	size := int64(-1)
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}

	st, err := a.media(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	u, err := st.Upload(ctx, f, size, *name, *container)
	if err != nil {
		return err
	}

	a.log.Info("upload_done",
		slog.String("name", *name),
		slog.Int64("size", size),
		slog.Duration("dur", time.Since(start)),
	)

	return a.print(map[string]string{"url": u})
}

func cmdFileExists(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "file-exists")
	container := fs.String("container", "", "container")
	name := fs.String("name", "", "object name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.media(ctx)
	if err != nil {
		return err
	}

	ok, err := st.Exists(ctx, *name, *container)
	if err != nil {
		return err
	}

	return a.print(map[string]bool{"exists": ok})
}

func cmdFileDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "file-delete")
	container := fs.String("container", "", "container")
	name := fs.String("name", "", "object name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.media(ctx)
	if err != nil {
		return err
	}

	ok, err := st.Delete(ctx, *name, *container)
	if err != nil {
		return err
	}

	return a.print(map[string]bool{"deleted": ok})
}

func cmdToken(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "token")
	subject := fs.String("sub", cliSubject, "token subject")
	role := fs.String("role", a.cfg.Auth.AdminRole, "token role")
	if err := fs.Parse(args); err != nil {
		return err
	}

	issuer, err := a.issuer()
	if err != nil {
		return err
	}

	token, err := issuer.Issue(*subject, *role)
	if err != nil {
		return err
	}

	a.log.Info("token_issued",
		slog.String("sub", *subject),
		slog.String("role", *role),
		slog.String("token", redact.Token(token)),
	)

	_, err = fmt.Fprintln(a.stdout, token)
	return err
}
