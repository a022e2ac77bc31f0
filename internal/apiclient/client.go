// apiclient — типизированные клиенты ресурсов REST-бэкенда.
//
// Один обобщённый Resource[T, D] обслуживает все ресурсы; маршруты берутся
// из шаблона /api/{R}/... и могут переопределяться конфигом. Bearer-токен
// передаётся в каждый вызов и нигде не сохраняется, поэтому Client
// безопасен для конкурентного использования. Автоматических повторов нет.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/pkg/log"
)

// maxResponseBody — предел читаемого тела ответа.
const maxResponseBody = 16 << 20

// Limits — нормализация limit для курсорной выдачи.
type Limits struct {
	Default int
	Max     int
}

// Options — параметры клиента.
type Options struct {
	// BaseURL — адрес бэкенда, например "https://api.example.com".
	BaseURL string
	// HTTPClient — транспорт; nil -> &http.Client{Timeout: Timeout}.
	HTTPClient *http.Client
	// Timeout — таймаут транспорта на один вызов; 0 — без таймаута.
	Timeout time.Duration
	// Limits — значения по умолчанию 20/100.
	Limits Limits
	// Routes — переопределения маршрутов по имени ресурса.
	Routes map[string]models.Routes
	// Metrics — nil отключает метрики.
	Metrics   *Metrics
	UserAgent string
}

// Client — общий HTTP-слой всех ресурсов.
type Client struct {
	base      *url.URL
	hc        *http.Client
	limits    Limits
	routes    map[string]models.Routes
	metrics   *Metrics
	userAgent string
}

// New валидирует опции и создаёт клиента.
func New(opts Options) (*Client, error) {
	const op = "apiclient.New"

	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("%s: %w: empty base url", op, ErrInvalidArgument)
	}

	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%s: %w: base url must be absolute http(s), got %q", op, ErrInvalidArgument, raw)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	} else if opts.Timeout > 0 && hc.Timeout == 0 {
		cp := *hc
		cp.Timeout = opts.Timeout
		hc = &cp
	}

	limits := opts.Limits
	if limits.Default <= 0 {
		limits.Default = 20
	}

	if limits.Max <= 0 {
		limits.Max = 100
	}

	if limits.Default > limits.Max {
		limits.Default = limits.Max
	}

	routes := make(map[string]models.Routes, len(opts.Routes))
	for name, r := range opts.Routes {
		routes[strings.ToLower(name)] = r
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "courtside-apiclient"
	}

	return &Client{
		base:      base,
		hc:        hc,
		limits:    limits,
		routes:    routes,
		metrics:   opts.Metrics,
		userAgent: ua,
	}, nil
}

// Limits возвращает действующие лимиты.
func (c *Client) Limits() Limits { return c.limits }

// routesFor — маршруты ресурса: шаблон по умолчанию поверх переопределений из конфига.
func (c *Client) routesFor(name string) models.Routes {
	return models.DefaultRoutes(name).Merge(c.routes[strings.ToLower(name)])
}

// call — параметры одного HTTP-вызова.
type call struct {
	resource  string
	operation string
	method    string
	route     string
	query     url.Values
	body      any
	token     string
}

// response — прочитанный ответ бэкенда.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// do выполняет вызов: Bearer-заголовок из аргумента, X-Request-Id из контекста.
// Ошибка возвращается только для отмены, транспорта и некорректных аргументов;
// любой HTTP-статус отдаётся вызывающему для классификации.
func (c *Client) do(ctx context.Context, op string, in call) (response, error) {
	token := strings.TrimSpace(in.token)
	if token == "" {
		return response{}, fmt.Errorf("%s: %w: empty bearer token", op, ErrInvalidArgument)
	}

	u := c.base.JoinPath(in.route)
	if len(in.query) > 0 {
		u.RawQuery = in.query.Encode()
	}

	var body io.Reader
	if in.body != nil {
		raw, err := json.Marshal(in.body)
		if err != nil {
			return response{}, fmt.Errorf("%s: %w: encode body: %v", op, ErrInvalidArgument, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, u.String(), body)
	if err != nil {
		return response{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if rid := log.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.metrics.observe(in.resource, in.operation, "error", time.Since(start))
		return response{}, transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		c.metrics.observe(in.resource, in.operation, "error", time.Since(start))
		return response{}, transportError(ctx, op, err)
	}

	c.metrics.observe(in.resource, in.operation, strconv.Itoa(resp.StatusCode), time.Since(start))

	log.From(ctx).Debug("api_call",
		slog.String("op", op),
		slog.String("method", in.method),
		slog.String("path", u.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)

	return response{status: resp.StatusCode, body: raw}, nil
}

// transportError различает отмену вызывающим и прочие сбои транспорта.
// Истёкший дедлайн считается таймаутом транспорта.
func transportError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, ErrCanceled, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}

// decode — регистронезависимое декодирование с игнорированием неизвестных полей.
func decode(op string, body []byte, v any) error {
	if err := models.Decode(body, v); err != nil {
		return &StatusError{Op: op, Code: http.StatusOK, Message: "malformed response body: " + err.Error(), Err: ErrUpstream}
	}

	return nil
}
