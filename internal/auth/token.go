// auth выпускает и проверяет bearer JWT (HS256) stub-бэкенда.
// Выпуск нужен только для локальной разработки и тестов: в бою токен
// приходит от внешнего провайдера.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMissing — заголовок Authorization отсутствует или не Bearer.
	ErrTokenMissing = errors.New("token missing")
	// ErrInvalidToken — подпись, алгоритм, издатель или формат не прошли проверку.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

// Claims — полезная нагрузка токена.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// HasRole — совпадает ли роль (без учёта регистра).
func (c *Claims) HasRole(role string) bool {
	return c != nil && strings.EqualFold(c.Role, role)
}

// Options — параметры Tokens.
type Options struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Leeway time.Duration
}

// Tokens выпускает и проверяет токены одним секретом.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// New создаёт Tokens; пустой секрет недопустим.
func New(opts Options) (*Tokens, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("auth.New: empty secret")
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Tokens{
		secret: []byte(opts.Secret),
		issuer: opts.Issuer,
		ttl:    ttl,
		leeway: opts.Leeway,
		now:    time.Now,
	}, nil
}

// Issue подписывает токен для subject с ролью role.
func (t *Tokens) Issue(subject, role string) (string, error) {
	const op = "auth.token.Issue"

	now := t.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
			Subject:   subject,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Verify проверяет подпись, алгоритм, издателя и срок действия.
func (t *Tokens) Verify(_ context.Context, tokenStr string) (*Claims, error) {
	const op = "auth.token.Verify"

	if strings.TrimSpace(tokenStr) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMissing)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(t.leeway),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(tk *jwt.Token) (interface{}, error) {
			if tk.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return t.secret, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

type ctxKey struct{}

// Into кладёт проверенные claims в контекст.
func Into(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// From достаёт claims из контекста (nil, если запрос не аутентифицирован).
func From(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKey{}).(*Claims)
	return c
}
