package apiclient

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/pagination"
)

// ErrPagerDone — обход завершён, курсора в выбранном направлении больше нет.
var ErrPagerDone = errors.New("pager: no more pages")

// PageFetcher — источник страниц; его реализует *Resource[T, D].
type PageFetcher[D any] interface {
	ListPage(ctx context.Context, req models.PageRequest, token string) (*models.CursorPage[D], error)
}

// PagerState — состояние сессии обхода.
type PagerState int

const (
	// PagerStart — курсора ещё нет (или есть только стартовый для previous).
	PagerStart PagerState = iota
	// PagerOnPage — получена страница, курсор следующего шага известен.
	PagerOnPage
	// PagerEnd — в выбранном направлении страниц больше нет.
	PagerEnd
)

func (s PagerState) String() string {
	switch s {
	case PagerStart:
		return "start"
	case PagerOnPage:
		return "on_page"
	case PagerEnd:
		return "end"
	default:
		return fmt.Sprintf("PagerState(%d)", int(s))
	}
}

// Pager хранит состояние обхода на стороне вызывающего: Start -> OnPage -> ... -> End.
// Токен запрашивается у TokenSource перед каждой страницей.
// Pager не безопасен для конкурентного использования.
type Pager[D any] struct {
	fetch  PageFetcher[D]
	tokens TokenSource
	req    models.PageRequest
	state  PagerState
	pages  int
}

// NewPager начинает обход с req; для previous req.Cursor обязателен.
func NewPager[D any](fetch PageFetcher[D], req models.PageRequest, tokens TokenSource) *Pager[D] {
	return &Pager[D]{fetch: fetch, tokens: tokens, req: req}
}

// Walk — сессия обхода ресурса.
func (r *Resource[T, D]) Walk(req models.PageRequest, tokens TokenSource) *Pager[D] {
	return NewPager[D](r, req, tokens)
}

// State возвращает текущее состояние.
func (p *Pager[D]) State() PagerState { return p.state }

// Done — достигнут ли конец в выбранном направлении.
func (p *Pager[D]) Done() bool { return p.state == PagerEnd }

// Pages — сколько страниц получено.
func (p *Pager[D]) Pages() int { return p.pages }

// Next запрашивает следующую страницу в направлении обхода.
// При ошибке состояние не меняется, и вызов можно повторить.
func (p *Pager[D]) Next(ctx context.Context) (*models.CursorPage[D], error) {
	const op = "apiclient.Pager.Next"

	if p.state == PagerEnd {
		return nil, ErrPagerDone
	}

	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: token: %w", op, err)
	}

	page, err := p.fetch.ListPage(ctx, p.req, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.pages++
	p.state = PagerOnPage

	cursor := page.NextCursor
	if p.backward() {
		cursor = page.PreviousCursor
	}

	if !page.HasMore || cursor == nil {
		p.state = PagerEnd
		return page, nil
	}

	p.req.Cursor = *cursor
	return page, nil
}

func (p *Pager[D]) backward() bool {
	dir, err := pagination.ParseDirection(p.req.Direction)
	return err == nil && dir == pagination.Previous
}

// Collect проходит все страницы и возвращает записи в порядке сортировки
// (при обходе назад страницы собираются в обратном порядке).
func Collect[D any](ctx context.Context, p *Pager[D]) ([]D, error) {
	var chunks [][]D
	for !p.Done() {
		page, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, page.Items)
	}

	if p.backward() {
		slices.Reverse(chunks)
	}

	out := []D{}
	for _, c := range chunks {
		out = append(out, c...)
	}

	return out, nil
}
