package uc

import (
	"context"
	"iter"
)

// Page is one page of a paginated listing.
type Page[S, T any] struct {
	// Items holds the page contents in server order.
	Items []T
	// Seed is handed back to the fetcher for the next page.
	Seed S
	// NextPageToken continues the listing. Nil or empty ends it.
	NextPageToken *string
}

// PageFetcher fetches the page identified by pageToken. The first call receives
// a nil token.
type PageFetcher[S, T any] func(ctx context.Context, seed S, pageToken *string) (Page[S, T], error)

type paginationState int

const (
	stateStart paginationState = iota
	stateHasMore
	stateDone
)

// pager is the state machine shared by StreamPaginated and Paginator.
type pager[S, T any] struct {
	fetch PageFetcher[S, T]
	seed  S
	token string
	state paginationState
	pages int
}

// next fetches the next page. It returns false once the listing is exhausted
// or after an error has been returned.
func (p *pager[S, T]) next(ctx context.Context) ([]T, bool, error) {
	var token *string

	switch p.state {
	case stateStart:
	case stateHasMore:
		if p.token == "" {
			p.state = stateDone

			return nil, false, nil
		}

		// The fetcher gets its own copy of the cursor.
		cursor := p.token
		token = &cursor
	case stateDone:
		return nil, false, nil
	}

	page, err := p.fetch(ctx, p.seed, token)
	p.pages++

	if err != nil {
		p.state = stateDone

		return nil, true, err
	}

	p.seed = page.Seed
	if page.NextPageToken != nil {
		p.token = *page.NextPageToken
		p.state = stateHasMore
	} else {
		p.state = stateDone
	}

	return page.Items, true, nil
}

// StreamPaginated turns a page fetcher into a flat sequence of items.
//
// Pages are fetched lazily, one at a time, as the sequence is consumed; the
// first fetch receives a nil page token and later fetches receive the token of
// the previous page. The listing ends when a page has no next token or an
// empty one. A fetch error is yielded once, after which the sequence ends.
// Breaking out of the loop stops further fetches.
//
//	for catalog, err := range uc.StreamPaginated(ctx, seed, fetch) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(catalog.Name)
//	}
func StreamPaginated[S, T any](ctx context.Context, seed S, fetch PageFetcher[S, T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		p := &pager[S, T]{fetch: fetch, seed: seed}

		for {
			items, ok, err := p.next(ctx)
			if !ok {
				return
			}

			if err != nil {
				var zero T

				yield(zero, err)

				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// Paginator is a pull-style alternative to StreamPaginated with the same
// fetch semantics. It is not safe for concurrent use.
type Paginator[S, T any] struct {
	pager   pager[S, T]
	buffer  []T
	lastErr error
}

// NewPaginator creates a paginator starting at seed.
func NewPaginator[S, T any](seed S, fetch PageFetcher[S, T]) *Paginator[S, T] {
	return &Paginator[S, T]{
		pager: pager[S, T]{fetch: fetch, seed: seed},
	}
}

// Next returns the next item, fetching a new page when the current one is
// used up. It returns ErrNoMoreItems once the listing is exhausted. After a
// fetch error, Next returns ErrNoMoreItems.
func (p *Paginator[S, T]) Next(ctx context.Context) (T, error) {
	var zero T

	for len(p.buffer) == 0 {
		items, ok, err := p.pager.next(ctx)
		if !ok {
			return zero, ErrNoMoreItems
		}

		if err != nil {
			p.lastErr = err

			return zero, err
		}

		p.buffer = items
	}

	item := p.buffer[0]
	p.buffer[0] = zero
	p.buffer = p.buffer[1:]

	return item, nil
}

// Pages returns the number of page fetches made so far.
func (p *Paginator[S, T]) Pages() int {
	return p.pager.pages
}

// Err returns the fetch error that ended the listing, if any.
func (p *Paginator[S, T]) Err() error {
	return p.lastErr
}

// Collect gathers a sequence into a slice. It stops at the first error and
// returns the items collected before it.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T

	for item, err := range seq {
		if err != nil {
			return out, err
		}

		out = append(out, item)
	}

	return out, nil
}
