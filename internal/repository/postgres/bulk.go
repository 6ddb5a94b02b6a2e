package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	// defaultPageSize matches the hosted store's hard per-response row
	// cap. A single select never returns more than this, so every range
	// read must page.
	defaultPageSize = 1000

	// defaultMaxPages bounds runaway pagination. Hitting the cap is a
	// truncation, not an error: the partial set is returned and logged.
	defaultMaxPages = 100
)

// fetchAllPaged repeatedly executes query with successive LIMIT/OFFSET
// windows ([0,pageSize-1], [pageSize,2*pageSize-1], ...) and concatenates the
// pages until a short page signals exhaustion. query must carry a stable
// ORDER BY so the windows do not overlap or skip rows.
func fetchAllPaged[T any](ctx context.Context, db *sqlx.DB, query string, pageSize, maxPages int, args ...any) ([]T, error) {
	return collectPages(pageSize, maxPages, func(limit, offset int) ([]T, error) {
		paged := fmt.Sprintf("%s LIMIT %d OFFSET %d", query, limit, offset)

		batch := make([]T, 0, limit)
		if err := db.SelectContext(ctx, &batch, paged, args...); err != nil {
			return nil, fmt.Errorf("paged select (offset %d): %w", offset, err)
		}
		return batch, nil
	})
}

// collectPages drives fetch over successive windows and concatenates the
// results. A page shorter than pageSize terminates the walk; reaching
// maxPages logs and returns the truncated set.
func collectPages[T any](pageSize, maxPages int, fetch func(limit, offset int) ([]T, error)) ([]T, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var all []T
	for page := 0; ; page++ {
		if page >= maxPages {
			log.Warn().
				Int("pages", page).
				Int("rows", len(all)).
				Msg("paged fetch hit page cap, returning truncated result")
			break
		}

		batch, err := fetch(pageSize, page*pageSize)
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
	}

	return all, nil
}
