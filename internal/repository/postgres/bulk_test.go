package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageSource serves rows 0..total-1 through LIMIT/OFFSET windows, the way a
// stable ORDER BY query would, and records every window it was asked for.
type pageSource struct {
	total int
	calls int
}

func (s *pageSource) fetch(limit, offset int) ([]int, error) {
	s.calls++
	out := make([]int, 0, limit)
	for i := offset; i < offset+limit && i < s.total; i++ {
		out = append(out, i)
	}
	return out, nil
}

func assertExactSequence(t *testing.T, rows []int, total int) {
	t.Helper()
	require.Len(t, rows, total)
	for i, v := range rows {
		if v != i {
			t.Fatalf("row %d holds %d, rows are duplicated or out of order", i, v)
		}
	}
}

func TestCollectPagesExactMultipleOfPageSize(t *testing.T) {
	// A full last page cannot signal exhaustion, so one extra empty
	// window is read.
	src := &pageSource{total: 20}

	rows, err := collectPages(10, 100, src.fetch)
	require.NoError(t, err)

	assertExactSequence(t, rows, 20)
	assert.Equal(t, 3, src.calls)
}

func TestCollectPagesOnePastTheBoundary(t *testing.T) {
	src := &pageSource{total: 21}

	rows, err := collectPages(10, 100, src.fetch)
	require.NoError(t, err)

	assertExactSequence(t, rows, 21)
	assert.Equal(t, 3, src.calls)
}

func TestCollectPagesShortLastPageStops(t *testing.T) {
	src := &pageSource{total: 25}

	rows, err := collectPages(10, 100, src.fetch)
	require.NoError(t, err)

	assertExactSequence(t, rows, 25)
	assert.Equal(t, 3, src.calls)
}

func TestCollectPagesSinglePartialPage(t *testing.T) {
	src := &pageSource{total: 7}

	rows, err := collectPages(10, 100, src.fetch)
	require.NoError(t, err)

	assertExactSequence(t, rows, 7)
	assert.Equal(t, 1, src.calls)
}

func TestCollectPagesEmptyResult(t *testing.T) {
	src := &pageSource{total: 0}

	rows, err := collectPages(10, 100, src.fetch)
	require.NoError(t, err)

	assert.Empty(t, rows)
	assert.Equal(t, 1, src.calls)
}

func TestCollectPagesCapTruncatesWithoutError(t *testing.T) {
	src := &pageSource{total: 1000}

	rows, err := collectPages(10, 3, src.fetch)
	require.NoError(t, err)

	// Three full pages come back; the rest of the set is dropped.
	assertExactSequence(t, rows, 30)
	assert.Equal(t, 3, src.calls)
}

func TestCollectPagesPropagatesFetchError(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	_, err := collectPages(10, 100, func(limit, offset int) ([]int, error) {
		calls++
		if offset >= 10 {
			return nil, boom
		}
		out := make([]int, limit)
		for i := range out {
			out[i] = offset + i
		}
		return out, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestCollectPagesDefaults(t *testing.T) {
	// Zero settings fall back to the store's real page size and cap.
	src := &pageSource{total: defaultPageSize + 1}

	rows, err := collectPages(0, 0, src.fetch)
	require.NoError(t, err)

	assertExactSequence(t, rows, defaultPageSize+1)
	assert.Equal(t, 2, src.calls)
}
