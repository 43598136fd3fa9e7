package pagination

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(Bounds{
		DefaultPageNumber: 1,
		DefaultPageSize:   10,
		MaxPageSize:       50,
	}, zap.NewNop())
}

func TestNormalize(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name string
		in   Request
		want Request
	}{
		{"absent values fall back to defaults", Request{}, Request{PageNumber: 1, PageSize: 10}},
		{"zero page number uses default", Request{PageNumber: 0, PageSize: 5}, Request{PageNumber: 1, PageSize: 5}},
		{"negative values use defaults", Request{PageNumber: -3, PageSize: -1}, Request{PageNumber: 1, PageSize: 10}},
		{"oversized page size clamps to max", Request{PageNumber: 2, PageSize: 999}, Request{PageNumber: 2, PageSize: 50}},
		{"valid request passes through", Request{PageNumber: 3, PageSize: 25}, Request{PageNumber: 3, PageSize: 25}},
		{"page size at max is untouched", Request{PageNumber: 1, PageSize: 50}, Request{PageNumber: 1, PageSize: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 10, TotalPages(95, 10))
	assert.Equal(t, 10, TotalPages(100, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(10, 0))
}

// fakeSource exposes a fixed ordered sequence for paging tests.
type fakeSource struct {
	items    []string
	countErr error
	fetchErr error

	gotOffset int
	gotLimit  int
}

func (s *fakeSource) CountAll(ctx context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.items)), nil
}

func (s *fakeSource) FetchSlice(ctx context.Context, offset, limit int) ([]string, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	s.gotOffset = offset
	s.gotLimit = limit
	if offset >= len(s.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	return s.items[offset:end], nil
}

func manyItems(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = string(rune('a' + i%26))
	}
	return items
}

func TestPaginate(t *testing.T) {
	ctx := context.Background()

	t.Run("slices with normalized offset and wraps metadata", func(t *testing.T) {
		src := &fakeSource{items: manyItems(95)}

		result, err := Paginate[string](ctx, testNormalizer(), Request{PageNumber: 3, PageSize: 10}, src)
		require.NoError(t, err)

		assert.Equal(t, 20, src.gotOffset)
		assert.Equal(t, 10, src.gotLimit)
		assert.Len(t, result.Items, 10)
		assert.Equal(t, 3, result.PageNumber)
		assert.Equal(t, 10, result.PageSize)
		assert.Equal(t, int64(95), result.TotalItems)
		assert.Equal(t, 10, result.TotalPages)
	})

	t.Run("page past the end yields empty non-nil items", func(t *testing.T) {
		src := &fakeSource{items: manyItems(5)}

		result, err := Paginate[string](ctx, testNormalizer(), Request{PageNumber: 9, PageSize: 10}, src)
		require.NoError(t, err)

		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.Equal(t, int64(5), result.TotalItems)
		assert.Equal(t, 1, result.TotalPages)
	})

	t.Run("out-of-range request is corrected, not rejected", func(t *testing.T) {
		src := &fakeSource{items: manyItems(95)}

		result, err := Paginate[string](ctx, testNormalizer(), Request{PageNumber: 0, PageSize: 999}, src)
		require.NoError(t, err)

		assert.Equal(t, 0, src.gotOffset)
		assert.Equal(t, 50, src.gotLimit)
		assert.Equal(t, 1, result.PageNumber)
		assert.Equal(t, 50, result.PageSize)
	})

	t.Run("count failure propagates", func(t *testing.T) {
		src := &fakeSource{countErr: errors.New("store down")}

		_, err := Paginate[string](ctx, testNormalizer(), Request{}, src)
		assert.Error(t, err)
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		src := &fakeSource{items: manyItems(3), fetchErr: errors.New("store down")}

		_, err := Paginate[string](ctx, testNormalizer(), Request{}, src)
		assert.Error(t, err)
	})
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		url  string
		want Request
	}{
		{"/api/countries?page=2&pageSize=25", Request{PageNumber: 2, PageSize: 25}},
		{"/api/countries", Request{}},
		{"/api/countries?page=abc&pageSize=xyz", Request{}},
		{"/api/countries?page=-1", Request{PageNumber: -1}},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		assert.Equal(t, tt.want, FromQuery(r), tt.url)
	}
}
