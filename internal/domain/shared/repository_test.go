package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalized(t *testing.T) {
	tests := []struct {
		name       string
		in         Filter
		page, size int
		wantOffset int
	}{
		{"defaults kept", DefaultFilter(), 1, 20, 0},
		{"zero page and size", Filter{}, 1, 20, 0},
		{"oversized page clamped", Filter{Page: 3, PageSize: 500}, 3, MaxPageSize, 200},
		{"negative page", Filter{Page: -2, PageSize: 10}, 1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.size, got.PageSize)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestNewPaginated_TotalPages(t *testing.T) {
	assert.Equal(t, 3, NewPaginated([]int{1}, 5, 1, 2).TotalPages)
	assert.Equal(t, 2, NewPaginated([]int{1}, 4, 1, 2).TotalPages)
	assert.Equal(t, 0, NewPaginated[int](nil, 0, 1, 20).TotalPages)
	assert.Equal(t, 0, NewPaginated[int](nil, 7, 1, 0).TotalPages)
}
