package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func limitOf(n int) *int { return &n }

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	total, page := Paginate(items, Page{})
	assert.Equal(t, 5, total)
	assert.Equal(t, items, page)

	total, page = Paginate(items, Page{Limit: limitOf(2)})
	assert.Equal(t, 5, total)
	assert.Equal(t, []int{1, 2}, page)

	total, page = Paginate(items, Page{Limit: limitOf(2), Offset: 3})
	assert.Equal(t, 5, total)
	assert.Equal(t, []int{4, 5}, page)

	total, page = Paginate(items, Page{Offset: 10})
	assert.Equal(t, 5, total)
	assert.Empty(t, page)

	total, page = Paginate(items, Page{Limit: limitOf(0)})
	assert.Equal(t, 5, total)
	assert.Empty(t, page)
}

func TestMatchSubstring(t *testing.T) {
	assert.True(t, MatchSubstring("cash", false, "Cash", "daily spending"))
	assert.True(t, MatchSubstring("SPEND", false, "Cash", "daily spending"))
	assert.False(t, MatchSubstring("Cash", true, "cash money"))
	assert.True(t, MatchSubstring("cash", true, "cash money"))
	assert.False(t, MatchSubstring("missing", false, "Cash", "daily spending"))
	assert.True(t, MatchSubstring("", false, "anything"))
}
