package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Params{Page: 0, Size: DefaultSize}, Params{}.Normalize())
	assert.Equal(t, Params{Page: 0, Size: DefaultSize}, Params{Page: -3, Size: -1}.Normalize())
	assert.Equal(t, Params{Page: 2, Size: MaxSize}, Params{Page: 2, Size: 500}.Normalize())
	assert.Equal(t, Params{Page: 1, Size: 10}, Params{Page: 1, Size: 10}.Normalize())
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 0, Size: 20}.Offset())
	assert.Equal(t, 40, Params{Page: 2, Size: 20}.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, Params{Page: 0, Size: 2}, 5)
	assert.Equal(t, 2, len(page.Items))
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, int64(3), page.TotalPages)

	empty := NewPage[string](nil, Params{Page: 0, Size: 20}, 0)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, int64(0), empty.TotalPages)
}
