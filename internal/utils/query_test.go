package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryInt(t *testing.T) {
	q := url.Values{"limit": {"500"}, "offset": {"-3"}, "page": {"abc"}, "dias": {"7"}}

	assert.Equal(t, 200, QueryInt(q, "limit", 50, 1, 200))
	assert.Equal(t, 0, QueryInt(q, "offset", 0, 0, 1<<20))
	assert.Equal(t, 1, QueryInt(q, "page", 1, 1, 10))
	assert.Equal(t, 7, QueryInt(q, "dias", 0, 0, 3650))
	assert.Equal(t, 20, QueryInt(q, "missing", 20, 1, 200))
}
