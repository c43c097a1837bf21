package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items?"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 20}},
		{"page=3&limit=5", Params{Page: 3, Limit: 5}},
		{"page=0&limit=-1", Params{Page: 1, Limit: 20}},
		{"page=abc&limit=1000", Params{Page: 1, Limit: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(contextWithQuery(tt.query)))
		})
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 21, Params{Page: 2, Limit: 10})
	assert.Equal(t, 3, p.TotalPages)
	assert.EqualValues(t, 21, p.Total)

	empty := NewPage[string](nil, 0, Params{Page: 1, Limit: 10})
	assert.NotNil(t, empty.Items)
	assert.Zero(t, empty.TotalPages)
}
