package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return rec
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		h       gin.HandlerFunc
		code    int
		message string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "nope") }, http.StatusBadRequest, "nope"},
		{"not found", NotFound, http.StatusNotFound, "Not Found"},
		{"not found msg", func(c *gin.Context) { NotFoundMsg(c, "Initiative not found") }, http.StatusNotFound, "Initiative not found"},
		{"method", MethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"internal", func(c *gin.Context) { InternalError(c, errors.New("db down")) }, http.StatusInternalServerError, "db down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := run(tt.h)
			assert.Equal(t, tt.code, rec.Code)

			var body struct {
				OK      int    `json:"ok"`
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, 0, body.OK)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestOKWritesDataAsIs(t *testing.T) {
	rec := run(func(c *gin.Context) { OK(c, []int{}) })
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = run(func(c *gin.Context) { Message(c, "done") })
	assert.JSONEq(t, `{"message":"done"}`, rec.Body.String())
}
