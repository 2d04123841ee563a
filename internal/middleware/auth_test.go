package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/stretchr/testify/assert"
)

type stubResolver map[string]string

func (s stubResolver) Resolve(ctx context.Context, token string) (string, error) {
	if token == "broken" {
		return "", errors.New("db down")
	}
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", common.ErrUnauthorized
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(stubResolver{"good": "user-1"}))
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"query token", "/test?token=good", "", http.StatusOK, "user-1"},
		{"bearer header", "/test", "Bearer good", http.StatusOK, "user-1"},
		{"lowercase scheme", "/test", "bearer good", http.StatusOK, "user-1"},
		{"missing token", "/test", "", http.StatusUnauthorized, ""},
		{"non-bearer scheme", "/test", "Basic good", http.StatusUnauthorized, ""},
		{"unknown token", "/test?token=bad", "", http.StatusUnauthorized, ""},
		{"resolver failure", "/test?token=broken", "", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newAuthRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestGetUserID_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetUserID(c))
}
