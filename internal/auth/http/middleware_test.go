package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskbridge/taskbridge/internal/auth/domain"
)

func TestRequireRoles(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := requireRoles(ok, domain.RoleAdmin)

	run := func(acc *domain.Account) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if acc != nil {
			req = req.WithContext(context.WithValue(req.Context(), accountContextKey, *acc))
		}
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run(nil))
	assert.Equal(t, http.StatusForbidden, run(&domain.Account{Role: domain.RoleUser}))
	assert.Equal(t, http.StatusNoContent, run(&domain.Account{Role: domain.RoleAdmin}))
}
