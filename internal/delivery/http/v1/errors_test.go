package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-taskboard/internal/services"
)

func TestAbortWithServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &handlerImpl{logger: zerolog.Nop()}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation error carries its message",
			err:         &services.ValidationError{Message: "title is required"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "title is required",
		},
		{
			name:        "email taken",
			err:         services.ErrEmailTaken,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Email already in use",
		},
		{
			name:        "password mismatch",
			err:         services.ErrPasswordMismatch,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid email or password",
		},
		{
			name:        "checklist forbidden",
			err:         services.ErrNotAssignee,
			wantStatus:  http.StatusForbidden,
			wantMessage: "Not authorized to update checklist",
		},
		{
			name:        "task not found",
			err:         services.ErrTaskNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "storage failure",
			err:         errors.New("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.abortWithServiceError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Message)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "connection reset", body.Error)
			} else {
				assert.Empty(t, body.Error)
			}
		})
	}
}
