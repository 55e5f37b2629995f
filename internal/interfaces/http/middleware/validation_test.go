package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genba/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	// Verify the validator is configured
	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type TestStruct struct {
		Name   string `json:"name" binding:"required,max=200"`
		Method string `json:"method" binding:"required,oneof=invoice complete start_and_complete"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req TestStruct
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns validation errors for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"name": "", "method": "wire"}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 2)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
		assert.Equal(t, "method", resp.Error.Details[1].Field)
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		body := strings.NewReader(`{"name": "Sato Construction", "method": "invoice"}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("falls back to the raw error for non-validation failures", func(t *testing.T) {
		body := strings.NewReader(`{"name": `)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.NotEmpty(t, resp.Error.Message)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type TestStruct struct {
		Required string `binding:"required"`
		Min      string `binding:"omitempty,min=3"`
		Max      string `binding:"omitempty,max=5"`
		OneOf    string `binding:"omitempty,oneof=a b"`
		Gt       int    `binding:"omitempty,gt=0"`
	}

	v := validator.New()
	v.SetTagName("binding")
	err := v.Struct(TestStruct{Min: "ab", Max: "toolong", OneOf: "c", Gt: -1})
	require.Error(t, err)

	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	messages := make(map[string]string)
	for _, e := range validationErrors {
		messages[e.Tag()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["required"])
	assert.Equal(t, "Must be at least 3 characters", messages["min"])
	assert.Equal(t, "Must be at most 5 characters", messages["max"])
	assert.Equal(t, "Must be one of: a b", messages["oneof"])
	assert.Equal(t, "Must be greater than 0", messages["gt"])
}
