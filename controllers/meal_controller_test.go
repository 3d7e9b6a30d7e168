package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindMealPlanInput(t *testing.T, body string) (mealPlanInput, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/meals/plan", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var input mealPlanInput
	err := c.ShouldBindJSON(&input)
	return input, err
}

func TestMealPlanInputDurationOptional(t *testing.T) {
	input, err := bindMealPlanInput(t, `{"budget": 20}`)
	require.NoError(t, err)
	assert.Zero(t, input.Duration)

	input, err = bindMealPlanInput(t, `{"budget": 20, "duration": 5}`)
	require.NoError(t, err)
	assert.Equal(t, 5, input.Duration)
}

func TestMealPlanInputRejectsBadValues(t *testing.T) {
	_, err := bindMealPlanInput(t, `{"budget": 20, "duration": -1}`)
	assert.Error(t, err)

	_, err = bindMealPlanInput(t, `{"duration": 7}`)
	assert.Error(t, err)

	_, err = bindMealPlanInput(t, `{"budget": 0, "duration": 7}`)
	assert.Error(t, err)
}
