package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	got, err := ExtractJSONObject(`Here is your plan: {"days": 7, "budget": 20} hope it helps!`)
	require.NoError(t, err)
	assert.Equal(t, `{"days": 7, "budget": 20}`, got)
}

func TestExtractJSONObjectNested(t *testing.T) {
	text := "```json\n{\"plan\": {\"monday\": {\"lunch\": \"rice\"}}}\n```"
	got, err := ExtractJSONObject(text)
	require.NoError(t, err)
	assert.Equal(t, `{"plan": {"monday": {"lunch": "rice"}}}`, got)
}

func TestExtractJSONObjectIgnoresBracesInStrings(t *testing.T) {
	got, err := ExtractJSONObject(`{"note": "use {curly} braces", "n": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"note": "use {curly} braces", "n": 1}`, got)
}

func TestExtractJSONObjectEscapedQuote(t *testing.T) {
	got, err := ExtractJSONObject(`{"quote": "she said \"hi {there}\""}`)
	require.NoError(t, err)
	assert.Equal(t, `{"quote": "she said \"hi {there}\""}`, got)
}

func TestExtractJSONObjectFirstObjectWins(t *testing.T) {
	got, err := ExtractJSONObject(`{"a": 1} and later {"b": 2}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)
}

func TestExtractJSONObjectNone(t *testing.T) {
	_, err := ExtractJSONObject("no structured data here")
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = ExtractJSONObject(`{"never": "closed"`)
	assert.ErrorIs(t, err, ErrNoJSONObject)
}

func TestGenerateLocalID(t *testing.T) {
	id := GenerateLocalID("mealplan")
	parts := strings.SplitN(id, "_", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "mealplan", parts[0])
	assert.NotEmpty(t, parts[1])
	assert.NotEmpty(t, parts[2])

	assert.NotEqual(t, GenerateLocalID("quiz"), GenerateLocalID("quiz"))
}

func TestGeneratePaymentReference(t *testing.T) {
	ref := GeneratePaymentReference()
	assert.True(t, strings.HasPrefix(ref, "PAY_"))
	assert.NotEqual(t, ref, GeneratePaymentReference())
}
