package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	obj, err := ExtractJSON(`Here you go: {"score": 7, "feedback": "use {braces} \"carefully\""} trailing } text`)
	require.NoError(t, err)
	assert.Equal(t, 7.0, obj["score"])
	assert.Equal(t, `use {braces} "carefully"`, obj["feedback"])

	obj, err = ExtractJSON(`{not json} then {"a": {"b": 1}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 1.0}, obj["a"])

	_, err = ExtractJSON("nothing")
	assert.Error(t, err)

	_, err = ExtractJSON(`{"unterminated": 1`)
	assert.Error(t, err)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `V = IR`, StripFences("```latex\nV = IR\n```"))
	assert.Equal(t, "plain", StripFences("  plain "))
}

func TestScrub(t *testing.T) {
	in := "contact a.b+c@uni.edu.sg, NRIC s1234567a, phone 6598765432, year 2025"
	out := Scrub(in)
	assert.Equal(t, "contact [EMAIL_REDACTED], NRIC [ID_REDACTED], phone [PHONE/ID_REDACTED], year 2025", out)
}
