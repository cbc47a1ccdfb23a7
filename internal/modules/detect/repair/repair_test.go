package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCleanObject(t *testing.T) {
	m := Parse(`{"risk_score": 72, "risk_level": "high"}`)
	assert.Equal(t, float64(72), m["risk_score"])
	assert.Equal(t, "high", m["risk_level"])
}

func TestParseFencedBlock(t *testing.T) {
	raw := "Here is my analysis of the document.\n" +
		"```json\n" +
		`{"risk_score": 72, "risk_level": "high", "issues": []}` +
		"\n```\n" +
		"Let me know if you need anything else."

	m := Parse(raw)
	assert.Equal(t, float64(72), m["risk_score"])
	assert.Equal(t, "high", m["risk_level"])
}

func TestParseFencedBlockWithNestedBraces(t *testing.T) {
	raw := "```\n{\"outer\": {\"inner\": 1}, \"list\": [{\"a\": 2}]}\n```"
	m := Parse(raw)
	outer, ok := m["outer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), outer["inner"])
}

func TestParseSurroundingProse(t *testing.T) {
	raw := `Sure! The result is {"risk_score": 12, "risk_level": "low"} as requested.`
	m := Parse(raw)
	assert.Equal(t, float64(12), m["risk_score"])
}

func TestParseRepairs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		key  string
		want interface{}
	}{
		{
			name: "trailing comma in object",
			raw:  `{"risk_score": 30, "risk_level": "medium",}`,
			key:  "risk_score",
			want: float64(30),
		},
		{
			name: "trailing comma in array",
			raw:  `{"recommendations": ["a", "b",]}`,
			key:  "recommendations",
			want: []interface{}{"a", "b"},
		},
		{
			name: "missing comma between array objects",
			raw:  `{"issues": [{"type": "a"} {"type": "b"}]}`,
			key:  "issues",
			want: []interface{}{
				map[string]interface{}{"type": "a"},
				map[string]interface{}{"type": "b"},
			},
		},
		{
			name: "missing comma between adjacent strings",
			raw:  "{\"recommendations\": [\"first\"\n\"second\"]}",
			key:  "recommendations",
			want: []interface{}{"first", "second"},
		},
		{
			name: "python literals",
			raw:  `{"flag": True, "other": False, "missing": None}`,
			key:  "flag",
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(tt.raw)
			assert.Equal(t, tt.want, m[tt.key])
		})
	}
}

func TestParseLiteralNewlineInsideString(t *testing.T) {
	raw := "{\"description\": \"line one\nline two\"}"
	m := Parse(raw)
	assert.Equal(t, "line one\nline two", m["description"])
}

func TestParseDoesNotRewriteLiteralsInsideStrings(t *testing.T) {
	m := Parse(`{"description": "The value True stays as text"}`)
	assert.Equal(t, "The value True stays as text", m["description"])
}

func TestParseTruncatedOutput(t *testing.T) {
	raw := `{"risk_score": 45, "issues": [{"type": "hedging", "description": "cut off`
	m := Parse(raw)
	assert.Equal(t, float64(45), m["risk_score"])
	issues, ok := m["issues"].([]interface{})
	require.True(t, ok)
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]interface{})
	assert.Equal(t, "hedging", issue["type"])
}

func TestParseTruncatedAfterComma(t *testing.T) {
	raw := `{"risk_score": 45, "issues": [],`
	m := Parse(raw)
	assert.Equal(t, float64(45), m["risk_score"])
}

func TestParseFallbackNoObject(t *testing.T) {
	for _, raw := range []string{"", "no braces here", "just a plain sentence."} {
		m := Parse(raw)
		assert.Equal(t, float64(50), m["risk_score"])
		assert.Equal(t, "medium", m["risk_level"])

		issues := m["issues"].([]interface{})
		issue := issues[0].(map[string]interface{})
		assert.Equal(t, IssueExtractionError, issue["type"])
	}
}

func TestParseFallbackUndecodable(t *testing.T) {
	m := Parse(`{"risk_score": }}}}{{{`)
	assert.Equal(t, float64(50), m["risk_score"])

	issues := m["issues"].([]interface{})
	issue := issues[0].(map[string]interface{})
	assert.Equal(t, IssueParseError, issue["type"])
}

func TestLooksStructured(t *testing.T) {
	assert.True(t, LooksStructured(`{"a": 1}`))
	assert.True(t, LooksStructured("  \n{\"a\": 1}"))
	assert.True(t, LooksStructured("text\n```json\n{\"a\": 1}\n```"))
	assert.False(t, LooksStructured("The document reads naturally overall."))
	assert.False(t, LooksStructured(""))
}

func TestScanObjectIgnoresBracesInStrings(t *testing.T) {
	candidate, found := scanObject(`{"text": "a } b { c"}`)
	require.True(t, found)
	assert.Equal(t, `{"text": "a } b { c"}`, candidate)
}

func TestCompleteObjectClosesUnterminatedString(t *testing.T) {
	got := completeObject(`{"a": [1, 2], "b": "tail`)
	assert.Equal(t, `{"a": [1, 2], "b": "tail"}`, got)
}
