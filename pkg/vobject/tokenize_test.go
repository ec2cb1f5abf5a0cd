package vobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentLineBasic(t *testing.T) {
	cl, ok := parseContentLine("summary:Team Sync")
	require.True(t, ok)
	assert.Equal(t, "SUMMARY", cl.Name)
	assert.Equal(t, "Team Sync", cl.RawValue)
	assert.Empty(t, cl.Params)
}

func TestParseContentLineParams(t *testing.T) {
	cl, ok := parseContentLine("ATTENDEE;CN=Bob Example;partstat=ACCEPTED:mailto:bob@example.com")
	require.True(t, ok)
	assert.Equal(t, "ATTENDEE", cl.Name)
	assert.Equal(t, "mailto:bob@example.com", cl.RawValue)
	assert.Equal(t, "Bob Example", cl.Params.Get("CN"))
	assert.Equal(t, "ACCEPTED", cl.Params.Get("PARTSTAT"))
}

func TestParseContentLineQuotedParam(t *testing.T) {
	// Quotes permit ':' and ',' inside a parameter value.
	cl, ok := parseContentLine(`ORGANIZER;CN="Example, Alice":mailto:alice@example.com`)
	require.True(t, ok)
	assert.Equal(t, "Example, Alice", cl.Params.Get("CN"))
	assert.Equal(t, "mailto:alice@example.com", cl.RawValue)
}

func TestParseContentLineParamSet(t *testing.T) {
	cl, ok := parseContentLine("TEL;TYPE=home,voice:+1-555-0100")
	require.True(t, ok)
	assert.Equal(t, []string{"home", "voice"}, cl.Params.Values("TYPE"))
}

func TestParseContentLineLastWinsParam(t *testing.T) {
	cl, ok := parseContentLine("X-THING;TYPE=a;TYPE=b:v")
	require.True(t, ok)
	assert.Equal(t, "b", cl.Params.Get("TYPE"))
}

func TestParseContentLineNoColonSkipped(t *testing.T) {
	_, ok := parseContentLine("THIS LINE HAS NO SEPARATOR")
	assert.False(t, ok)
	_, ok = parseContentLine("   ")
	assert.False(t, ok)
}

func TestFindValueSepIgnoresQuotedColon(t *testing.T) {
	line := `DESCRIPTION;ALTREP="http://example.com/x":body`
	cl, ok := parseContentLine(line)
	require.True(t, ok)
	assert.Equal(t, "body", cl.RawValue)
	assert.Equal(t, "http://example.com/x", cl.Params.Get("ALTREP"))
}
