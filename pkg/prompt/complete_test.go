package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagCompleterComplete(t *testing.T) {
	c := NewTagCompleter([]string{"Body", "Boots", "Hair", " ", "Bodysuit"})

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"Body", "Bodysuit", "Boots"}, c.Complete("Bo"))
	assert.Equal(t, []string{"Body", "Bodysuit"}, c.Complete("Body"))
	assert.Empty(t, c.Complete("x"))
	assert.Len(t, c.Complete(""), 4)
}

func TestTagCompleterSuggestCompletesLastEntry(t *testing.T) {
	c := NewTagCompleter([]string{"Body", "Boots", "Hair"})

	assert.Equal(t, []string{"Hair, Body", "Hair, Boots"}, c.Suggest("Hair, Bo"))
	assert.Equal(t, []string{"Hair"}, c.Suggest("Ha"))
}

func TestTagCompleterSuggestSkipsUsedTags(t *testing.T) {
	c := NewTagCompleter([]string{"Body", "Boots"})

	assert.Equal(t, []string{"Body, Boots"}, c.Suggest("Body, B"))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidURL("https://example.com/mod"))
	assert.Error(t, ValidURL("example.com/mod"))
	assert.Error(t, ValidURL("not a url"))

	required := Required("Name")
	assert.Error(t, required("   "))
	assert.NoError(t, required("Body Pack"))

	chained := All(Required("Source URL"), ValidURL)
	assert.EqualError(t, chained(""), "Source URL is required")
}
