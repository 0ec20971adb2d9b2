package prompt

import (
	"strings"

	"github.com/armon/go-radix"
)

// TagCompleter offers prefix completion over known tag names.
type TagCompleter struct {
	tree *radix.Tree
}

func NewTagCompleter(tags []string) *TagCompleter {
	c := &TagCompleter{tree: radix.New()}
	for _, tag := range tags {
		c.Insert(tag)
	}
	return c
}

func (c *TagCompleter) Insert(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	c.tree.Insert(tag, struct{}{})
}

func (c *TagCompleter) Len() int {
	return c.tree.Len()
}

// Complete returns every known tag starting with prefix, in lexical order.
func (c *TagCompleter) Complete(prefix string) []string {
	var matches []string
	c.tree.WalkPrefix(prefix, func(tag string, _ interface{}) bool {
		matches = append(matches, tag)
		return false
	})
	return matches
}

// Suggest completes the last entry of a comma separated tag list and
// returns whole-line suggestions. Tags already present earlier in the line
// are not suggested again.
func (c *TagCompleter) Suggest(input string) []string {
	head, token := "", input
	if idx := strings.LastIndex(input, ","); idx >= 0 {
		head = input[:idx+1] + " "
		token = input[idx+1:]
	}
	token = strings.TrimSpace(token)

	used := make(map[string]struct{})
	for _, tag := range strings.Split(head, ",") {
		used[strings.TrimSpace(tag)] = struct{}{}
	}

	var suggestions []string
	for _, tag := range c.Complete(token) {
		if _, ok := used[tag]; ok {
			continue
		}
		suggestions = append(suggestions, head+tag)
	}
	return suggestions
}
