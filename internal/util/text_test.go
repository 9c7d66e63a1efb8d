package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommand(t *testing.T) {
	cases := map[string][]string{
		"add_user bob":                  {"add_user", "bob"},
		"add_post bob hello there world": {"add_post", "bob", "hello there world"},
		"exit":                          {"exit"},
		"":                              {},
		"add_friend a b":                {"add_friend", "a", "b"},
		"add_post  bob hi":              {"add_post", "bob hi"},
		"list_friends bob ":             {"list_friends", "bob"},
	}
	for in, want := range cases {
		assert.Equal(t, want, SplitCommand(in), "input %q", in)
	}
}

func TestLowerFields(t *testing.T) {
	f := []string{"ADD_POST", "Bob", "Keep Me"}
	LowerFields(f, 0, 1, 7)
	assert.Equal(t, []string{"add_post", "bob", "Keep Me"}, f)
}
