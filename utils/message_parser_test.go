package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMentions(t *testing.T) {
	cases := []struct {
		name  string
		parse func(string) (string, bool)
		in    string
		want  string
		ok    bool
	}{
		{"user", ParseUserMention, "<@123456789>", "123456789", true},
		{"user nick", ParseUserMention, "<@!123456789>", "123456789", true},
		{"user raw id", ParseUserMention, "123456789", "123456789", true},
		{"user role mention", ParseUserMention, "<@&123456789>", "", false},
		{"user name", ParseUserMention, "alice", "", false},
		{"role", ParseRoleMention, "<@&555555>", "555555", true},
		{"role name", ParseRoleMention, "Regular", "", false},
		{"channel", ParseChannelMention, "<#777777>", "777777", true},
		{"channel short number", ParseChannelMention, "42", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.parse(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
