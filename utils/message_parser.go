package utils

import (
	"regexp"
)

var (
	userMentionRe    = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMentionRe    = regexp.MustCompile(`^<@&(\d+)>$`)
	channelMentionRe = regexp.MustCompile(`^<#(\d+)>$`)
	snowflakeRe      = regexp.MustCompile(`^\d{5,20}$`)
)

func parseID(re *regexp.Regexp, s string) (string, bool) {
	if m := re.FindStringSubmatch(s); len(m) == 2 {
		return m[1], true
	}
	if snowflakeRe.MatchString(s) {
		return s, true
	}
	return "", false
}

// ParseUserMention extracts a user ID from "<@id>", "<@!id>" or a bare ID.
func ParseUserMention(s string) (string, bool) {
	return parseID(userMentionRe, s)
}

// ParseRoleMention extracts a role ID from "<@&id>" or a bare ID.
func ParseRoleMention(s string) (string, bool) {
	return parseID(roleMentionRe, s)
}

// ParseChannelMention extracts a channel ID from "<#id>" or a bare ID.
func ParseChannelMention(s string) (string, bool) {
	return parseID(channelMentionRe, s)
}
