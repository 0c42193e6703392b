package utils

import "strings"

// LikeEscape is the clause to append after every LIKE built with
// ContainsPattern. '!' is used because a backslash literal is read
// differently by MySQL and PostgreSQL.
const LikeEscape = " ESCAPE '!'"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern returns a lower-cased LIKE pattern matching s as a plain
// substring.
func ContainsPattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(s)) + "%"
}
