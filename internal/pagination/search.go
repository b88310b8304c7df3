package pagination

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns search into an ILIKE substring pattern with the LIKE
// wildcards escaped, so they match literally. The default escape character
// is a backslash.
func LikePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
