package ofxparser

import "strings"

// NoDescription is used when a transaction has neither NAME nor MEMO.
const NoDescription = "Sem descrição"

// BuildDescription merges the NAME and MEMO fields into one description.
// A memo that already contains the name is assumed to be the more complete text.
func BuildDescription(name, memo string) string {
	name = strings.TrimSpace(name)
	memo = strings.TrimSpace(memo)

	switch {
	case name == "" && memo == "":
		return NoDescription
	case name == "":
		return memo
	case memo == "":
		return name
	case strings.EqualFold(name, memo):
		return name
	case strings.Contains(strings.ToLower(memo), strings.ToLower(name)):
		return memo
	default:
		return name + " - " + memo
	}
}
