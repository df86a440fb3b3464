package ofxparser

import (
	"regexp"
	"strings"
	"sync"
)

// OFX element names read by the parser.
const (
	TagBankID     = "BANKID"
	TagTrnType    = "TRNTYPE"
	TagTrnAmount  = "TRNAMT"
	TagFitID      = "FITID"
	TagName       = "NAME"
	TagMemo       = "MEMO"
	TagDatePosted = "DTPOSTED"
	TagStmtTrn    = "STMTTRN"
)

var (
	blockPattern = regexp.MustCompile(`(?s)<` + TagStmtTrn + `>(.*?)</` + TagStmtTrn + `>`)

	// Bank codes are numeric (COMPE/FEBRABAN); a BANKID holding anything else
	// is not a bank code and is skipped.
	bankIDPattern = regexp.MustCompile(`<` + TagBankID + `>\s*(\d+)`)

	tagPatterns sync.Map // tag name -> *regexp.Regexp
)

func tagPattern(tag string) *regexp.Regexp {
	if re, ok := tagPatterns.Load(tag); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`<` + regexp.QuoteMeta(tag) + `>([^<\r\n]*)`)
	actual, _ := tagPatterns.LoadOrStore(tag, re)
	return actual.(*regexp.Regexp)
}

// TagValue returns the first value of <tag> inside span: the text after the
// opening tag up to the next tag or line break, trimmed. OFX leaf elements are
// usually unterminated, so a closing tag is neither required nor consumed.
// An empty value counts as absent.
func TagValue(tag, span string) (string, bool) {
	m := tagPattern(tag).FindStringSubmatch(span)
	if m == nil {
		return "", false
	}
	value := strings.TrimSpace(m[1])
	return value, value != ""
}

// BankCode returns the first numeric <BANKID> value of the document.
func BankCode(content string) (string, bool) {
	m := bankIDPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Blocks returns the bodies of every <STMTTRN>...</STMTTRN> pair in document
// order. Blocks never overlap and may span several lines.
func Blocks(content string) []string {
	matches := blockPattern.FindAllStringSubmatch(content, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, m[1])
	}
	return blocks
}
