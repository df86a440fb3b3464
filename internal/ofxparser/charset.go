package ofxparser

import (
	"regexp"
	"strings"

	"poupeai/statement-ingestion/internal/logging"

	"golang.org/x/net/html/charset"
)

var charsetHeader = regexp.MustCompile(`(?m)^\s*CHARSET:\s*(\S+)`)

// charsetAliases maps OFX SGML header values to WHATWG encoding labels.
var charsetAliases = map[string]string{
	"1252":   "windows-1252",
	"8859-1": "iso-8859-1",
}

// declaredCharset returns the encoding label from the OFX SGML header, or ""
// when none is declared or the header declares UTF-8.
func declaredCharset(raw []byte) string {
	header := raw
	if i := strings.Index(string(raw), "<OFX>"); i >= 0 {
		header = raw[:i]
	} else if len(header) > 1024 {
		header = header[:1024]
	}

	m := charsetHeader.FindSubmatch(header)
	if m == nil {
		return ""
	}
	label := strings.ToLower(strings.TrimSpace(string(m[1])))
	switch label {
	case "", "none", "utf-8", "utf8", "csunicode":
		return ""
	}
	if alias, ok := charsetAliases[label]; ok {
		return alias
	}
	return label
}

// transcode converts raw from the declared header charset to UTF-8. It returns
// the input unchanged when nothing is declared or the label is unknown.
func (p *Parser) transcode(raw []byte) []byte {
	label := declaredCharset(raw)
	if label == "" {
		return raw
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		p.GetLogger().Warn("Unknown statement charset, reading as UTF-8",
			logging.F("charset", label))
		return raw
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		p.GetLogger().WithError(err).Warn("Failed to transcode statement, reading as UTF-8",
			logging.F("charset", name))
		return raw
	}
	p.GetLogger().Debug("Transcoded statement to UTF-8", logging.F("charset", name))
	return decoded
}
