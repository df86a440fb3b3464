package ofxparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagValue(t *testing.T) {
	tests := []struct {
		name   string
		tag    string
		span   string
		want   string
		wantOK bool
	}{
		{"unterminated leaf", "TRNAMT", "<TRNAMT>-12.34\n<FITID>1", "-12.34", true},
		{"closed element", "NAME", "<NAME>Loja ABC</NAME>", "Loja ABC", true},
		{"next tag on same line", "MEMO", "<MEMO>Compra<NAME>x", "Compra", true},
		{"crlf", "FITID", "<FITID>  abc  \r\n<NAME>y", "abc", true},
		{"first match wins", "MEMO", "<MEMO>one\n<MEMO>two", "one", true},
		{"absent", "MEMO", "<NAME>x", "", false},
		{"empty value", "NAME", "<NAME>\n<MEMO>m", "", false},
		{"case sensitive", "NAME", "<name>x", "", false},
		{"prefix tag is not a match", "NAME", "<NAMEX>x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TagValue(tt.tag, tt.span)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlocks(t *testing.T) {
	content := "<STMTTRN>\n<TRNAMT>1\n</STMTTRN>junk<STMTTRN><TRNAMT>2</STMTTRN>\n<STMTTRN><TRNAMT>3"
	blocks := Blocks(content)
	assert.Equal(t, []string{"\n<TRNAMT>1\n", "<TRNAMT>2"}, blocks)
	assert.Empty(t, Blocks("<OFX></OFX>"))
}
