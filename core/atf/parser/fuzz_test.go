package parser

import (
	"testing"

	"github.com/FocuswithJustin/atfkit/core/atf/model"
)

// FuzzParse checks that parsing never panics and that serialization of any
// parse result is a fixed point.
func FuzzParse(f *testing.F) {
	for _, src := range roundTripSources {
		f.Add(src)
	}
	f.Add("&P1\n@translation labeled en project\n@label\n@(\n$ (\n")
	f.Add("1. a\n\n\n#lem: x;;\n||\n== \n={\n")
	f.Add("&\r\n\r\n@obverse\r\n1.\ta ^^ b ^1 c^\r\n")

	f.Fuzz(func(t *testing.T, src string) {
		res := Parse(src)
		if res.Document == nil {
			t.Fatal("Parse() returned a nil document")
		}
		first := model.SerializeDocument(res.Document)
		second := model.SerializeDocument(Parse(first).Document)
		if first != second {
			t.Errorf("serialization is not a fixed point:\nfirst\n%q\nsecond\n%q", first, second)
		}
	})
}
