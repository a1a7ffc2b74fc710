package normalize

import "strings"

// specialsReplacer substitutes filesystem-unsafe characters with visually
// close Unicode lookalikes and unescapes the HTML entities sources leak
// into free text. Every replacement target is outside the input set, so
// applying the substitution twice is a no-op.
var specialsReplacer = strings.NewReplacer(
	"\\", "∖", // U+2216 SET MINUS
	"/", "∕", // U+2215 DIVISION SLASH
	":", "꞉", // U+A789 MODIFIER LETTER COLON
	"*", "∗", // U+2217 ASTERISK OPERATOR
	"?", "？", // U+FF1F FULLWIDTH QUESTION MARK
	`"`, "＂", // U+FF02 FULLWIDTH QUOTATION MARK
	"<", "ᐸ", // U+1438 CANADIAN SYLLABICS PA
	">", "ᐳ", // U+1433 CANADIAN SYLLABICS PO
	"|", "ǀ", // U+01C0 LATIN LETTER DENTAL CLICK
	"&lsquo;", "‘",
	"&rsquo;", "’",
	"&hellip;", "…",
	"&amp;", "＆",
	"&", "＆",
)

// ReplaceSpecials makes free text safe for use in file names.
func ReplaceSpecials(text string) string {
	return specialsReplacer.Replace(text)
}
