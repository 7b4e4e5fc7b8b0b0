package models

// Charset kinds a block's difficulty config may combine. The set is closed;
// block creation validates against it and it never changes for a live block.
const (
	CharsetLowercase    = "lowercase"
	CharsetUppercase    = "uppercase"
	CharsetAlphanumeric = "alphanumeric"
	CharsetSymbols      = "symbols"
)

// AllCharsets lists every known charset kind
var AllCharsets = []string{CharsetLowercase, CharsetUppercase, CharsetAlphanumeric, CharsetSymbols}
