// Package token models the input token list.
package token

// Record is one entry of the token list. Symbol names the token and seeds
// the on-disk filename; LogoURL may be empty when the listing carries no
// logo. Records are read-only once loaded.
type Record struct {
	Symbol  string `json:"symbol"`
	LogoURL string `json:"logoUrl"`
}
