package domain

import "strings"

// Token is one entry of a chain's token list. Identity is
// (ChainID, Address) with case-insensitive address comparison; Symbol is
// a secondary, non-unique lookup key.
type Token struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// FindByAddress returns the first token whose address matches addr
// case-insensitively, or nil.
func FindByAddress(tokens []Token, addr string) *Token {
	for i := range tokens {
		if strings.EqualFold(tokens[i].Address, addr) {
			return &tokens[i]
		}
	}
	return nil
}

// FindBySymbol returns the first token whose symbol matches sym
// case-insensitively, or nil. Symbols can collide across listings;
// first match wins and callers must not rely on any other tie-break.
func FindBySymbol(tokens []Token, sym string) *Token {
	for i := range tokens {
		if strings.EqualFold(tokens[i].Symbol, sym) {
			return &tokens[i]
		}
	}
	return nil
}
