package katex

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/symbols.json
var symbolsData []byte

// Symbol is an entry of the symbol table: which font draws it, which group
// (atom class or mathord/textord/spacing/accent-token) it belongs to, and the
// character actually drawn when it differs from the name.
type Symbol struct {
	Font    string `json:"font"`
	Group   string `json:"group"`
	Replace string `json:"replace"`
}

// FontName is the metrics font of the symbol.
func (s Symbol) FontName() string {
	if s.Font == "ams" {
		return "AMS-Regular"
	}

	return "Main-Regular"
}

// SymbolTable maps names ("\\alpha", "+", "a") to symbols, per mode.
type SymbolTable struct {
	math map[string]Symbol
	text map[string]Symbol
}

func loadSymbols(data []byte) (*SymbolTable, error) {
	var raw struct {
		Math map[string]Symbol `json:"math"`
		Text map[string]Symbol `json:"text"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("symbols: %w", err)
	}

	return &SymbolTable{math: raw.Math, text: raw.Text}, nil
}

func (t *SymbolTable) Get(mode Mode, name string) (Symbol, bool) {
	if mode == ModeText {
		s, ok := t.text[name]
		return s, ok
	}

	s, ok := t.math[name]
	return s, ok
}

func (t *SymbolTable) Has(mode Mode, name string) bool {
	_, ok := t.Get(mode, name)
	return ok
}

// ligatures are combined in text mode when no font command forbids it
var ligatures = map[string]bool{
	"--":  true,
	"---": true,
	"``":  true,
	"''":  true,
}
