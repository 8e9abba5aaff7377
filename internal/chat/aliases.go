package chat

import (
	"sort"
	"strings"
)

// DefaultAliases returns the short names of the models served by a stock
// llama-swappo install.
func DefaultAliases() map[string]string {
	return map[string]string{
		"deepseek": "deepseek-coder-v2-lite-instruct-q4_k_m",
		"qwen":     "qwen2.5-coder-7b-instruct-q5_k_m",
	}
}

// Aliases maps short model names to canonical model ids. It is built once and
// never modified afterwards, so it can be shared freely.
type Aliases struct {
	m map[string]string
}

// NewAliases builds the alias table from the defaults overlaid with extra.
// Names are stored lower-cased.
func NewAliases(extra map[string]string) *Aliases {
	m := DefaultAliases()
	for name, id := range extra {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || id == "" {
			continue
		}
		m[name] = id
	}
	return &Aliases{m: m}
}

// Resolve returns the canonical id for name.
func (a *Aliases) Resolve(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	id, ok := a.m[name]
	return id, ok
}

// Names returns the known aliases in sorted order.
func (a *Aliases) Names() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.m))
	for name := range a.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
