package engine

import (
	"encoding/json"
	"fmt"
)

// prettyFilter renders a result as indented JSON text.
func prettyFilter(r any) (any, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("pretty print failed: %w", err)
	}
	return string(b), nil
}

// registerCoreFilters installs the built-in data filters.
func (eng *Engine) registerCoreFilters() {
	eng.filters["pretty"] = prettyFilter
}
