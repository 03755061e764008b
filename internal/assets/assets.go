// Package assets embeds files shipped inside the binary.
package assets

import _ "embed"

// DefaultConfig is the annotated default housing_price.yaml written by
// `housing-price init`.
//
//go:embed housing_price.yaml
var DefaultConfig []byte

// DefaultConfigName is the file name init writes to.
const DefaultConfigName = "housing_price.yaml"
