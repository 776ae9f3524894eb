// Package assets embeds the default word list and puzzle presets so the
// server and shell run without any external files.
package assets

import "embed"

const (
	WordsFile   = "words.txt"
	PresetsFile = "presets.yaml"
)

//go:embed words.txt presets.yaml
var FS embed.FS
