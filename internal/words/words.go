// internal/words/words.go
//
// Dictionary loading and lookup.
//
// Responsibilities:
//   - Read a newline-delimited word list from any reader, file, or string.
//   - Normalize entries: trim surrounding whitespace, skip blank lines,
//     uppercase everything.
//   - Answer exact, case-insensitive membership queries.
//
// Failure behavior:
//   A source that cannot be read yields a *LoadError together with an empty,
//   usable Dictionary. Callers are expected to report the error and carry on;
//   no word will ever validate against an empty dictionary.
//
// A Dictionary is immutable once loaded and safe for concurrent reads.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Hungryfoodies/WordSquare/assets"
)

// Dictionary is a set of uppercase words.
type Dictionary struct {
	set map[string]struct{}
}

// LoadError reports a dictionary source that could not be read.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("words: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Empty returns a dictionary with no words.
func Empty() *Dictionary {
	return &Dictionary{set: map[string]struct{}{}}
}

// Load reads one word per line from r. name identifies the source in errors.
func Load(r io.Reader, name string) (*Dictionary, error) {
	if r == nil {
		return Empty(), &LoadError{Source: name, Err: errors.New("no source")}
	}
	d := Empty()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" {
			continue
		}
		d.set[strings.ToUpper(w)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return Empty(), &LoadError{Source: name, Err: err}
	}
	return d, nil
}

// LoadFile reads a word list from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Empty(), &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return Load(f, path)
}

// LoadString builds a dictionary from an in-memory list.
func LoadString(s string) *Dictionary {
	d, _ := Load(strings.NewReader(s), "string")
	return d
}

// Default loads the word list embedded in the binary.
func Default() (*Dictionary, error) {
	f, err := assets.FS.Open(assets.WordsFile)
	if err != nil {
		return Empty(), &LoadError{Source: "embedded:" + assets.WordsFile, Err: err}
	}
	defer f.Close()
	return Load(f, "embedded:"+assets.WordsFile)
}

// Contains reports whether w is in the dictionary, ignoring case.
// Surrounding whitespace is significant: " CAT" is not "CAT".
func (d *Dictionary) Contains(w string) bool {
	if d == nil {
		return false
	}
	_, ok := d.set[strings.ToUpper(w)]
	return ok
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.set)
}
