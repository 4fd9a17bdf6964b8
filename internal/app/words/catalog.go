/*
Package words provides the static word catalog used to pick and validate game words.

The catalog is loaded once at startup, either from an embedded default list or
from an operator-provided file, and is immutable afterwards, making it safe for
unsynchronized concurrent reads.
*/
package words

import (
	"bufio"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"unicode/utf8"

	"termoarena/internal/pkg/errs"
)

// WordLength is the fixed number of letters every catalog word and guess must have.
const WordLength = 5

//go:embed default_words.txt
var embeddedWords string

// Catalog is a read-only set of valid game words.
type Catalog struct {
	// words keeps the catalog in load order for listing and random selection.
	words []string

	// index provides O(1) membership checks on normalized words.
	index map[string]struct{}
}

// Normalize uppercases a word the same way the catalog stores its entries.
// Equality throughout the game is case-normalized exact match.
func Normalize(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// Load builds a Catalog from the file at path, or from the embedded default
// list when path is empty. Entries are normalized to uppercase; entries that
// are not exactly WordLength letters long and duplicates are skipped.
// An empty resulting catalog is an error.
func Load(path string) (*Catalog, error) {
	source := embeddedWords

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read word file %s: %w", path, err)
		}
		source = string(raw)
	}

	c := &Catalog{
		index: make(map[string]struct{}),
	}

	scanner := bufio.NewScanner(strings.NewReader(source))
	for scanner.Scan() {
		word := Normalize(scanner.Text())

		if utf8.RuneCountInString(word) != WordLength {
			continue
		}
		if _, exists := c.index[word]; exists {
			continue
		}

		c.words = append(c.words, word)
		c.index[word] = struct{}{}
	}

	if len(c.words) == 0 {
		return nil, fmt.Errorf("word catalog is empty")
	}

	return c, nil
}

// Validate reports whether the word is a catalog member. The word is
// uppercase-normalized first. A word that is not exactly WordLength letters
// long yields a validation error, distinct from a plain non-member result.
func (c *Catalog) Validate(word string) (bool, *errs.CustomError) {
	normalized := Normalize(word)

	if utf8.RuneCountInString(normalized) != WordLength {
		return false, errs.NewError(errs.ErrWordLength)
	}

	_, ok := c.index[normalized]
	return ok, nil
}

// Random returns a uniformly selected catalog word. Previously used words are
// not excluded; repeats across rooms are permitted.
func (c *Catalog) Random() string {
	return c.words[rand.IntN(len(c.words))]
}

// All returns a copy of the full catalog in load order.
func (c *Catalog) All() []string {
	out := make([]string, len(c.words))
	copy(out, c.words)
	return out
}

// Size returns the number of words in the catalog.
func (c *Catalog) Size() int {
	return len(c.words)
}
