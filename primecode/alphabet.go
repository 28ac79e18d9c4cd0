package primecode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Alphabet returns the distinct runes of lines sorted by code point. Lines
// are expected to be UTF-8; invalid bytes read as U+FFFD.
func Alphabet(lines []string) []rune {
	set := make(map[rune]struct{})
	for _, line := range lines {
		for _, r := range line {
			set[r] = struct{}{}
		}
	}
	return sortedRunes(set)
}

// ReadAlphabet is Alphabet over a line-oriented stream. Newlines separate
// lines and are not symbols; a carriage return is an ordinary symbol.
func ReadAlphabet(r io.Reader) ([]rune, error) {
	br := bufio.NewReader(r)
	set := make(map[rune]struct{})
	for {
		c, _, err := br.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read alphabet: %w", err)
		}
		if c == '\n' {
			continue
		}
		set[c] = struct{}{}
	}
	return sortedRunes(set), nil
}

func sortedRunes(set map[rune]struct{}) []rune {
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
