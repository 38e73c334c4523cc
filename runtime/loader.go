// Package runtime handles event production, propagation, and supervision.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"board-lab/errors"
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"
)

// WordlistData carries the result of the loading process including metadata for logging.
type WordlistData struct {
	Words     []string
	Languages []string
}

// WordlistLoader is responsible for reading and parsing flag terms from embedded files.
type WordlistLoader struct {
	fs embed.FS
}

// NewWordlistLoader creates a new instance of WordlistLoader with the provided embedded filesystem.
func NewWordlistLoader(f embed.FS) *WordlistLoader {
	return &WordlistLoader{fs: f}
}

// LoadAll scans the given directory path in the embedded FS, identifying .txt files
// as language dictionaries and parsing their contents into a unique list of words.
func (l *WordlistLoader) LoadAll(path string) (*WordlistData, error) {
	entries, err := fs.ReadDir(l.fs, path)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Track the language based on the filename (e.g., "en.txt" -> "en")
		lang := strings.TrimSuffix(entry.Name(), ".txt")
		languages = append(languages, lang)

		data, err := l.fs.ReadFile(path + "/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// Use a scanner to handle different line endings (\n vs \r\n) correctly
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				uniqueWords[line] = struct{}{}
			}
		}

		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(uniqueWords))
	for w := range uniqueWords {
		words = append(words, w)
	}

	return &WordlistData{
		Words:     words,
		Languages: languages,
	}, nil
}
