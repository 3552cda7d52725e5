package localize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	englishTag    = "English:"
	translatedTag = "Translated:"
)

// Dictionary maps English strings to their translation
type Dictionary map[string]string

// ParseError reports a line that doesn't carry the expected tag
type ParseError struct {
	Line     int
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("localize: line %d: expected %s", e.Line, e.Expected)
}

// ReadDictionary parses English:/Translated: line pairs.
// Blank lines are skipped, \n escapes are decoded and the first
// translation of a string wins.
func ReadDictionary(r io.Reader) (Dictionary, error) {
	dictionary := make(Dictionary)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lookingForEnglish := true
	english := ""
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lookingForEnglish {
			if !strings.HasPrefix(line, englishTag) {
				return nil, &ParseError{Line: lineNumber, Expected: englishTag}
			}
			english = decode(line[len(englishTag):])
			lookingForEnglish = false
			continue
		}

		if !strings.HasPrefix(line, translatedTag) {
			return nil, &ParseError{Line: lineNumber, Expected: translatedTag}
		}
		if _, ok := dictionary[english]; !ok {
			dictionary[english] = decode(line[len(translatedTag):])
		}
		lookingForEnglish = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !lookingForEnglish {
		log.Warnf("localize: %q has no translation line", english)
	}
	return dictionary, nil
}

func ReadDictionaryFile(path string) (Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadDictionary(file)
}

func decode(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
