// Package localize looks up translated user facing strings.
//
// There is no active, process wide map: code that shows text receives a
// Translator and asks it.
package localize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	MachineFile = "Translation.txt"
	HumanFile   = "Translation-human.txt"
)

// Translator returns the translation of an English string
type Translator interface {
	Translate(english string) string
}

// Identity returns every string unchanged
type Identity struct{}

func (Identity) Translate(english string) string {
	return english
}

// Translate is a nil safe lookup
func Translate(t Translator, english string) string {
	if t == nil {
		return english
	}
	return t.Translate(english)
}

// Map holds the dictionaries of one language
type Map struct {
	tag     language.Tag
	machine Dictionary
	human   Dictionary
}

// NewMap returns a map for tag. Either dictionary may be nil.
func NewMap(tag language.Tag, machine, human Dictionary) *Map {
	return &Map{
		tag:     tag,
		machine: machine,
		human:   human,
	}
}

func (m *Map) Language() language.Tag {
	return m.tag
}

func (m *Map) String() string {
	return fmt.Sprintf("Map: %v (machine:%d, human:%d)", m.tag, len(m.machine), len(m.human))
}

func (m *Map) isEnglish() bool {
	base, _ := m.tag.Base()
	english, _ := language.English.Base()
	return base == english
}

// Translate prefers a human translation that differs from the input,
// then the machine translation, then the input itself
func (m *Map) Translate(english string) string {
	if m.isEnglish() || english == "" {
		return english
	}
	if translated, ok := m.human[english]; ok && translated != english {
		return translated
	}
	if translated, ok := m.machine[english]; ok {
		return translated
	}
	log.Tracef("localize: no %v translation for %q", m.tag, english)
	return english
}

// Load reads <dir>/<lang>/Translation.txt and, when present,
// <dir>/<lang>/Translation-human.txt
func Load(dir, lang string) (*Map, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("localize: language %q: %w", lang, err)
	}
	m := NewMap(tag, nil, nil)
	if m.isEnglish() {
		return m, nil
	}

	langDir := filepath.Join(dir, lang)
	m.machine, err = ReadDictionaryFile(filepath.Join(langDir, MachineFile))
	if err != nil {
		return nil, err
	}
	m.human, err = ReadDictionaryFile(filepath.Join(langDir, HumanFile))
	if errors.Is(err, os.ErrNotExist) {
		m.human = nil
	} else if err != nil {
		return nil, err
	}
	log.Debugf("localize: loaded %v", m)
	return m, nil
}
