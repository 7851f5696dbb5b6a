package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

var defaultLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// Detector tags stored entries with the language they are written in.
// It is safe for concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = defaultLanguages
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of text's language, or an
// empty string when it cannot be determined.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}

	return strings.ToLower(lang.IsoCode639_1().String())
}
