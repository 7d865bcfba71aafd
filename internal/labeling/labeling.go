// Package labeling turns literal utterances into labeled examples by locating
// each entity value inside the utterance text.
package labeling

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/luis"
)

var ErrValueNotFound = errors.New("label value not found in text")

// Span is a half-open character range [Start, End) counted in runes.
type Span struct {
	Start int
	End   int
}

// Mode decides what happens to a label whose value is absent from the text.
type Mode int

const (
	// Strict fails the utterance with ErrValueNotFound.
	Strict Mode = iota
	// Legacy emits start = -1, end = -1 + len(value), which the service rejects per item.
	Legacy
)

// Utterance is one literal training example.
type Utterance struct {
	Intent string
	Text   string
	Labels map[string]string
}

// Locate returns the first case-insensitive occurrence of value in text.
func Locate(text, value string) (Span, error) {
	if value == "" {
		return Span{}, ErrValueNotFound
	}

	textRunes := []rune(text)
	n := utf8.RuneCountInString(value)

	for i := 0; i+n <= len(textRunes); i++ {
		if strings.EqualFold(string(textRunes[i:i+n]), value) {
			return Span{Start: i, End: i + n}, nil
		}
	}
	return Span{}, ErrValueNotFound
}

// BuildExample converts u into the batch payload shape. Labels are emitted
// in entity-name order so payloads are stable between runs.
func BuildExample(u Utterance, mode Mode) (luis.ExampleLabelObject, []string, error) {
	names := make([]string, 0, len(u.Labels))
	for name := range u.Labels {
		names = append(names, name)
	}
	sort.Strings(names)

	var unresolved []string
	labels := make([]luis.EntityLabelObject, 0, len(names))
	for _, name := range names {
		value := u.Labels[name]
		span, err := Locate(u.Text, value)
		if err != nil {
			if mode != Legacy {
				return luis.ExampleLabelObject{}, nil, apperrors.NewLabelValueNotFoundError(name, value, u.Text, err)
			}
			unresolved = append(unresolved, name)
			span = Span{Start: -1, End: -1 + utf8.RuneCountInString(value)}
		}
		labels = append(labels, luis.EntityLabelObject{
			EntityName:     name,
			StartCharIndex: span.Start,
			EndCharIndex:   span.End,
		})
	}

	return luis.ExampleLabelObject{
		Text:         u.Text,
		IntentName:   u.Intent,
		EntityLabels: labels,
	}, unresolved, nil
}
