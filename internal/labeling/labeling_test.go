package labeling

import (
	"strings"
	"testing"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/luis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value string
		want  Span
	}{
		{"outdoor", "find outdoor pics", "outdoor", Span{5, 12}},
		{"case insensitive", "find pictures of German shepherds", "german SHEPHERDS", Span{17, 33}},
		{"first occurrence", "dog and dog photos", "dog", Span{0, 3}},
		{"multi word", "search for photos of boys playing", "boys playing", Span{21, 33}},
		{"whole text", "train", "Train", Span{0, 5}},
		{"rune offsets", "zeig mir Bilder vom Straßenfest", "straßenfest", Span{20, 31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Locate(tt.text, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			runes := []rune(tt.text)
			assert.True(t, strings.EqualFold(string(runes[got.Start:got.End]), tt.value))
		})
	}
}

func TestLocate_NotFound(t *testing.T) {
	for _, value := range []string{"cat", "", "outdoor pics please"} {
		_, err := Locate("find outdoor pics", value)
		assert.ErrorIs(t, err, ErrValueNotFound, value)
	}
}

func TestBuildExample_Scenario(t *testing.T) {
	ex, unresolved, err := BuildExample(Utterance{
		Intent: "SearchPic",
		Text:   "find outdoor pics",
		Labels: map[string]string{"facet": "outdoor"},
	}, Strict)

	require.NoError(t, err)
	assert.Empty(t, unresolved)
	assert.Equal(t, luis.ExampleLabelObject{
		Text:       "find outdoor pics",
		IntentName: "SearchPic",
		EntityLabels: []luis.EntityLabelObject{
			{EntityName: "facet", StartCharIndex: 5, EndCharIndex: 12},
		},
	}, ex)
}

func TestBuildExample_SortedLabels(t *testing.T) {
	ex, _, err := BuildExample(Utterance{
		Intent: "SearchPic",
		Text:   "show me pictures of men wearing glasses",
		Labels: map[string]string{"subject": "men", "facet": "wearing glasses"},
	}, Strict)

	require.NoError(t, err)
	require.Len(t, ex.EntityLabels, 2)
	assert.Equal(t, "facet", ex.EntityLabels[0].EntityName)
	assert.Equal(t, "subject", ex.EntityLabels[1].EntityName)
}

func TestBuildExample_NoLabels(t *testing.T) {
	ex, _, err := BuildExample(Utterance{Intent: "Greeting", Text: "hello"}, Strict)
	require.NoError(t, err)
	assert.NotNil(t, ex.EntityLabels)
	assert.Empty(t, ex.EntityLabels)
}

func TestBuildExample_Unresolved(t *testing.T) {
	u := Utterance{
		Intent: "SearchPic",
		Text:   "show me beach pics",
		Labels: map[string]string{"facet": "mountain"},
	}

	_, _, err := BuildExample(u, Strict)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValueNotFound)
	assert.Equal(t, apperrors.ErrCodeLabelValueNotFound, apperrors.CodeOf(err))

	ex, unresolved, err := BuildExample(u, Legacy)
	require.NoError(t, err)
	assert.Equal(t, []string{"facet"}, unresolved)
	assert.Equal(t, luis.EntityLabelObject{EntityName: "facet", StartCharIndex: -1, EndCharIndex: 7}, ex.EntityLabels[0])
}
