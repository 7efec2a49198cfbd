package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opinity/proposal-generator/internal/types"
)

func TestFor(t *testing.T) {
	assert.Equal(t, "TECHNICAL PROPOSAL", For(types.LanguageEnglish).PDFTitle)
	assert.Equal(t, "TECHNISCH VOORSTEL", For(types.LanguageDutch).PDFTitle)
	assert.Equal(t, "TECHNICAL PROPOSAL", For("fr").PDFTitle)
}

func TestCatalogues_Complete(t *testing.T) {
	for _, lang := range []types.Language{types.LanguageEnglish, types.LanguageDutch} {
		s := For(lang)
		assert.NotEmpty(t, s.Headers.Challenge, lang)
		assert.NotEmpty(t, s.Headers.Backlog, lang)
		assert.NotEmpty(t, s.Errors.InvalidFormat, lang)
		assert.NotEmpty(t, s.Errors.ServiceUnavailable, lang)
		assert.Contains(t, s.DemoNotes, "manual", lang)
		assert.Contains(t, s.DemoNotes, "cloud", lang)
	}
}

func TestInvalidFormatMessage(t *testing.T) {
	assert.Equal(t, "AI generated an invalid format. Please try again.", For(types.LanguageEnglish).Errors.InvalidFormat)
}
