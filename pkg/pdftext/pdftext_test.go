package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinesRejectsNonPDF(t *testing.T) {
	doc, err := ExtractLines([]byte("definitely not a pdf"))
	assert.Error(t, err)
	assert.Nil(t, doc)
}

func TestExtractLinesRejectsEmpty(t *testing.T) {
	_, err := ExtractLines(nil)
	assert.Error(t, err)
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("Agenda\r\n\n  Budget review  \n\t\nNext steps")
	assert.Equal(t, []string{"Agenda", "Budget review", "Next steps"}, got)
	assert.Nil(t, SplitLines("   \n"))
}
