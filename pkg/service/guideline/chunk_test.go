package guideline_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/service/guideline"
)

func wordsDoc(n int) *guideline.Document {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return &guideline.Document{Source: "test", Text: strings.Join(words, " ")}
}

func TestSplit(t *testing.T) {
	passages, err := guideline.Split(wordsDoc(1000), 400, 50)
	gt.NoError(t, err).Required()
	gt.Array(t, passages).Length(3).Required()

	// Windows step by window-overlap words
	gt.Number(t, passages[0].Offset).Equal(0)
	gt.Number(t, passages[1].Offset).Equal(350)
	gt.Number(t, passages[2].Offset).Equal(700)

	// Adjacent passages share the overlap region
	first := strings.Fields(passages[0].Text)
	second := strings.Fields(passages[1].Text)
	gt.Array(t, first).Length(400)
	gt.Value(t, second[0]).Equal(first[350])

	// The final window is truncated at the document end
	gt.Array(t, strings.Fields(passages[2].Text)).Length(300)
}

func TestSplit_ShortDocument(t *testing.T) {
	passages, err := guideline.Split(wordsDoc(10), 400, 50)
	gt.NoError(t, err).Required()
	gt.Array(t, passages).Length(1)
	gt.Array(t, strings.Fields(passages[0].Text)).Length(10)
}

func TestSplit_ExactWindow(t *testing.T) {
	passages, err := guideline.Split(wordsDoc(400), 400, 50)
	gt.NoError(t, err).Required()
	gt.Array(t, passages).Length(1)
}

func TestSplit_EmptyDocument(t *testing.T) {
	_, err := guideline.Split(&guideline.Document{Source: "empty", Text: "  \n "}, 400, 50)
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagDocumentParse)).True()
}

func TestSplit_InvalidParameters(t *testing.T) {
	doc := wordsDoc(100)

	_, err := guideline.Split(doc, 0, 0)
	gt.Error(t, err)

	_, err = guideline.Split(doc, 100, 100)
	gt.Error(t, err)

	_, err = guideline.Split(doc, 100, -1)
	gt.Error(t, err)
}
