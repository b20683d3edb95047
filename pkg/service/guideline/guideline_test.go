package guideline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/service/guideline"
)

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "who-guidelines.md")
	content := "# Testing services\n\nOffer HIV testing to all clients reporting recent exposure."
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()

	doc, err := guideline.Load(context.Background(), path)
	gt.NoError(t, err).Required()
	gt.String(t, doc.Source).Equal("who-guidelines.md")
	gt.String(t, doc.Text).Equal(content)
}

func TestLoad_BuiltinFallback(t *testing.T) {
	doc, err := guideline.Load(context.Background(), "")
	gt.NoError(t, err).Required()
	gt.String(t, doc.Source).Equal("builtin")
	gt.Bool(t, len(strings.Fields(doc.Text)) > 100).True()
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := guideline.Load(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagDocumentParse)).True()
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.md")
	gt.NoError(t, os.WriteFile(path, []byte("  \n\t\n"), 0o600)).Required()

	_, err := guideline.Load(context.Background(), path)
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagDocumentParse)).True()
}
