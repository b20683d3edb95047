package guideline

import (
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
)

//go:embed defaults/guidelines.md
var builtinGuidelines string

// Document is the reference text a guideline index is built from
type Document struct {
	Source string
	Text   string
}

// Load reads the guideline document at path. An empty path falls back to the
// built-in guideline corpus so the pipeline stays usable without a deployment
// document. An unreadable or empty document is a document-parse error.
func Load(ctx context.Context, path string) (*Document, error) {
	if path == "" {
		logging.From(ctx).Info("no guideline document configured, using built-in corpus")
		return &Document{Source: "builtin", Text: builtinGuidelines}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read guideline document",
			goerr.T(types.ErrTagDocumentParse), goerr.V("path", path))
	}

	text := string(raw)
	if strings.TrimSpace(text) == "" {
		return nil, goerr.New("guideline document is empty",
			goerr.T(types.ErrTagDocumentParse), goerr.V("path", path))
	}

	return &Document{Source: filepath.Base(path), Text: text}, nil
}
