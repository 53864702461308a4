package deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/edvin/modelerd/internal/model"
)

// FileSaver resolves the saved document from disk. The shell writes
// the tab to its file before triggering a deploy; a missing file
// means the user backed out of the save dialog, which aborts the flow
// without error.
type FileSaver struct{}

func (FileSaver) Save(ctx context.Context, documentPath string) (*model.SavedDocument, error) {
	contents, err := os.ReadFile(documentPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", documentPath, err)
	}
	return &model.SavedDocument{
		Path:     documentPath,
		Name:     filepath.Base(documentPath),
		Contents: contents,
	}, nil
}
