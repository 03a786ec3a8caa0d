package lifecycle

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/marmos91/essentials/internal/logger"
)

// Stage names.
const (
	StageWrite  = "write"
	StageRead   = "read"
	StageAppend = "append"
	StageDelete = "delete"
)

const filePerm = 0o644

// Record is the file a pipeline works on. Content mirrors what the stages
// believe is on disk; it is not persisted anywhere else.
type Record struct {
	Path    string
	Content string

	// Transferred is the number of bytes moved by the most recent stage.
	Transferred int
}

// Stage is one step of a pipeline. Run must leave rec consistent with the
// filesystem when it returns nil.
type Stage interface {
	Name() string
	Run(ctx context.Context, fs afero.Fs, rec *Record) error
}

// DefaultStages returns write, read, append and delete configured from cfg.
func DefaultStages(cfg Config) []Stage {
	cfg.ApplyDefaults()
	return []Stage{
		WriteStage{Content: cfg.Content},
		ReadStage{},
		AppendStage{Suffix: cfg.Suffix},
		DeleteStage{},
	}
}

// WriteStage creates or truncates the file with Content.
type WriteStage struct {
	Content string
}

func (WriteStage) Name() string { return StageWrite }

func (s WriteStage) Run(ctx context.Context, fs afero.Fs, rec *Record) error {
	if err := afero.WriteFile(fs, rec.Path, []byte(s.Content), filePerm); err != nil {
		logger.ErrorCtx(ctx, "Error writing file", logger.Path(rec.Path), logger.Err(err))
		return err
	}
	rec.Content = s.Content
	rec.Transferred = len(s.Content)

	logger.InfoCtx(ctx, "File written successfully.", logger.Path(rec.Path))
	return nil
}

// ReadStage loads the file as UTF-8 text. Invalid sequences are replaced
// with U+FFFD.
type ReadStage struct{}

func (ReadStage) Name() string { return StageRead }

func (ReadStage) Run(ctx context.Context, fs afero.Fs, rec *Record) error {
	data, err := afero.ReadFile(fs, rec.Path)
	if err != nil {
		logger.ErrorCtx(ctx, "Error reading file", logger.Path(rec.Path), logger.Err(err))
		return err
	}
	rec.Content = strings.ToValidUTF8(string(data), "�")
	rec.Transferred = len(data)

	logger.InfoCtx(ctx, "File content:", logger.KeyContent, rec.Content)
	return nil
}

// AppendStage adds Suffix to the end of the file, creating it if missing.
type AppendStage struct {
	Suffix string
}

func (AppendStage) Name() string { return StageAppend }

func (s AppendStage) Run(ctx context.Context, fs afero.Fs, rec *Record) error {
	if err := appendFile(fs, rec.Path, s.Suffix); err != nil {
		logger.ErrorCtx(ctx, "Error appending to file", logger.Path(rec.Path), logger.Err(err))
		return err
	}
	rec.Content += s.Suffix
	rec.Transferred = len(s.Suffix)

	logger.InfoCtx(ctx, "Text appended successfully.", logger.Path(rec.Path))
	return nil
}

func appendFile(fs afero.Fs, path, text string) (err error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	_, err = f.WriteString(text)
	return err
}

// DeleteStage removes the file.
type DeleteStage struct{}

func (DeleteStage) Name() string { return StageDelete }

func (DeleteStage) Run(ctx context.Context, fs afero.Fs, rec *Record) error {
	if err := fs.Remove(rec.Path); err != nil {
		logger.ErrorCtx(ctx, "Error deleting file", logger.Path(rec.Path), logger.Err(err))
		return err
	}
	rec.Content = ""
	rec.Transferred = 0

	logger.InfoCtx(ctx, "File deleted successfully.", logger.Path(rec.Path))
	return nil
}
