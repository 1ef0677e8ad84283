package report

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/model"
)

// Writer owns the single Markdown output file. Full rewrites go through a
// temp file + rename; incremental per-dealer writes append.
type Writer struct {
	path     string
	log      *zap.Logger
	template *TemplateBuilder
}

// NewWriter creates a writer for the output path, creating parent
// directories as needed.
func NewWriter(path, timezone string, log *zap.Logger) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "report: create output dir %s", dir)
		}
	}
	return &Writer{
		path:     path,
		log:      log,
		template: NewTemplateBuilder(timezone),
	}, nil
}

// Template exposes the block builder for callers that need timestamps.
func (w *Writer) Template() *TemplateBuilder {
	return w.template
}

// WriteAll renders every dealer and atomically replaces the output file,
// header included.
func (w *Writer) WriteAll(dealers []*model.DealerData) error {
	var b strings.Builder
	b.WriteString(w.template.RunHeader())
	for _, d := range dealers {
		b.WriteString(w.template.DealerBlock(d))
		b.WriteString("\n\n")
	}

	if err := w.atomicWrite(b.String()); err != nil {
		return err
	}
	w.log.Info("wrote report", zap.String("path", w.path), zap.Int("dealers", len(dealers)))
	return nil
}

// AppendDealer appends one rendered block, writing the run header first when
// the file does not exist yet.
func (w *Writer) AppendDealer(dealer *model.DealerData) error {
	var b strings.Builder
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		b.WriteString(w.template.RunHeader())
	}
	b.WriteString(w.template.DealerBlock(dealer))
	b.WriteString("\n\n")

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "report: open %s for append", w.path)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(b.String()); err != nil {
		return eris.Wrapf(err, "report: append to %s", w.path)
	}
	w.log.Debug("appended dealer block", zap.String("website", dealer.Website))
	return nil
}

func (w *Writer) atomicWrite(content string) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".tmp_*.md")
	if err != nil {
		return eris.Wrapf(err, "report: create temp file in %s", dir)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "report: write temp file %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "report: close temp file %s", tmpPath)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "report: rename %s to %s", tmpPath, w.path)
	}
	return nil
}
