package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/labeler/internal/config"
	"github.com/JonMunkholm/labeler/internal/logging"
	"github.com/google/uuid"
)

// ErrNoDataset is returned by operations that need an imported table.
var ErrNoDataset = errors.New("no dataset loaded")

// ErrStaleView is returned when a submitted form belongs to another dataset
// or another record than the one under the cursor.
var ErrStaleView = errors.New("stale view: form does not match current record")

// Upload errors.
var (
	ErrNoFile       = errors.New("no file provided")
	ErrFileTooLarge = errors.New("file too large")
)

// Session is one imported dataset and its editor. A new import replaces it.
type Session struct {
	ID       uuid.UUID
	FileName string
	Sheet    string
	LoadedAt time.Time
	Editor   *RecordEditor
}

// NoticeKind selects how a notice is styled.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot message shown on the next render.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// ViewRef identifies the record a submitted form was rendered for.
type ViewRef struct {
	DatasetID uuid.UUID
	Index     int
}

// View is the render projection of the session after a transition.
type View struct {
	DatasetID uuid.UUID  `json:"dataset_id"`
	FileName  string     `json:"file_name"`
	Index     int        `json:"index"`
	Position  int        `json:"position"`
	Total     int        `json:"total"`
	Labeled   int        `json:"labeled"`
	Record    Record     `json:"-"`
	Buffer    EditBuffer `json:"buffer"`
}

// Progress is the fraction of the table reached by the cursor.
func (v View) Progress() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Position) / float64(v.Total)
}

// ImportResult summarizes a successful import.
type ImportResult struct {
	DatasetID   uuid.UUID `json:"dataset_id"`
	FileName    string    `json:"file_name"`
	Rows        int       `json:"rows"`
	ResumeIndex int       `json:"resume_index"`
	Added       []string  `json:"added_columns,omitempty"`
}

// ExportResult is a serialized snapshot ready for download.
type ExportResult struct {
	FileName    string
	ContentType string
	Rows        int
	Data        []byte
}

// Service owns the single labeling session. All methods are safe for
// concurrent use; each runs to completion under one lock so transitions,
// imports and exports never interleave.
type Service struct {
	cfg     *config.Config
	limiter *ImportLimiter
	read    func([]byte) (*Imported, error)

	mu      sync.Mutex
	session *Session
	notice  *Notice
}

// NewService creates a Service with no dataset loaded.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		limiter: NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
		read:    Import,
	}
}

// Import replaces the current session with one built from data. On failure
// the previous session, if any, is kept.
func (s *Service) Import(ctx context.Context, fileName string, data []byte) (*ImportResult, error) {
	logger := logging.WithFields(ctx, "file", fileName, "bytes", len(data))

	if limit := s.cfg.Upload.MaxFileSize; limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), limit)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	imp, err := s.parse(ctx, data)
	if err != nil {
		logger.Warn("import rejected", "error", err)
		return nil, err
	}

	sess := &Session{
		ID:       uuid.New(),
		FileName: fileName,
		Sheet:    imp.Sheet,
		LoadedAt: time.Now(),
		Editor:   NewRecordEditor(imp.Table, imp.ResumeIndex),
	}

	s.mu.Lock()
	s.session = sess
	if imp.ResumeIndex > 0 {
		s.notice = &Notice{Kind: NoticeSuccess, Text: fmt.Sprintf("Welcome back! Resuming at record %d.", imp.ResumeIndex+1)}
	} else {
		s.notice = nil
	}
	s.mu.Unlock()

	logger.Info("dataset imported",
		"dataset_id", sess.ID,
		"sheet", imp.Sheet,
		"rows", imp.Table.Len(),
		"added_columns", imp.Added,
		"resume_index", imp.ResumeIndex,
	)

	return &ImportResult{
		DatasetID:   sess.ID,
		FileName:    fileName,
		Rows:        imp.Table.Len(),
		ResumeIndex: imp.ResumeIndex,
		Added:       imp.Added,
	}, nil
}

// Loaded reports whether a dataset is loaded.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Unload drops the current session so a new file can be imported.
func (s *Service) Unload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		logging.FromContext(ctx).Info("dataset unloaded", "dataset_id", s.session.ID)
	}
	s.session = nil
	s.notice = nil
}

// View returns the current render projection.
func (s *Service) View(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return View{}, ErrNoDataset
	}
	return s.viewLocked(), nil
}

// Apply runs an editor transition for the record identified by ref. The
// returned View reflects the state after the transition; on a validation
// failure it still carries the rejected draft so it can be redisplayed.
func (s *Service) Apply(ctx context.Context, ref ViewRef, action Action, buf EditBuffer) (View, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRefLocked(ref, true); err != nil {
		return View{}, Outcome{}, err
	}

	logger := logging.WithFields(ctx, "dataset_id", s.session.ID, "action", action)
	out, err := s.session.Editor.Apply(action, buf)
	if err != nil {
		logger.Warn("transition rejected", "index", out.From, "error", err)
		return s.viewLocked(), out, err
	}

	if out.Notice != "" {
		s.notice = &Notice{Kind: NoticeSuccess, Text: out.Notice}
	}
	logger.Debug("transition applied", "from", out.From, "to", out.To, "committed", out.Committed)
	return s.viewLocked(), out, nil
}

// Jump moves to a one-based position, discarding the current draft.
func (s *Service) Jump(ctx context.Context, ref ViewRef, position int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRefLocked(ref, false); err != nil {
		return View{}, err
	}
	out, err := s.session.Editor.Jump(position)
	if err != nil {
		return s.viewLocked(), err
	}
	logging.FromContext(ctx).Debug("jumped", "dataset_id", s.session.ID, "from", out.From, "to", out.To)
	return s.viewLocked(), nil
}

// Export serializes the current table.
func (s *Service) Export(ctx context.Context) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrNoDataset
	}
	table := s.session.Editor.Table()
	data, err := Export(table, s.cfg.Export.SheetName)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	logging.FromContext(ctx).Info("dataset exported",
		"dataset_id", s.session.ID,
		"rows", table.Len(),
		"labeled", table.LabeledCount(),
		"bytes", len(data),
	)

	return &ExportResult{
		FileName:    s.cfg.Export.FileName,
		ContentType: XLSXContentType,
		Rows:        table.Len(),
		Data:        data,
	}, nil
}

// parse reads a workbook while holding an import slot.
func (s *Service) parse(ctx context.Context, data []byte) (*Imported, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()
	return s.read(data)
}

// Drain waits for in-flight imports to finish parsing.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// TagCounts returns per-tag usage across the current table.
func (s *Service) TagCounts() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoDataset
	}
	return s.session.Editor.Table().TagCounts(), nil
}

// SetNotice queues a notice for the next render.
func (s *Service) SetNotice(kind NoticeKind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = &Notice{Kind: kind, Text: text}
}

// TakeNotice returns and clears the pending notice.
func (s *Service) TakeNotice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = nil
	return n
}

func (s *Service) checkRefLocked(ref ViewRef, matchIndex bool) error {
	if s.session == nil {
		return ErrNoDataset
	}
	if ref.DatasetID != s.session.ID {
		return ErrStaleView
	}
	if matchIndex && ref.Index != s.session.Editor.Index() {
		return ErrStaleView
	}
	return nil
}

func (s *Service) viewLocked() View {
	ed := s.session.Editor
	return View{
		DatasetID: s.session.ID,
		FileName:  s.session.FileName,
		Index:     ed.Index(),
		Position:  ed.Position(),
		Total:     ed.Len(),
		Labeled:   ed.Table().LabeledCount(),
		Record:    ed.Current(),
		Buffer:    ed.Buffer(),
	}
}
