package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/labeler/internal/config"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	return NewService(cfg)
}

func sampleWorkbook(t *testing.T) []byte {
	t.Helper()
	return buildWorkbook(t, [][]any{
		{"Description", "Date", "Location", "danger_1", "danger_2", "Severity_Score"},
		{"Fell off ladder", "2024-03-01", "Warehouse", "Chutes de hauteur", "", 3},
		{"Loud press", "2024-03-02", "Plant", "", "", ""},
		{"Forklift", "2024-03-03", "Dock", "", "", ""},
	})
}

func TestService_ImportSetsResumeNotice(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	res, err := s.Import(ctx, "incidents.xlsx", sampleWorkbook(t))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Rows != 3 || res.ResumeIndex != 1 {
		t.Errorf("ImportResult = %+v", res)
	}

	n := s.TakeNotice()
	if n == nil || n.Text != "Welcome back! Resuming at record 2." {
		t.Errorf("notice = %+v", n)
	}
	if s.TakeNotice() != nil {
		t.Error("notice not cleared after TakeNotice")
	}

	view, err := s.View(ctx)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if view.Index != 1 || view.Total != 3 || view.Labeled != 1 || view.DatasetID != res.DatasetID {
		t.Errorf("View = %+v", view)
	}
}

func TestService_ImportFreshWorkbookHasNoNotice(t *testing.T) {
	s := newTestService(t)
	data := buildWorkbook(t, [][]any{{"Description"}, {"a"}})
	if _, err := s.Import(context.Background(), "a.xlsx", data); err != nil {
		t.Fatal(err)
	}
	if n := s.TakeNotice(); n != nil {
		t.Errorf("notice = %+v, want nil", n)
	}
}

func TestService_ImportFailureKeepsSession(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	first, err := s.Import(ctx, "incidents.xlsx", sampleWorkbook(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr func(error) bool
	}{
		{"not xlsx", []byte("nope"), func(err error) bool { var ie *ImportError; return errors.As(err, &ie) }},
		{"no rows", buildWorkbook(t, [][]any{{"Description"}}), func(err error) bool { return errors.Is(err, ErrEmptyTable) }},
		{"empty upload", nil, func(err error) bool { return errors.Is(err, ErrNoFile) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Import(ctx, "bad.xlsx", tt.data); !tt.wantErr(err) {
				t.Errorf("Import() error = %v", err)
			}
			view, err := s.View(ctx)
			if err != nil || view.DatasetID != first.DatasetID {
				t.Errorf("session replaced after failed import: %v %v", view.DatasetID, err)
			}
		})
	}
}

func TestService_ImportPanicReleasesSlot(t *testing.T) {
	s := newTestService(t)
	s.read = func([]byte) (*Imported, error) { panic("corrupt workbook") }

	for range s.limiter.Available() + 1 {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatal("Import() did not panic")
				}
			}()
			_, _ = s.Import(context.Background(), "bad.xlsx", []byte("PK"))
		}()
	}
	if got := s.limiter.Active(); got != 0 {
		t.Errorf("Active() = %d after panics, want 0", got)
	}

	s.read = Import
	if _, err := s.Import(context.Background(), "ok.xlsx", sampleWorkbook(t)); err != nil {
		t.Errorf("Import() after panics error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Drain(ctx); err != nil {
		t.Errorf("Drain() error = %v", err)
	}
}

func TestService_ImportTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Upload.MaxFileSize = 10
	s := NewService(cfg)

	_, err := s.Import(context.Background(), "big.xlsx", make([]byte, 11))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Import() error = %v, want ErrFileTooLarge", err)
	}
}

func TestService_Apply(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	res, err := s.Import(ctx, "incidents.xlsx", sampleWorkbook(t))
	if err != nil {
		t.Fatal(err)
	}
	s.TakeNotice()

	ref := ViewRef{DatasetID: res.DatasetID, Index: 1}
	view, out, err := s.Apply(ctx, ref, ActionSave, EditBuffer{Tags: []string{"Bruit"}, Severity: 2})
	if err != nil {
		t.Fatalf("Apply(save) error = %v", err)
	}
	if !out.Committed || view.Index != 1 || view.Labeled != 2 {
		t.Errorf("view = %+v, outcome = %+v", view, out)
	}
	if n := s.TakeNotice(); n == nil || n.Text != NoticeSaved {
		t.Errorf("notice = %+v, want %q", n, NoticeSaved)
	}

	view, _, err = s.Apply(ctx, ref, ActionSaveNext, EditBuffer{Severity: 2})
	if !errors.Is(err, ErrTooFewTags) {
		t.Fatalf("Apply(save_next, no tags) error = %v", err)
	}
	if view.Index != 1 || len(view.Buffer.Tags) != 0 {
		t.Errorf("rejected view = %+v", view)
	}

	view, _, err = s.Apply(ctx, ref, ActionSkip, EditBuffer{})
	if err != nil || view.Index != 2 {
		t.Errorf("Apply(skip) index = %d, err = %v", view.Index, err)
	}
}

func TestService_StaleView(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	res, err := s.Import(ctx, "incidents.xlsx", sampleWorkbook(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ref  ViewRef
	}{
		{"other record", ViewRef{DatasetID: res.DatasetID, Index: 0}},
		{"other dataset", ViewRef{DatasetID: uuid.New(), Index: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Apply(ctx, tt.ref, ActionSaveNext, EditBuffer{Tags: []string{"Bruit"}, Severity: 1})
			if !errors.Is(err, ErrStaleView) {
				t.Errorf("Apply() error = %v, want ErrStaleView", err)
			}
		})
	}

	if _, err := s.Jump(ctx, ViewRef{DatasetID: uuid.New()}, 1); !errors.Is(err, ErrStaleView) {
		t.Errorf("Jump() error = %v, want ErrStaleView", err)
	}
	view, err := s.Jump(ctx, ViewRef{DatasetID: res.DatasetID}, 3)
	if err != nil || view.Position != 3 {
		t.Errorf("Jump(3) position = %d, err = %v", view.Position, err)
	}
	if _, err := s.Jump(ctx, ViewRef{DatasetID: res.DatasetID}, 4); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Jump(4) error = %v, want ErrPositionOutOfRange", err)
	}
}

func TestService_NoDataset(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.View(ctx); !errors.Is(err, ErrNoDataset) {
		t.Errorf("View() error = %v", err)
	}
	if _, _, err := s.Apply(ctx, ViewRef{}, ActionSkip, EditBuffer{}); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Apply() error = %v", err)
	}
	if _, err := s.Export(ctx); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Export() error = %v", err)
	}
	if _, err := s.TagCounts(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("TagCounts() error = %v", err)
	}
}

func TestService_ExportAndUnload(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	if _, err := s.Import(ctx, "incidents.xlsx", sampleWorkbook(t)); err != nil {
		t.Fatal(err)
	}

	res, err := s.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.FileName != "labeled_data.xlsx" || res.ContentType != XLSXContentType || res.Rows != 3 {
		t.Errorf("ExportResult = %+v", res)
	}
	table, resume, err := Load(res.Data)
	if err != nil {
		t.Fatalf("Load(export) error = %v", err)
	}
	if resume != 1 || table.Len() != 3 {
		t.Errorf("reloaded resume = %d, len = %d", resume, table.Len())
	}
	rec := mustRecord(t, table, 0)
	if rec.Severity != "3" || !strings.EqualFold(rec.Danger1, "Chutes de hauteur") {
		t.Errorf("record 0 labels = %q %q", rec.Danger1, rec.Severity)
	}

	counts, err := s.TagCounts()
	if err != nil || counts["Chutes de hauteur"] != 1 {
		t.Errorf("TagCounts() = %v, %v", counts, err)
	}

	s.Unload(ctx)
	if s.Loaded() {
		t.Error("Loaded() = true after Unload")
	}
}

func TestService_ImportReplacesSession(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	first, err := s.Import(ctx, "a.xlsx", sampleWorkbook(t))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Import(ctx, "b.xlsx", sampleWorkbook(t))
	if err != nil {
		t.Fatal(err)
	}
	if first.DatasetID == second.DatasetID {
		t.Error("re-import kept the dataset id")
	}
	if _, _, err := s.Apply(ctx, ViewRef{DatasetID: first.DatasetID, Index: 1}, ActionSkip, EditBuffer{}); !errors.Is(err, ErrStaleView) {
		t.Errorf("form from replaced dataset: error = %v", err)
	}
	if got := mustView(t, s).FileName; got != "b.xlsx" {
		t.Errorf("FileName = %q, want b.xlsx", got)
	}
}

func mustView(t *testing.T, s *Service) View {
	t.Helper()
	v, err := s.View(context.Background())
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	return v
}
