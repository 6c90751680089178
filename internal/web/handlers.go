package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/labeler/internal/core"
	"github.com/JonMunkholm/labeler/internal/logging"
	"github.com/JonMunkholm/labeler/internal/web/templates"
	"github.com/google/uuid"
)

// multipartOverhead is allowed on top of the file size for form framing.
const multipartOverhead = 1 << 20

var errBadForm = errors.New("invalid form")

// handleIndex shows the upload page when nothing is loaded, otherwise the
// labeling page for the record under the cursor.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := s.service.View(ctx)
	if errors.Is(err, core.ErrNoDataset) {
		s.render(w, r, http.StatusOK, templates.UploadPage(templates.UploadPageData{
			MaxFileSize: s.cfg.Upload.MaxFileSize,
			Notice:      s.service.TakeNotice(),
		}))
		return
	}
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.renderLabel(w, r, http.StatusOK, view, nil)
}

// handleImport reads an uploaded workbook and starts a new session.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.importFailed(w, r, fmt.Errorf("%w: %w", errBadForm, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.importFailed(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.importFailed(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.service.Import(ctx, header.Filename, data)
	if err != nil {
		s.importFailed(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, result)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// importFailed re-renders the upload page with the error, or answers JSON.
// A loaded session, if any, is left as it was.
func (s *Server) importFailed(w http.ResponseWriter, r *http.Request, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		err = fmt.Errorf("%w: %w", core.ErrFileTooLarge, err)
	}
	status := statusFor(err)

	if wantsJSON(r) || s.service.Loaded() {
		s.respondError(w, r, err, status)
		return
	}

	logging.FromContext(r.Context()).Warn("import failed", "error", err, "status", status)
	msg := core.MapError(err)
	s.render(w, r, status, templates.UploadPage(templates.UploadPageData{
		MaxFileSize: s.cfg.Upload.MaxFileSize,
		Error:       &msg,
	}))
}

// handleRecordAction applies Prev, Skip, Save or Save & Next to the record
// the form was rendered for.
func (s *Server) handleRecordAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", errBadForm, err), http.StatusBadRequest)
		return
	}
	ref, err := parseViewRef(r, true)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	action, err := core.ParseAction(r.PostForm.Get("action"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", errBadForm, err), http.StatusBadRequest)
		return
	}

	current, err := s.service.View(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	checked, err := core.ParseTags(r.PostForm["tags"])
	if err != nil {
		current.Buffer.Severity = core.SeverityOrDefault(r.PostForm.Get("severity"))
		s.actionFailed(w, r, current, err)
		return
	}
	buf := core.EditBuffer{
		Tags:     core.MergeSelection(current.Buffer.Tags, checked),
		Severity: core.SeverityOrDefault(r.PostForm.Get("severity")),
	}

	view, out, err := s.service.Apply(ctx, ref, action, buf)
	if err != nil {
		s.actionFailed(w, r, view, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, newStateResponse(view, &out))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// actionFailed shows validation problems inline on the labeling page and
// routes every other error through respondError.
func (s *Server) actionFailed(w http.ResponseWriter, r *http.Request, view core.View, err error) {
	var ve *core.ValidationError
	inline := errors.As(err, &ve) || errors.Is(err, core.ErrPositionOutOfRange)
	if !inline || wantsJSON(r) || view.Total == 0 {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	logging.FromContext(r.Context()).Info("input rejected", "code", core.MapError(err).Code, "index", view.Index)
	msg := core.MapError(err)
	s.renderLabel(w, r, http.StatusUnprocessableEntity, view, &msg)
}

// handleJump moves to a one-based record position. Unsaved edits on the
// current record are discarded.
func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %w", errBadForm, err), http.StatusBadRequest)
		return
	}
	ref, err := parseViewRef(r, false)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	position, err := strconv.Atoi(r.PostForm.Get("position"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: position: %w", errBadForm, err), http.StatusBadRequest)
		return
	}

	view, err := s.service.Jump(ctx, ref, position)
	if err != nil {
		s.actionFailed(w, r, view, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, newStateResponse(view, nil))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReset drops the loaded dataset and returns to the upload page.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.service.Unload(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleExport downloads the current table as a workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Export(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(res.Data)
}

func (s *Server) renderLabel(w http.ResponseWriter, r *http.Request, status int, view core.View, errMsg *core.UserMessage) {
	s.render(w, r, status, templates.LabelPage(templates.LabelPageData{
		View:   view,
		Notice: s.service.TakeNotice(),
		Error:  errMsg,
	}))
}

// parseViewRef reads the dataset id (and record index) a form was rendered for.
func parseViewRef(r *http.Request, withIndex bool) (core.ViewRef, error) {
	id, err := uuid.Parse(r.PostForm.Get("dataset"))
	if err != nil {
		return core.ViewRef{}, fmt.Errorf("%w: dataset: %w", errBadForm, err)
	}
	ref := core.ViewRef{DatasetID: id}
	if withIndex {
		ref.Index, err = strconv.Atoi(r.PostForm.Get("index"))
		if err != nil {
			return core.ViewRef{}, fmt.Errorf("%w: index: %w", errBadForm, err)
		}
	}
	return ref, nil
}
