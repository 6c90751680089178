// Package templates renders the labeler pages. The components are generated
// from the .templ files in this directory; run `templ generate` after editing
// them.
package templates

import (
	"fmt"

	"github.com/JonMunkholm/labeler/internal/core"
)

// UploadPageData is the state of the landing page.
type UploadPageData struct {
	MaxFileSize int64
	Notice      *core.Notice
	Error       *core.UserMessage
}

// LabelPageData is everything the labeling page shows.
type LabelPageData struct {
	View   core.View
	Notice *core.Notice
	Error  *core.UserMessage
}

func pageTitle(v core.View) string {
	return fmt.Sprintf("Record %d of %d", v.Position, v.Total)
}

func noticeClass(kind core.NoticeKind) string {
	return "alert alert-" + string(kind)
}

func tagID(i int) string {
	return fmt.Sprintf("tag-%d", i)
}

func severityID(score int) string {
	return fmt.Sprintf("sev-%d", score)
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%d MiB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%d KiB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
