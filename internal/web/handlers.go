package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/minutes-flow/internal/export"
	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
)

// multipartSlack covers the multipart envelope around the file part
const multipartSlack = 1 << 20

type pageData struct {
	MaxSizeMB     int64
	Extensions    string
	Accept        string
	Result        *session.Result
	Error         *errorBody
	SummaryFailed bool
	Success       bool
}

type sessionResponse struct {
	ID         string     `json:"id,omitempty"`
	Filename   string     `json:"filename,omitempty"`
	Transcript string     `json:"transcript"`
	Summary    string     `json:"summary"`
	Bullets    []string   `json:"bullets"`
	Normalized bool       `json:"normalized"`
	DurationMS int64      `json:"duration_ms"`
	Error      *errorBody `json:"error,omitempty"`
}

type exportForm struct {
	Title      string `form:"title"`
	Filename   string `form:"filename"`
	Transcript string `form:"transcript" binding:"required"`
	Summary    string `form:"summary"`
}

func (s *implServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *implServer) index(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", s.newPage())
}

// uploadPage runs a session from the form and renders both tabs
func (s *implServer) uploadPage(c *gin.Context) {
	res, err := s.receiveUpload(c)

	data := s.newPage()
	data.Result = res
	status := http.StatusOK
	if err != nil {
		_ = c.Error(err)
		status = statusFor(err)
		data.Error = newErrorBody(err)
		data.SummaryFailed = session.FailedStage(err) == session.StageSummarize
	} else {
		data.Success = true
	}

	c.HTML(status, "page.html", data)
}

// createSession is the JSON variant of uploadPage
func (s *implServer) createSession(c *gin.Context) {
	res, err := s.receiveUpload(c)

	resp := sessionResponse{Bullets: []string{}}
	if res != nil {
		resp.ID = res.ID
		resp.Filename = res.Filename
		resp.Transcript = res.Transcript
		resp.Summary = res.Summary
		resp.Normalized = res.Normalized
		resp.DurationMS = res.Duration.Milliseconds()
		if res.Bullets != nil {
			resp.Bullets = res.Bullets
		}
	}

	status := http.StatusOK
	if err != nil {
		_ = c.Error(err)
		status = statusFor(err)
		resp.Error = newErrorBody(err)
	}

	c.JSON(status, resp)
}

// exportDocx renders a posted transcript and summary as a .docx download
func (s *implServer) exportDocx(c *gin.Context) {
	var form exportForm
	if err := c.ShouldBind(&form); err != nil {
		err = fmt.Errorf("%w: %v", failure.ErrInvalidArgument, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": newErrorBody(err)})
		return
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		title = "Meeting Minutes"
	}
	minutes := export.Minutes{
		Title:      title,
		Transcript: form.Transcript,
		Bullets:    summarizer.Bullets(form.Summary),
		CreatedAt:  time.Now(),
	}

	path, err := s.tempExportPath()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer os.Remove(path)

	if err := export.WriteDocx(path, minutes); err != nil {
		s.fail(c, fmt.Errorf("write docx: %w", err))
		return
	}

	c.FileAttachment(path, attachmentName(form.Filename))
}

// receiveUpload enforces the size ceiling, reads the "file" part and runs it through a session
func (s *implServer) receiveUpload(c *gin.Context) (*session.Result, error) {
	if limit := s.cfg.MaxUploadBytes(); limit > 0 {
		if c.Request.ContentLength > limit+multipartSlack {
			return nil, uploadError(fmt.Errorf("%w: %d bytes exceeds %d MB",
				failure.ErrUploadTooLarge, c.Request.ContentLength, s.cfg.Upload.MaxSizeMB))
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			err = fmt.Errorf("%w: body exceeds %d MB", failure.ErrUploadTooLarge, s.cfg.Upload.MaxSizeMB)
		case errors.Is(err, http.ErrMissingFile):
			err = errMissingFile
		default:
			err = fmt.Errorf("%w: read upload: %v", failure.ErrInvalidArgument, err)
		}
		return nil, uploadError(err)
	}

	if err := s.orchestrator.Validate(header.Filename, header.Size); err != nil {
		return nil, uploadError(err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, uploadError(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	return s.orchestrator.Process(c.Request.Context(), header.Filename, f)
}

func (s *implServer) tempExportPath() (string, error) {
	if err := os.MkdirAll(s.cfg.Paths.Temp, 0700); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	f, err := os.CreateTemp(s.cfg.Paths.Temp, "export-*.docx")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func (s *implServer) fail(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "Request failed: %v", err)
	c.JSON(statusFor(err), gin.H{"error": newErrorBody(err)})
}

func (s *implServer) newPage() pageData {
	exts := make([]string, 0, len(s.cfg.Upload.Extensions))
	for _, ext := range s.cfg.Upload.Extensions {
		exts = append(exts, "."+ext)
	}
	return pageData{
		MaxSizeMB:  s.cfg.Upload.MaxSizeMB,
		Extensions: strings.ToUpper(strings.Join(s.cfg.Upload.Extensions, ", ")),
		Accept:     strings.Join(exts, ","),
	}
}

func uploadError(err error) error {
	return &session.StageError{Stage: session.StageUpload, Err: err}
}

// attachmentName derives the download name from the recording name
func attachmentName(recording string) string {
	base := filepath.Base(strings.TrimSpace(recording))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "minutes.docx"
	}
	return base + "_minutes.docx"
}
