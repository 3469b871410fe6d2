package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"taxreport/internal/config"
	"taxreport/internal/export"
	"taxreport/internal/ingest"
	"taxreport/internal/model"
	"taxreport/internal/pipeline"
	"taxreport/internal/repository"
)

// ErrNoReport is returned when download/email is requested before any
// successful generation in this session.
var ErrNoReport = errors.New("no report has been generated yet")

// --- DTOs ---

type GenerateOptions struct {
	Seed       string
	SourceName string
	HeaderRow  int // zero-based header index; negative means "use configured default"
}

type ReportSummary struct {
	Seed         string `json:"seed"`
	SourceFile   string `json:"source_file"`
	RowCount     int    `json:"row_count"`
	OrderCount   int    `json:"order_count"`
	FirstInvoice string `json:"first_invoice"`
	LastInvoice  string `json:"last_invoice"`
	Filename     string `json:"filename"`
	GeneratedAt  string `json:"generated_at"`
}

type GenerateResult struct {
	Summary ReportSummary   `json:"summary"`
	Preview []model.TaxLine `json:"preview"`
}

type EmailReportRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type RawPreview struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total_rows"`
}

type ReportRunResponse struct {
	ID           string `json:"id"`
	Seed         string `json:"seed"`
	SourceFile   string `json:"source_file"`
	RowCount     int    `json:"row_count"`
	OrderCount   int    `json:"order_count"`
	FirstInvoice string `json:"first_invoice"`
	LastInvoice  string `json:"last_invoice"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// --- Interface ---

// Sender abstracts the outbound mail boundary so the service can be tested
// without a live SMTP server.
type Sender interface {
	Send(ctx context.Context, to, subject, body string, attachment []byte, filename string) error
}

type ReportService interface {
	Generate(ctx context.Context, src io.Reader, opts GenerateOptions) (*GenerateResult, error)
	Latest() (*GenerateResult, error)
	Download() (filename string, data []byte, err error)
	Email(ctx context.Context, req EmailReportRequest) error
	Preview(src io.Reader, filename string, headerRow int) (*RawPreview, error)
	ListRuns(ctx context.Context, page, limit int) ([]ReportRunResponse, int64, error)
}

// cachedReport is the last successful result, kept so the operator can
// re-download or re-send without recomputing. Write-once per run, read-only
// afterwards, replaced wholesale when the pipeline reruns.
type cachedReport struct {
	summary ReportSummary
	lines   []model.TaxLine
	xlsx    []byte
}

type reportService struct {
	cfg     config.Report
	runRepo repository.ReportRunRepository
	mail    Sender
	hub     interface{ Broadcast(event string, payload interface{}) } // optional websocket hub

	mu     sync.RWMutex
	cached *cachedReport
}

func NewReportService(
	cfg config.Report,
	runRepo repository.ReportRunRepository,
	mail Sender,
	hub interface{ Broadcast(event string, payload interface{}) },
) ReportService {
	return &reportService{
		cfg:     cfg,
		runRepo: runRepo,
		mail:    mail,
		hub:     hub,
	}
}

// --- Implementation ---

func (s *reportService) Generate(ctx context.Context, src io.Reader, opts GenerateOptions) (*GenerateResult, error) {
	headerRow := opts.HeaderRow
	if headerRow < 0 {
		headerRow = s.cfg.HeaderRow
	}

	table, err := ingest.Decode(opts.SourceName, src, headerRow)
	if err != nil {
		s.recordFailure(ctx, opts, err)
		return nil, fmt.Errorf("failed to decode %s: %w", opts.SourceName, err)
	}

	lines, err := table.Lines(s.cfg)
	if err != nil {
		s.recordFailure(ctx, opts, err)
		return nil, err
	}

	result, err := pipeline.Run(lines, opts.Seed, s.cfg)
	if err != nil {
		s.recordFailure(ctx, opts, err)
		return nil, err
	}

	data, err := export.XLSX(result.Lines)
	if err != nil {
		s.recordFailure(ctx, opts, err)
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	summary := ReportSummary{
		Seed:         opts.Seed,
		SourceFile:   opts.SourceName,
		RowCount:     len(result.Lines),
		OrderCount:   result.OrderCount,
		FirstInvoice: result.FirstInvoice,
		LastInvoice:  result.LastInvoice,
		Filename:     export.Filename(opts.Seed),
		GeneratedAt:  time.Now().Format(time.RFC3339),
	}

	run := &model.ReportRun{
		Seed:         opts.Seed,
		SourceFile:   opts.SourceName,
		RowCount:     summary.RowCount,
		OrderCount:   summary.OrderCount,
		FirstInvoice: summary.FirstInvoice,
		LastInvoice:  summary.LastInvoice,
		Status:       model.RunSuccess,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		// History is secondary to handing the operator their report.
		log.Println("WARNING: failed to record report run:", err)
	}

	s.mu.Lock()
	s.cached = &cachedReport{summary: summary, lines: result.Lines, xlsx: data}
	s.mu.Unlock()

	s.broadcast("report.completed", summary)

	return &GenerateResult{Summary: summary, Preview: s.previewOf(result.Lines)}, nil
}

func (s *reportService) Latest() (*GenerateResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cached == nil {
		return nil, ErrNoReport
	}
	return &GenerateResult{Summary: s.cached.summary, Preview: s.previewOf(s.cached.lines)}, nil
}

func (s *reportService) Download() (string, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cached == nil {
		return "", nil, ErrNoReport
	}
	return s.cached.summary.Filename, s.cached.xlsx, nil
}

func (s *reportService) Email(ctx context.Context, req EmailReportRequest) error {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached == nil {
		return ErrNoReport
	}

	subject := req.Subject
	if subject == "" {
		subject = fmt.Sprintf("Tax Report %s", cached.summary.Seed)
	}
	body := req.Body
	if body == "" {
		body = fmt.Sprintf("Attached: %s (%d lines, %d orders).",
			cached.summary.Filename, cached.summary.RowCount, cached.summary.OrderCount)
	}

	return s.mail.Send(ctx, req.To, subject, body, cached.xlsx, cached.summary.Filename)
}

func (s *reportService) Preview(src io.Reader, filename string, headerRow int) (*RawPreview, error) {
	if headerRow < 0 {
		headerRow = s.cfg.HeaderRow
	}

	table, err := ingest.Decode(filename, src, headerRow)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	rows := table.Rows
	const maxPreviewRows = 50
	if len(rows) > maxPreviewRows {
		rows = rows[:maxPreviewRows]
	}

	return &RawPreview{Headers: table.Headers, Rows: rows, Total: len(table.Rows)}, nil
}

func (s *reportService) ListRuns(ctx context.Context, page, limit int) ([]ReportRunResponse, int64, error) {
	runs, total, err := s.runRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch report runs: %w", err)
	}

	res := make([]ReportRunResponse, 0, len(runs))
	for _, r := range runs {
		res = append(res, ReportRunResponse{
			ID:           r.ID.String(),
			Seed:         r.Seed,
			SourceFile:   r.SourceFile,
			RowCount:     r.RowCount,
			OrderCount:   r.OrderCount,
			FirstInvoice: r.FirstInvoice,
			LastInvoice:  r.LastInvoice,
			Status:       r.Status,
			Error:        r.Error,
			CreatedAt:    r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}

// --- Helpers ---

func (s *reportService) previewOf(lines []model.TaxLine) []model.TaxLine {
	if len(lines) <= s.cfg.PreviewRows {
		return lines
	}
	return lines[:s.cfg.PreviewRows]
}

// recordFailure persists a FAILED run row. Best-effort: a broken history
// write must not mask the original pipeline error.
func (s *reportService) recordFailure(ctx context.Context, opts GenerateOptions, cause error) {
	run := &model.ReportRun{
		Seed:       opts.Seed,
		SourceFile: opts.SourceName,
		Status:     model.RunFailed,
		Error:      cause.Error(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		log.Println("WARNING: failed to record failed report run:", err)
	}
}

func (s *reportService) broadcast(event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(event, payload)
}
