// Package api exposes reconciliation over HTTP: upload a roster and a
// statement, get the report back as JSON, and download the xlsx rendering
// of any report kept by the current process.
//
// Reports live in process memory only. Every run is a pure function of its
// uploads and the analysis date, so there is nothing durable to keep.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmarkov/garage-rent-tracker/internal/adapters/report"
	"github.com/dmarkov/garage-rent-tracker/internal/adapters/roster"
	"github.com/dmarkov/garage-rent-tracker/internal/adapters/statement"
	"github.com/dmarkov/garage-rent-tracker/internal/application/reconcile"
	"github.com/dmarkov/garage-rent-tracker/internal/config"
	"github.com/dmarkov/garage-rent-tracker/internal/i18n"
)

// Server is the HTTP API server.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	rosters    *roster.Reader
	statements *statement.Registry

	mu      sync.RWMutex
	reports map[string]*storedReport
}

type storedReport struct {
	report   *reconcile.Report
	language string
}

// NewServer creates an API server.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		logger:     logger,
		rosters:    roster.NewReader(logger),
		statements: statement.NewRegistry(logger),
		reports:    make(map[string]*storedReport),
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Content-Type"},
	}))

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.POST("/reconcile", s.reconcile)
	api.GET("/reports", s.listReports)
	api.GET("/reports/:id", s.getReport)
	api.GET("/reports/:id/export", s.exportReport)
	return r
}

// Run starts the server on the configured port.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("api listening", slog.String("addr", addr))
	return s.Router().Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// reconcile accepts multipart uploads "roster" and "statement" plus optional
// form fields analysis_date (YYYY-MM-DD), target_month (YYYY-MM), language,
// and format (statement format identifier).
func (s *Server) reconcile(c *gin.Context) {
	rosterFile, err := c.FormFile("roster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing roster upload"})
		return
	}
	statementFile, err := c.FormFile("statement")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing statement upload"})
		return
	}

	opts, err := parseRunOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tmpDir, err := os.MkdirTemp("", "rent-tracker-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temp dir: " + err.Error()})
		return
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	rosterPath := filepath.Join(tmpDir, filepath.Base(rosterFile.Filename))
	statementPath := filepath.Join(tmpDir, filepath.Base(statementFile.Filename))
	if err := c.SaveUploadedFile(rosterFile, rosterPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save roster: " + err.Error()})
		return
	}
	if err := c.SaveUploadedFile(statementFile, statementPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save statement: " + err.Error()})
		return
	}

	units, err := s.rosters.Read(rosterPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parser, err := s.resolveParser(c.PostForm("format"), statementPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parsed, err := parser.Parse(statementPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	language := c.DefaultPostForm("language", s.cfg.Localization.Language)
	msgs, err := i18n.New(language)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load messages: " + err.Error()})
		return
	}

	engine := reconcile.New(s.cfg.Reconcile.MatcherConfig(), msgs, s.logger)
	rep, err := engine.Run(reconcile.Input{
		Units:         units,
		Transactions:  parsed.Transactions,
		RawText:       parsed.RawText,
		RosterName:    rosterFile.Filename,
		StatementName: statementFile.Filename,
	}, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if isInputError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.reports[id] = &storedReport{report: rep, language: msgs.Language()}
	s.mu.Unlock()

	c.JSON(http.StatusOK, toReportResponse(id, rep))
}

func (s *Server) listReports(c *gin.Context) {
	s.mu.RLock()
	items := make([]ReportListItem, 0, len(s.reports))
	for id, stored := range s.reports {
		items = append(items, ReportListItem{
			ID:           id,
			GeneratedAt:  stored.report.GeneratedAt.Format(time.RFC3339),
			AnalysisDate: stored.report.AnalysisDate.Format(dtoDateFormat),
			Summary:      toSummaryResponse(stored.report.Summary),
		})
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].GeneratedAt > items[j].GeneratedAt })
	c.JSON(http.StatusOK, gin.H{"reports": items})
}

func (s *Server) getReport(c *gin.Context) {
	id := c.Param("id")
	s.mu.RLock()
	stored, ok := s.reports[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.JSON(http.StatusOK, toReportResponse(id, stored.report))
}

func (s *Server) exportReport(c *gin.Context) {
	id := c.Param("id")
	s.mu.RLock()
	stored, ok := s.reports[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	msgs, err := i18n.New(stored.language)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	writer := report.NewExcelWriter(msgs, s.logger)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.xlsx", stored.report.AnalysisDate.Format(dtoDateFormat)))
	if err := writer.WriteTo(stored.report, c.Writer); err != nil {
		s.logger.Error("report export failed", slog.String("report_id", id), slog.String("error", err.Error()))
	}
}

func (s *Server) resolveParser(format, path string) (statement.Parser, error) {
	if format != "" {
		return s.statements.Get(format)
	}
	return s.statements.Detect(path)
}

func parseRunOptions(c *gin.Context) (reconcile.Options, error) {
	var opts reconcile.Options
	if v := c.PostForm("analysis_date"); v != "" {
		d, err := time.Parse(dtoDateFormat, v)
		if err != nil {
			return opts, fmt.Errorf("invalid analysis_date %q, want YYYY-MM-DD", v)
		}
		opts.AnalysisDate = d
	}
	if v := c.PostForm("target_month"); v != "" {
		m, err := time.Parse(dtoMonthFormat, v)
		if err != nil {
			return opts, fmt.Errorf("invalid target_month %q, want YYYY-MM", v)
		}
		opts.TargetMonth = m
	}
	return opts, nil
}

func isInputError(err error) bool {
	return errors.Is(err, reconcile.ErrNoUnits) ||
		errors.Is(err, reconcile.ErrAnalysisDateRequired) ||
		errors.Is(err, reconcile.ErrTargetMonthRequired)
}
