package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tabclass/adapters/excel"
	"tabclass/app"
	"tabclass/domain/classification"
	"tabclass/domain/core"
	"tabclass/domain/dataset"
	"tabclass/internal"
	"tabclass/internal/errors"
	"tabclass/internal/evaluation"
	"tabclass/internal/report"
	"tabclass/internal/threshold"
)

// uploadField is the multipart field holding the table file
const uploadField = "dataset"

// Handler serves the JSON surface consumed by the chart layer
type Handler struct {
	preparation *app.PreparationService
	evaluation  *app.EvaluationService
	loader      *excel.Loader
	maxUpload   int64
	logger      *internal.Logger
}

// NewHandler creates the HTTP handler set
func NewHandler(preparation *app.PreparationService, evaluation *app.EvaluationService, loader *excel.Loader, maxUploadMB int, logger *internal.Logger) *Handler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	return &Handler{
		preparation: preparation,
		evaluation:  evaluation,
		loader:      loader,
		maxUpload:   int64(maxUploadMB) << 20,
		logger:      logger.WithComponent("API"),
	}
}

// ScoredRowsRequest carries validation or test rows scored by a model
type ScoredRowsRequest struct {
	Rows      []classification.ScoredRow `json:"rows" binding:"required"`
	Threshold *float64                   `json:"threshold,omitempty"`
}

// HandleHealth reports liveness
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleCharacterize classifies an uploaded table
func (h *Handler) HandleCharacterize(c *gin.Context) {
	table, name, err := h.readUpload(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.preparation.Characterize(c.Request.Context(), app.PrepareRequest{Path: name, Table: table})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandlePrepare splits, balances and weights an uploaded table. Form fields:
// algorithm, validation, labels (comma separated), feature_count.
func (h *Handler) HandlePrepare(c *gin.Context) {
	table, name, err := h.readUpload(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := app.PrepareRequest{
		Path:      name,
		Table:     table,
		Algorithm: c.PostForm("algorithm"),
	}
	if v := c.PostForm("validation"); v != "" {
		if req.Validation, err = strconv.ParseBool(v); err != nil {
			h.respondError(c, errors.InvalidInput("validation must be true or false"))
			return
		}
	}
	if v := c.PostForm("feature_count"); v != "" {
		if req.FeatureCount, err = strconv.Atoi(v); err != nil {
			h.respondError(c, errors.InvalidInput("feature_count must be an integer"))
			return
		}
	}
	if v := c.PostForm("labels"); v != "" {
		req.LabelsToKeep = strings.Split(v, ",")
	}

	prepared, err := h.preparation.Prepare(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prepared)
}

// HandleThreshold searches the F1-optimal decision threshold
func (h *Handler) HandleThreshold(c *gin.Context) {
	var req ScoredRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.InvalidInput("invalid request data"))
		return
	}

	result, err := h.evaluation.Tune(c.Request.Context(), req.Rows)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleEvaluate computes binary metrics at the given threshold, 0.5 when absent
func (h *Handler) HandleEvaluate(c *gin.Context) {
	var req ScoredRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.InvalidInput("invalid request data"))
		return
	}

	cutoff := threshold.DefaultThreshold
	if req.Threshold != nil {
		cutoff = *req.Threshold
	}
	metrics, err := evaluation.Binary(req.Rows, cutoff)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// HandleRecordReport tunes and evaluates externally scored partitions and
// stores the resulting report
func (h *Handler) HandleRecordReport(c *gin.Context) {
	var run app.ScoredRun
	if err := c.ShouldBindJSON(&run); err != nil {
		h.respondError(c, errors.InvalidInput("invalid request data"))
		return
	}

	r, err := h.evaluation.Record(c.Request.Context(), run)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// HandleListReports lists stored reports, newest first
func (h *Handler) HandleListReports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		h.respondError(c, errors.InvalidInput("limit must be a non-negative integer"))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		h.respondError(c, errors.InvalidInput("offset must be a non-negative integer"))
		return
	}

	reports, err := h.evaluation.Reports(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if reports == nil {
		reports = []*classification.PipelineReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

// HandleGetReport returns one report as JSON, Markdown or HTML (format query)
func (h *Handler) HandleGetReport(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		h.respondError(c, errors.InvalidInput("invalid report id"))
		return
	}

	r, err := h.evaluation.Report(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "markdown", "md":
		md, err := report.Markdown(r)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	case "html":
		page, err := report.HTML(r)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	default:
		c.JSON(http.StatusOK, r)
	}
}

// readUpload parses the uploaded CSV or XLSX file into a table
func (h *Handler) readUpload(c *gin.Context) (*dataset.Table, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		return nil, "", errors.InvalidInput(fmt.Sprintf("no file uploaded or upload exceeds %dMB: %v", h.maxUpload>>20, err))
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
	default:
		h.logger.Warn("rejected upload %s", name)
		return nil, "", errors.InvalidInput("only Excel (.xlsx) and CSV (.csv) files are allowed")
	}

	table, err := h.loader.LoadReader(c.Request.Context(), file, excel.DetectFileType(name))
	if err != nil {
		return nil, "", err
	}
	return table, name, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	err = errors.FromDomain(err)
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		h.logger.Debug("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
