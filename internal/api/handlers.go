package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/adilg123/rle-huffman-lzw/internal/compression"
	"github.com/adilg123/rle-huffman-lzw/internal/config"
	"github.com/adilg123/rle-huffman-lzw/internal/history"
	"github.com/adilg123/rle-huffman-lzw/internal/report"
	"github.com/adilg123/rle-huffman-lzw/internal/source"
	"github.com/gin-gonic/gin"
)

// CompressRequest represents the compression request payload
type CompressRequest struct {
	Algorithm string `form:"algorithm" binding:"required"`
}

// DecompressRequest represents the decompression request payload
type DecompressRequest struct {
	Algorithm string `form:"algorithm" binding:"required"`
}

// CompareRequest selects the algorithms and input conversion for a comparison.
type CompareRequest struct {
	Algorithms []string `form:"algorithms" json:"algorithms"`
	Baselines  *bool    `form:"baselines" json:"baselines"`
	Grayscale  bool     `form:"grayscale" json:"grayscale"`
	Delta      bool     `form:"delta" json:"delta"`
	// Resize scales images to this percentage first.
	Resize int `form:"resize" json:"resize"`
}

func (req CompareRequest) sourceOptions() source.Options {
	return source.Options{
		Grayscale:     req.Grayscale,
		Delta:         req.Delta,
		ResizePercent: req.Resize,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CompareResponse is the result of POST /compare.
type CompareResponse struct {
	Filename    string               `json:"filename"`
	FileType    source.FileType      `json:"file_type"`
	SymbolCount int                  `json:"symbol_count"`
	Results     []compression.Result `json:"results"`
	Best        string               `json:"best,omitempty"`
}

// Handlers serves the HTTP API on top of a configuration and a history store.
type Handlers struct {
	config  *config.Config
	history history.Store
}

func NewHandlers(cfg *config.Config, store history.Store) *Handlers {
	return &Handlers{config: cfg, history: store}
}

func respondError(c *gin.Context, code int, title, message string) {
	c.JSON(code, ErrorResponse{
		Error:   title,
		Code:    code,
		Message: message,
	})
}

// multipartOverhead is the room left for boundaries, headers and form fields
// on top of the file size limit.
const multipartOverhead = 64 << 10

// limitBody stops reading the request body once it passes the upload limit,
// so oversized uploads fail before the form is parsed.
func (h *Handlers) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxFileSize+multipartOverhead)
	c.Next()
}

func (h *Handlers) respondTooLarge(c *gin.Context) {
	respondError(c, http.StatusBadRequest, "File too large",
		fmt.Sprintf("Maximum file size is %d bytes", h.config.MaxFileSize))
}

// bindForm binds the request form into req. On failure it has already written
// the error response.
func (h *Handlers) bindForm(c *gin.Context, req interface{}) bool {
	err := c.ShouldBind(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.respondTooLarge(c)
		return false
	}
	respondError(c, http.StatusBadRequest, "Invalid request", err.Error())
	return false
}

// readUpload reads the multipart "file" field, enforcing the size limit. On
// failure it has already written the error response.
func (h *Handlers) readUpload(c *gin.Context) ([]byte, *multipart.FileHeader, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondTooLarge(c)
			return nil, nil, false
		}
		respondError(c, http.StatusBadRequest, "File upload error", "No file provided or file upload failed")
		return nil, nil, false
	}
	defer file.Close()

	if header.Size > h.config.MaxFileSize {
		h.respondTooLarge(c)
		return nil, nil, false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "File read error", "Failed to read uploaded file")
		return nil, nil, false
	}
	return content, header, true
}

func validateAlgorithm(c *gin.Context, algorithm string) bool {
	if compression.IsValidAlgorithm(algorithm) {
		return true
	}
	respondError(c, http.StatusBadRequest, "Invalid algorithm",
		fmt.Sprintf("Supported algorithms: %v", compression.GetSupportedAlgorithms()))
	return false
}

// HandleCompress handles file compression requests
func (h *Handlers) HandleCompress(c *gin.Context) {
	var req CompressRequest
	if !h.bindForm(c, &req) {
		return
	}
	if !validateAlgorithm(c, req.Algorithm) {
		return
	}

	fileContent, header, ok := h.readUpload(c)
	if !ok {
		return
	}

	compressedData, stats, err := compression.Compress(fileContent, compression.Options{
		Algorithm: req.Algorithm,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Compression failed", err.Error())
		return
	}

	id, err := h.history.Save(history.Record{
		Filename:         header.Filename,
		FileType:         string(source.DetectFileType(header.Filename)),
		Algorithm:        req.Algorithm,
		OriginalSize:     stats.OriginalSize,
		CompressedSize:   stats.ProcessedSize,
		CompressionRatio: stats.CompressionRatio,
		SpaceSavings:     stats.SpaceSavings,
		Duration:         stats.Duration.Seconds(),
		IsCorrect:        true,
	})
	if err != nil {
		c.Error(err)
	} else {
		c.Header("X-History-Id", id)
	}

	factory, _ := compression.Factory(req.Algorithm)
	filename := fmt.Sprintf("%s_compressed.%s", getBaseFilename(header.Filename), factory.Extension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("X-Original-Size", strconv.Itoa(stats.OriginalSize))
	c.Header("X-Compressed-Size", strconv.Itoa(stats.ProcessedSize))
	c.Header("X-Compression-Ratio", strconv.FormatFloat(stats.CompressionRatio, 'f', 4, 64))

	c.Data(http.StatusOK, "application/octet-stream", compressedData)
}

// HandleDecompress handles file decompression requests
func (h *Handlers) HandleDecompress(c *gin.Context) {
	var req DecompressRequest
	if !h.bindForm(c, &req) {
		return
	}
	if !validateAlgorithm(c, req.Algorithm) {
		return
	}

	fileContent, header, ok := h.readUpload(c)
	if !ok {
		return
	}

	decompressedData, stats, err := compression.Decompress(fileContent, compression.Options{
		Algorithm: req.Algorithm,
	})
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Decompression failed", err.Error())
		return
	}

	factory, _ := compression.Factory(req.Algorithm)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", restoredFilename(header.Filename, factory.Extension())))
	c.Header("X-Original-Size", strconv.Itoa(stats.OriginalSize))
	c.Header("X-Compressed-Size", strconv.Itoa(stats.ProcessedSize))

	c.Data(http.StatusOK, "application/octet-stream", decompressedData)
}

// HandleCompare runs every requested algorithm on the uploaded file.
func (h *Handlers) HandleCompare(c *gin.Context) {
	var req CompareRequest
	if !h.bindForm(c, &req) {
		return
	}
	for _, algorithm := range req.Algorithms {
		if !validateAlgorithm(c, algorithm) {
			return
		}
	}

	fileContent, header, ok := h.readUpload(c)
	if !ok {
		return
	}

	data, err := source.LoadBytes(header.Filename, fileContent, req.sourceOptions())
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, source.ErrUnsupportedFileType) {
			code = http.StatusUnsupportedMediaType
		}
		respondError(c, code, "Unsupported input", err.Error())
		return
	}

	// Per-algorithm failures are reported inside the rows.
	results, _ := compression.Compare(c.Request.Context(), data.Symbols, h.compareOptions(req, nil))
	h.record(c, header.Filename, data.FileType, results)

	response := CompareResponse{
		Filename:    header.Filename,
		FileType:    data.FileType,
		SymbolCount: len(data.Symbols),
		Results:     results,
	}
	if best, ok := report.Best(results); ok {
		response.Best = best.Algorithm
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handlers) compareOptions(req CompareRequest, progress func(compression.Result)) compression.CompareOptions {
	baselines := h.config.CompareBaselines
	if req.Baselines != nil {
		baselines = *req.Baselines
	}
	return compression.CompareOptions{
		Algorithms: req.Algorithms,
		Baselines:  baselines,
		Progress:   progress,
	}
}

// record saves one history entry per verified codec row. Store failures are
// attached to c and do not fail the request.
func (h *Handlers) record(c *gin.Context, filename string, fileType source.FileType, results []compression.Result) {
	for _, r := range results {
		if r.Baseline || !r.IsCorrect {
			continue
		}
		_, err := h.history.Save(history.Record{
			Filename:         filename,
			FileType:         string(fileType),
			Algorithm:        r.Algorithm,
			OriginalSize:     r.OriginalSize,
			CompressedSize:   r.CompressedSize,
			CompressionRatio: r.CompressionRatio,
			SpaceSavings:     r.SpaceSavingPercent,
			Duration:         r.TotalTime,
			IsCorrect:        true,
		})
		if err != nil {
			c.Error(err)
		}
	}
}

func (h *Handlers) historyFilter(c *gin.Context) history.Filter {
	filter := history.Filter{
		Limit:     h.config.HistoryLimit,
		Algorithm: c.Query("algorithm"),
		FileType:  c.Query("file_type"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	return filter
}

// HandleHistory lists history records, newest first.
func (h *Handlers) HandleHistory(c *gin.Context) {
	records, err := h.history.List(h.historyFilter(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "History unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"history": records,
	})
}

// HandleHistoryCSV exports the same listing as CSV.
func (h *Handlers) HandleHistoryCSV(c *gin.Context) {
	records, err := h.history.List(h.historyFilter(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "History unavailable", err.Error())
		return
	}
	c.Header("Content-Disposition", "attachment; filename=history.csv")
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer, records); err != nil {
		c.Error(err)
	}
}

// HandleHistoryPDF renders the same listing, with store statistics, as a PDF
// report.
func (h *Handlers) HandleHistoryPDF(c *gin.Context) {
	records, err := h.history.List(h.historyFilter(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "History unavailable", err.Error())
		return
	}
	stats, err := h.history.Statistics()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "History unavailable", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := report.WriteHistoryPDF(&buf, records, stats); err != nil {
		respondError(c, http.StatusInternalServerError, "Report failed", err.Error())
		return
	}
	c.Header("Content-Disposition", "attachment; filename=history.pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handlers) HandleHistoryGet(c *gin.Context) {
	record, err := h.history.Get(c.Param("id"))
	if errors.Is(err, history.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Not found", err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "History unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handlers) HandleHistoryDelete(c *gin.Context) {
	err := h.history.Delete(c.Param("id"))
	if errors.Is(err, history.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Not found", err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "History unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handlers) HandleStatistics(c *gin.Context) {
	stats, err := h.history.Statistics()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "History unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HandleInfo provides information about supported algorithms
func (h *Handlers) HandleInfo(c *gin.Context) {
	descriptions := make(map[string]string)
	for _, algorithm := range compression.GetSupportedAlgorithms() {
		factory, _ := compression.Factory(algorithm)
		descriptions[algorithm] = factory.Description()
	}

	info := map[string]interface{}{
		"service": "RLE / Huffman / LZW compression service",
		"version": "1.0.0",
		"algorithms": map[string]interface{}{
			"supported":    compression.GetSupportedAlgorithms(),
			"descriptions": descriptions,
			"baselines":    compression.GetBaselines(),
		},
		"limits": map[string]interface{}{
			"max_file_size": fmt.Sprintf("%d bytes (%s)", h.config.MaxFileSize, report.FormatSize(int(h.config.MaxFileSize))),
		},
		"endpoints": map[string]interface{}{
			"compress":   "POST /api/v1/compress - Upload file for compression",
			"decompress": "POST /api/v1/decompress - Upload file for decompression",
			"compare":    "POST /api/v1/compare - Compare all algorithms on one file",
			"ws_compare": "GET /api/v1/ws/compare - Stream a comparison over a websocket",
			"history":    "GET /api/v1/history - Compression history (also .csv and .pdf)",
			"statistics": "GET /api/v1/statistics - Aggregated history statistics",
			"info":       "GET /info - Get service information",
			"health":     "GET /health - Health check",
		},
	}

	c.JSON(http.StatusOK, info)
}

// HandleHealth provides a simple health check endpoint
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "compression-service",
	})
}

// Helper functions
func getBaseFilename(filename string) string {
	if filename == "" {
		return "file"
	}

	// Remove extension
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[:i]
		}
	}
	return filename
}

// restoredFilename undoes the naming of HandleCompress where it can:
// "notes_compressed.rle" becomes "notes", anything else gets a suffix.
func restoredFilename(filename, extension string) string {
	base := strings.TrimSuffix(filename, "."+extension)
	if base != filename && base != "" {
		return strings.TrimSuffix(base, "_compressed")
	}
	return getBaseFilename(filename) + "_decompressed"
}
