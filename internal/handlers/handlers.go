package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"folio/internal/csvimport"
	"folio/internal/database"
	"folio/internal/models"
	"folio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Portfolio
	log *logrus.Logger
}

func NewHandler(svc *service.Portfolio, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	api.GET("/market-data", h.GetMarketData)
	api.GET("/market-data/:symbol", h.GetMarketDataBySymbol)
	api.GET("/market/movers", h.GetMovers)
	api.GET("/market/segments", h.GetSegments)
	api.GET("/news", h.GetNews)
	api.GET("/stocks/search", h.SearchStocks)

	api.GET("/portfolio", h.GetPortfolio)
	api.POST("/portfolio", h.CreateHolding)
	api.PUT("/portfolio/:id", h.UpdateHolding)
	api.DELETE("/portfolio/:id", h.DeleteHolding)
	api.POST("/portfolio/upload-csv", h.UploadCSV)
	api.POST("/portfolio/import", h.ImportCSV)
	api.GET("/portfolio/analysis", h.GetAnalysis)
	api.GET("/portfolio/allocation", h.GetAllocation)
	api.GET("/portfolio/performance", h.GetPerformance)
	api.GET("/portfolio/export", h.Export)
}

func message(msg string) gin.H { return gin.H{"message": msg} }

// fail maps err to a status code. Unexpected errors are logged and answered
// with fallback.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var (
		schemaErr *service.SchemaError
		parseErr  *csvimport.ParseError
	)
	switch {
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": []string{schemaErr.Error()}})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, message(parseErr.Error()))
	default:
		h.log.WithField(requestIDKey, RequestID(c)).Errorf("%s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, message(fallback))
	}
}

func (h *Handler) GetMarketData(c *gin.Context) {
	quotes, err := h.svc.Quotes(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch market data")
		return
	}
	c.JSON(http.StatusOK, quotes)
}

func (h *Handler) GetMarketDataBySymbol(c *gin.Context) {
	q, err := h.svc.Quote(c.Request.Context(), c.Param("symbol"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, message("Symbol not found"))
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to fetch market data")
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) GetMovers(c *gin.Context) {
	m, err := h.svc.Movers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch market movers")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) GetSegments(c *gin.Context) {
	s, err := h.svc.Segments(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch market segments")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) GetNews(c *gin.Context) {
	news, err := h.svc.News(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.fail(c, err, "Failed to fetch news")
		return
	}
	c.JSON(http.StatusOK, news)
}

func (h *Handler) SearchStocks(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, message("Query parameter required"))
		return
	}
	res, err := h.svc.SearchStocks(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "Failed to search stocks")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	items, err := h.svc.Holdings(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch portfolio")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateHolding(c *gin.Context) {
	var row csvimport.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		h.log.Warnf("invalid portfolio body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": []string{err.Error()}})
		return
	}
	item, err := h.svc.CreateHolding(c.Request.Context(), row)
	if err != nil {
		h.fail(c, err, "Failed to create portfolio item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func holdingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, message("Portfolio item not found"))
		return 0, false
	}
	return id, true
}

func (h *Handler) UpdateHolding(c *gin.Context) {
	id, ok := holdingID(c)
	if !ok {
		return
	}
	var patch models.HoldingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.log.Warnf("invalid update body for %d: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": []string{err.Error()}})
		return
	}
	item, err := h.svc.UpdateHolding(c.Request.Context(), id, patch)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, message("Portfolio item not found"))
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to update portfolio item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteHolding(c *gin.Context) {
	id, ok := holdingID(c)
	if !ok {
		return
	}
	deleted, err := h.svc.DeleteHolding(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to delete portfolio item")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, message("Portfolio item not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

type uploadRequest struct {
	CSVData json.RawMessage `json:"csvData"`
}

// UploadCSV takes rows already split out of a CSV file by the client. Each
// row is decoded on its own so one malformed row cannot sink the batch.
func (h *Handler) UploadCSV(c *gin.Context) {
	var req uploadRequest
	var rows []json.RawMessage
	if err := c.ShouldBindJSON(&req); err != nil || json.Unmarshal(req.CSVData, &rows) != nil || rows == nil {
		c.JSON(http.StatusBadRequest, message("Invalid CSV data format"))
		return
	}
	res := h.svc.Upload(c.Request.Context(), rows)
	h.log.WithField(requestIDKey, RequestID(c)).Infof("csv upload: %d stored, %d failed", res.Successful, res.Failed)
	c.JSON(http.StatusOK, res)
}

// maxImportBytes caps the raw CSV body accepted by ImportCSV.
const maxImportBytes = 4 << 20

// ImportCSV takes the raw CSV file as the request body.
func (h *Handler) ImportCSV(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	body, err := io.ReadAll(c.Request.Body)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusBadRequest, message(fmt.Sprintf("CSV upload must not exceed %d bytes", tooLarge.Limit)))
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to read CSV upload")
		return
	}
	res, err := h.svc.ImportCSV(c.Request.Context(), string(body))
	if err != nil {
		h.fail(c, err, "Failed to process CSV upload")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	a, err := h.svc.Analyze(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to analyze portfolio")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) GetAllocation(c *gin.Context) {
	alloc, err := h.svc.Allocation(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to calculate allocation")
		return
	}
	c.JSON(http.StatusOK, alloc)
}

func (h *Handler) GetPerformance(c *gin.Context) {
	perf, err := h.svc.Performance(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch performance")
		return
	}
	c.JSON(http.StatusOK, perf)
}

func (h *Handler) Export(c *gin.Context) {
	out, err := h.svc.Export(c.Request.Context(), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		h.fail(c, err, "Failed to export portfolio")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
