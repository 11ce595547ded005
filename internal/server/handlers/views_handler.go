package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/service/backup"
	"github.com/mamadbah2/ganaderia/internal/service/finance"
	"github.com/mamadbah2/ganaderia/internal/service/herd"
)

// Dashboard returns metrics, alerts, ranking and the finance summary.
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.views.Generate(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Finance returns the summary, the expense ledger and the sales list.
func (h *Handler) Finance(c *gin.Context) {
	snap, err := h.views.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": finance.Summarize(snap.CheeseSales, snap.MilkPurchases, snap.MilkTransports, snap.FixedCosts),
		"ledger":  finance.Ledger(snap.MilkPurchases, snap.MilkTransports, snap.FixedCosts),
		"sales":   orEmpty(snap.CheeseSales),
	})
}

// CreateCheeseSale records a cheese sale.
func (h *Handler) CreateCheeseSale(c *gin.Context) {
	var sale models.CheeseSale
	if !h.bind(c, &sale) {
		return
	}
	saved, err := h.herd.RecordCheeseSale(c.Request.Context(), sale)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// CreateMilkPurchase records a milk purchase.
func (h *Handler) CreateMilkPurchase(c *gin.Context) {
	var p models.MilkPurchase
	if !h.bind(c, &p) {
		return
	}
	saved, err := h.herd.RecordMilkPurchase(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// CreateMilkTransport records a transport cost.
func (h *Handler) CreateMilkTransport(c *gin.Context) {
	var t models.MilkTransport
	if !h.bind(c, &t) {
		return
	}
	saved, err := h.herd.RecordMilkTransport(c.Request.Context(), t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// CreateFixedCost records a monthly expense.
func (h *Handler) CreateFixedCost(c *gin.Context) {
	var fc models.FixedCost
	if !h.bind(c, &fc) {
		return
	}
	saved, err := h.herd.RecordFixedCost(c.Request.Context(), fc)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ExportBackup downloads every collection as one JSON document.
func (h *Handler) ExportBackup(c *gin.Context) {
	doc, err := h.backups.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	filename := fmt.Sprintf("ganaderia_backup_%s.json", doc.ExportedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}

// ImportBackup merges a JSON document into the store.
func (h *Handler) ImportBackup(c *gin.Context) {
	var doc backup.Document
	if !h.bind(c, &doc) {
		return
	}
	h.importDocument(c, doc)
}

// ImportWorkbook converts an uploaded .xlsx (form field "file") and merges it.
func (h *Handler) ImportWorkbook(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, fmt.Errorf("%w: workbook file is required", herd.ErrInvalidArguments))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	doc, err := h.importer.FromWorkbook(file)
	if err != nil {
		h.logger.Warn("workbook rejected", zap.String("filename", header.Filename), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "the file is not a readable workbook"})
		return
	}
	h.importDocument(c, doc)
}

func (h *Handler) importDocument(c *gin.Context, doc backup.Document) {
	result, err := h.backups.Import(c.Request.Context(), doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": result, "total": result.Total()})
}
