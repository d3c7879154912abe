package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/report"
	"github.com/fekuna/omnipos-ledger/internal/transport/rest"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	uc       report.UseCase
	loc      *time.Location
	currency string
	logger   logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, loc *time.Location, currency string, log logger.ZapLogger) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		uc:       uc,
		loc:      loc,
		currency: currency,
		logger:   log,
	}
}

func (h *ReportHandler) Register(r gin.IRouter) {
	g := r.Group("/reports")
	g.GET("/cash", h.CashSummary)
	g.GET("/inventory", h.Inventory)
}

// CashSummary serves GET /reports/cash?period=day|month&date=YYYY-MM-DD.
func (h *ReportHandler) CashSummary(c *gin.Context) {
	period, err := model.ParsePeriod(c.DefaultQuery("period", "day"), c.Query("date"), h.loc)
	if err != nil {
		rest.Abort(c, apperror.Validation("%v", err))
		return
	}

	summary, err := h.uc.CashSummary(c.Request.Context(), period)
	if err != nil {
		h.logger.Error("cash summary failed", zap.Error(err))
		rest.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currency": h.currency,
		"summary":  summary,
	})
}

// Inventory serves GET /reports/inventory.
func (h *ReportHandler) Inventory(c *gin.Context) {
	v, err := h.uc.InventoryValuation(c.Request.Context())
	if err != nil {
		h.logger.Error("inventory valuation failed", zap.Error(err))
		rest.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currency":  h.currency,
		"valuation": v,
	})
}
