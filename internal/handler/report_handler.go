package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"pharmacy/internal/model"
	"pharmacy/internal/service"
	"pharmacy/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	reports := api.Group("/reports", g.Admin)
	{
		reports.GET("/monthly-sales", h.periodTotals(h.reportService.MonthlySales))
		reports.GET("/yearly-sales", h.periodTotals(h.reportService.YearlySales))
		reports.GET("/monthly-purchases", h.periodTotals(h.reportService.MonthlyPurchases))
		reports.GET("/yearly-purchases", h.periodTotals(h.reportService.YearlyPurchases))
		reports.GET("/summary", h.GetSummary)
		reports.GET("/top-products", h.GetTopProducts)
		reports.GET("/sales-by-category", h.GetSalesByCategory)
	}
}

// periodTotals serves the four monthly/yearly report endpoints.
// @Summary      Period totals
// @Description  Sales or purchase totals grouped by month or year, oldest first
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.PeriodTotal}
// @Router       /api/reports/monthly-sales [get]
// @Router       /api/reports/yearly-sales [get]
// @Router       /api/reports/monthly-purchases [get]
// @Router       /api/reports/yearly-purchases [get]
func (h *ReportHandler) periodTotals(load func(ctx context.Context) ([]model.PeriodTotal, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := load(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		response.OK(c, http.StatusOK, totals)
	}
}

// GetSummary
// @Summary      Dashboard summary
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Summary}
// @Router       /api/reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, summary)
}

// GetTopProducts
// @Summary      Top products
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Number of entries (default 10)"
// @Success      200    {object}  response.Response{data=[]model.ProductRanking}
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) GetTopProducts(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		badRequest(c, "limit must be a number")
		return
	}

	rankings, err := h.reportService.TopProducts(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, rankings)
}

// GetSalesByCategory
// @Summary      Sales by category
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.CategoryTotal}
// @Router       /api/reports/sales-by-category [get]
func (h *ReportHandler) GetSalesByCategory(c *gin.Context) {
	totals, err := h.reportService.SalesByCategory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, totals)
}
