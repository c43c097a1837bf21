package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"pharmacy/internal/export"
	"pharmacy/internal/middleware"
	"pharmacy/internal/service"
	"pharmacy/pkg/pagination"
	"pharmacy/pkg/response"

	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	saleService   service.SaleService
	reportService service.ReportService
	loc           *time.Location
}

// NewSaleHandler reads date filters and writes export timestamps in loc.
func NewSaleHandler(saleService service.SaleService, reportService service.ReportService, loc *time.Location) *SaleHandler {
	return &SaleHandler{saleService: saleService, reportService: reportService, loc: loc}
}

func (h *SaleHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	api.POST("/sales", g.Staff, h.RecordSale)
	api.GET("/sales", g.Staff, h.ListSales)
	api.GET("/sales/top-medicines", g.Staff, h.TopMedicines)
	api.GET("/sales/export", g.Admin, h.ExportSales)
	api.GET("/sales/:id", g.Staff, h.GetSale)
}

func saleQuery(c *gin.Context, loc *time.Location) (service.SaleListQuery, error) {
	start, end, err := dateRange(c, loc)
	if err != nil {
		return service.SaleListQuery{}, err
	}
	p := pagination.Parse(c)
	return service.SaleListQuery{
		StartDate: start,
		EndDate:   end,
		Search:    c.Query("search"),
		Cashier:   c.Query("cashier"),
		Page:      p.Page,
		Limit:     p.Limit,
	}, nil
}

// RecordSale sells one product and decrements its stock
// @Summary      Record sale
// @Description  Validates stock, stores the sale and decrements the medicine quantity atomically
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordSaleRequest  true  "Sale"
// @Success      201      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Router       /api/sales [post]
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req service.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	sale, err := h.saleService.RecordSale(c.Request.Context(), c.GetString(middleware.CtxUserEmail), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, sale)
}

// ListSales
// @Summary      List sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Param        startDate  query     string  false  "YYYY-MM-DD"
// @Param        endDate    query     string  false  "YYYY-MM-DD, inclusive"
// @Param        search     query     string  false  "Product or invoice number"
// @Param        cashier    query     string  false  "Cashier email"
// @Success      200        {object}  response.Response{data=object}
// @Failure      400        {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	q, err := saleQuery(c, h.loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sales, total, err := h.saleService.ListSales(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, pagination.NewPage(sales, total, pagination.Params{Page: q.Page, Limit: q.Limit}))
}

// GetSale
// @Summary      Get sale
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=model.Sale}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, sale)
}

// TopMedicines
// @Summary      Best selling medicines
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Number of entries (default 5)"
// @Success      200    {object}  response.Response{data=[]model.ProductRanking}
// @Router       /api/sales/top-medicines [get]
func (h *SaleHandler) TopMedicines(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
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

// ExportSales downloads sales as CSV or XLSX
// @Summary      Export sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      text/csv
// @Param        format     query  string  false  "csv (default) or xlsx"
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD, inclusive"
// @Success      200
// @Failure      400  {object}  response.Response
// @Router       /api/sales/export [get]
func (h *SaleHandler) ExportSales(c *gin.Context) {
	q, err := saleQuery(c, h.loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sales, err := h.saleService.ExportSales(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	writeTable(c, "sales", export.SalesTable(sales, h.loc))
}

// writeTable renders the table in the requested format as an attachment
func writeTable(c *gin.Context, name string, table export.Table) {
	format := c.DefaultQuery("format", "csv")
	filename := name + "_" + time.Now().Format("20060102_150405")

	var buf bytes.Buffer
	var contentType string
	switch format {
	case "csv":
		if err := export.WriteCSV(&buf, table); err != nil {
			respondError(c, err)
			return
		}
		contentType = "text/csv; charset=utf-8"
		filename += ".csv"
	case "xlsx":
		if err := export.WriteXLSX(&buf, table); err != nil {
			respondError(c, err)
			return
		}
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename += ".xlsx"
	default:
		badRequest(c, "format must be csv or xlsx")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
