package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sheetchart/backend/internal/models"
	"github.com/sheetchart/backend/internal/service"
	"github.com/vmihailenco/msgpack/v5"
)

// ExcelHandlerImpl implements the ExcelHandler interface
type ExcelHandlerImpl struct {
	ops Operations
}

// NewExcelHandler creates a new spreadsheet handler
func NewExcelHandler(ops Operations) ExcelHandler {
	return &ExcelHandlerImpl{ops: ops}
}

// HandleExcel runs the operation named by the "action" field of the body.
func (h *ExcelHandlerImpl) HandleExcel(c echo.Context) error {
	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	res, err := h.ops.Dispatch(c.Request().Context(), req)
	if err != nil {
		return FromError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// HandleParse returns a preview of the selected sheet.
func (h *ExcelHandlerImpl) HandleParse(c echo.Context) error {
	res, err := h.parse(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// HandleParseMsgpack returns the preview in MessagePack format.
func (h *ExcelHandlerImpl) HandleParseMsgpack(c echo.Context) error {
	res, err := h.parse(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(map[string]interface{}{
		"columns":    res.Columns,
		"data":       res.Data,
		"total_rows": res.TotalRows,
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleChart renders a chart and returns it as base64 PNG.
func (h *ExcelHandlerImpl) HandleChart(c echo.Context) error {
	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	res, err := h.ops.GenerateChart(c.Request().Context(), service.ChartRequest{
		FileData:  req.FileData,
		Sheet:     req.SheetName,
		ChartType: req.ChartType,
		XColumn:   req.XColumn,
		YColumn:   req.YColumn,
	})
	if err != nil {
		return FromError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// HandleStatistics describes one column.
func (h *ExcelHandlerImpl) HandleStatistics(c echo.Context) error {
	req, err := bindRequest(c)
	if err != nil {
		return err
	}

	res, err := h.ops.Statistics(c.Request().Context(), service.StatisticsRequest{
		FileData: req.FileData,
		Sheet:    req.SheetName,
		Column:   req.Column,
	})
	if err != nil {
		return FromError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ExcelHandlerImpl) parse(c echo.Context) (*models.PreviewResult, error) {
	req, err := bindRequest(c)
	if err != nil {
		return nil, err
	}

	res, err := h.ops.Parse(c.Request().Context(), service.ParseRequest{
		FileData: req.FileData,
		Sheet:    req.SheetName,
	})
	if err != nil {
		return nil, FromError(err)
	}
	return res, nil
}

// bindRequest decodes the JSON body. A body sent without a Content-Type is read as JSON.
func bindRequest(c echo.Context) (models.Request, error) {
	var req models.Request
	if c.Request().Header.Get(echo.HeaderContentType) == "" {
		c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if err := c.Bind(&req); err != nil {
		return req, NewBadRequestError("invalid request body", err)
	}
	return req, nil
}
