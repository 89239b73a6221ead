package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

func (ctl *Controller) handleListReports(c *fiber.Ctx) error {
	userID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	reports, err := ctl.reportService.GetUserReports(c.Context(), userID)
	if err != nil {
		ctl.logger.Error("Failed to list reports", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(reports)
}

type buildReportRequest struct {
	GroupID int64  `json:"group_id" validate:"required"`
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
	Format  string `json:"format" validate:"required,oneof=json csv xlsx"`
}

// handleBuildReport собирает сводку посещаемости группы за период.
// Формат json возвращает сводку телом ответа, csv и xlsx отдают файл.
func (ctl *Controller) handleBuildReport(c *fiber.Ctx) error {
	userID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	var req buildReportRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return badRequest(c, "invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return badRequest(c, "invalid to date, expected YYYY-MM-DD")
	}
	if !to.After(from) {
		return badRequest(c, "to must be after from")
	}

	report, err := ctl.reportService.BuildGroupReport(c.Context(), req.GroupID, from, to)
	if err != nil {
		ctl.logger.Error("Failed to build report", zap.Error(err))
		return internalError(c)
	}

	if req.Format == "json" {
		return c.JSON(report)
	}

	var payload []byte
	switch req.Format {
	case "csv":
		payload, err = ctl.reportService.ExportCSV(report)
	case "xlsx":
		payload, err = ctl.reportService.ExportXLSX(report)
	}
	if err != nil {
		ctl.logger.Error("Failed to export report", zap.Error(err))
		return internalError(c)
	}

	meta := &model.Report{
		Name:      fmt.Sprintf("Group %d attendance", req.GroupID),
		Type:      "group_attendance",
		Period:    req.From + " - " + req.To,
		Format:    req.Format,
		CreatedBy: userID,
	}
	if err := ctl.reportService.SaveMeta(c.Context(), meta); err != nil {
		ctl.logger.Error("Failed to save report meta", zap.Error(err))
		return internalError(c)
	}

	filename := fmt.Sprintf("attendance_%d_%s.%s", req.GroupID, req.From, req.Format)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	if req.Format == "csv" {
		c.Set(fiber.HeaderContentType, "text/csv")
	} else {
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}

	return c.Send(payload)
}
