package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/outagedesk/outage-server/config"
	"github.com/outagedesk/outage-server/models"
	"github.com/outagedesk/outage-server/utils"
	"github.com/outagedesk/outage-server/workflow"
)

const (
	exportSheet       = "Jobs"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileNameFmt = "outage_jobs_%s.xlsx"
)

var exportHeader = []string{
	"ID", "Outage date", "วันที่ดับไฟ", "Equipment", "Days left", "Urgency",
	"Nakhon", "Memo no", "Document", "Social", "Notice", "Notice date",
	"Next action", "Closed", "Document URL",
}

// GET /api/jobs/export?state=open|closed|all
func ExportJobs(c *gin.Context) {
	q := config.DB.Model(&models.OutageJob{}).Order("outage_date ASC, created_at ASC")
	switch c.DefaultQuery("state", "all") {
	case "open":
		q = q.Where("is_closed = ?", false)
	case "closed":
		q = q.Where("is_closed = ?", true)
	case "all":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "state must be open, closed or all"})
		return
	}

	var jobs []models.OutageJob
	if err := q.Find(&jobs).Error; err != nil {
		deps.Log.Error("export jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database error"})
		return
	}

	f, err := buildJobsWorkbook(jobs, deps.Now())
	if err != nil {
		deps.Log.Error("build export workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not build export"})
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		deps.Log.Error("write export workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not build export"})
		return
	}

	name := fmt.Sprintf(exportFileNameFmt, deps.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func buildJobsWorkbook(jobs []models.OutageJob, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillJobsSheet(f, jobs, now); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillJobsSheet(f *excelize.File, jobs []models.OutageJob, now time.Time) error {
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for r, j := range jobs {
		row := exportRow(j, now)
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func exportRow(j models.OutageJob, now time.Time) []interface{} {
	in := workflow.StatusInputOf(&j)

	var daysLeft interface{} = ""
	color := ""
	if u, err := workflow.ClassifyUrgency(j.OutageDate, j.NakhonStatus, now); err == nil {
		daysLeft = u.DaysLeft
		color = string(u.Color)
	}
	closed := "no"
	if j.IsClosed {
		closed = "yes"
	}

	return []interface{}{
		j.ID,
		j.OutageDate,
		utils.FormatThaiDate(j.OutageDate),
		j.EquipmentCode,
		daysLeft,
		color,
		string(models.ParseNakhonStatus(j.NakhonStatus)),
		deref(j.NakhonMemoNo),
		string(models.ParseDocStatus(j.DocStatus)),
		string(models.ParseSocialStatus(j.SocialStatus)),
		string(models.ParseNoticeStatus(j.NoticeStatus)),
		deref(j.NoticeDate),
		workflow.NextAction(in),
		closed,
		deref(j.DocURL),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
