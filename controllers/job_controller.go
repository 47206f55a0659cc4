package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outagedesk/outage-server/config"
	"github.com/outagedesk/outage-server/middleware"
	"github.com/outagedesk/outage-server/models"
	"github.com/outagedesk/outage-server/utils"
	"github.com/outagedesk/outage-server/workflow"
)

// JobView is a job plus everything the dashboard derives from it.
type JobView struct {
	models.OutageJob
	Urgency         *workflow.Urgency     `json:"urgency"`
	Step            workflow.Step         `json:"step"`
	NextAction      string                `json:"next_action"`
	NextButton      workflow.ButtonAction `json:"next_button"`
	NextButtonLabel string                `json:"next_button_label"`
}

func newJobView(job models.OutageJob) JobView {
	in := workflow.StatusInputOf(&job)
	v := JobView{
		OutageJob:  job,
		Step:       workflow.DashboardStep(in),
		NextAction: workflow.NextAction(in),
		NextButton: workflow.NextButtonAction(in),
	}
	v.NextButtonLabel = v.NextButton.Label()
	if u, err := workflow.ClassifyUrgency(job.OutageDate, job.NakhonStatus, deps.Now()); err == nil {
		v.Urgency = &u
	}
	return v
}

func currentJob(c *gin.Context) models.OutageJob {
	return c.MustGet(middleware.CtxJob).(models.OutageJob)
}

func validDate(s string) bool {
	_, err := utils.ParseLocalDate(s, deps.Now().Location())
	return err == nil && len(strings.TrimSpace(s)) == len("2006-01-02")
}

// GET /api/jobs?state=open|closed|all
func ListJobs(c *gin.Context) {
	q := config.DB.Model(&models.OutageJob{}).Order("outage_date ASC, created_at ASC")
	switch c.DefaultQuery("state", "open") {
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
		deps.Log.Error("list jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database error"})
		return
	}

	views := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, newJobView(j))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": views, "total": len(views)})
}

type createJobReq struct {
	OutageDate    string `json:"outage_date" binding:"required"`
	EquipmentCode string `json:"equipment_code" binding:"required"`
}

// POST /api/jobs
func CreateJob(c *gin.Context) {
	var req createJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}
	if !validDate(req.OutageDate) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "outage_date must be YYYY-MM-DD"})
		return
	}
	code := strings.TrimSpace(req.EquipmentCode)
	if code == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "equipment_code is required"})
		return
	}

	job := models.OutageJob{
		ID:            uuid.New().String(),
		OutageDate:    strings.TrimSpace(req.OutageDate),
		EquipmentCode: code,
		NakhonStatus:  models.Ptr(models.NakhonPending),
		DocStatus:     models.Ptr(models.DocPending),
		SocialStatus:  models.Ptr(models.SocialDraft),
		NoticeStatus:  models.Ptr(models.NoticeNone),
	}
	if err := config.DB.Create(&job).Error; err != nil {
		deps.Log.Error("create job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create job"})
		return
	}
	deps.Log.Info("job created", zap.String("job_id", job.ID), zap.String("by", middleware.CurrentUser(c)))
	c.JSON(http.StatusCreated, newJobView(job))
}

// GET /api/jobs/:id
func GetJob(c *gin.Context) {
	c.JSON(http.StatusOK, newJobView(currentJob(c)))
}

type updateJobReq struct {
	OutageDate    *string `json:"outage_date"`
	EquipmentCode *string `json:"equipment_code"`
}

// PUT /api/jobs/:id
func UpdateJob(c *gin.Context) {
	job := currentJob(c)

	var req updateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.OutageDate != nil {
		if !validDate(*req.OutageDate) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "outage_date must be YYYY-MM-DD"})
			return
		}
		updates["outage_date"] = strings.TrimSpace(*req.OutageDate)
	}
	if req.EquipmentCode != nil {
		code := strings.TrimSpace(*req.EquipmentCode)
		if code == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "equipment_code cannot be empty"})
			return
		}
		updates["equipment_code"] = code
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nothing to update"})
		return
	}

	if err := config.DB.Model(&job).Updates(updates).Error; err != nil {
		deps.Log.Error("update job", zap.String("job_id", job.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update job"})
		return
	}
	respondReloaded(c, job.ID)
}

// DELETE /api/jobs/:id
func DeleteJob(c *gin.Context) {
	job := currentJob(c)
	if err := config.DB.Delete(&models.OutageJob{}, "id = ?", job.ID).Error; err != nil {
		deps.Log.Error("delete job", zap.String("job_id", job.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not delete job"})
		return
	}
	deps.Log.Info("job deleted", zap.String("job_id", job.ID), zap.String("by", middleware.CurrentUser(c)))
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "id": job.ID})
}

func respondReloaded(c *gin.Context, id string) {
	var fresh models.OutageJob
	if err := config.DB.First(&fresh, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database error"})
		return
	}
	c.JSON(http.StatusOK, newJobView(fresh))
}
