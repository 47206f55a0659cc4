package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/outagedesk/outage-server/config"
	"github.com/outagedesk/outage-server/middleware"
	"github.com/outagedesk/outage-server/models"
	"github.com/outagedesk/outage-server/workflow"
)

type nakhonReq struct {
	Status       string `json:"status" binding:"required"`
	NotifiedDate string `json:"notified_date"`
	MemoNo       string `json:"memo_no"`
}

// POST /api/jobs/:id/nakhon
func NotifyNakhon(c *gin.Context) {
	job := currentJob(c)

	var req nakhonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	switch models.NakhonStatus(strings.ToUpper(strings.TrimSpace(req.Status))) {
	case models.NakhonNotified:
		memo := strings.TrimSpace(req.MemoNo)
		if !validDate(req.NotifiedDate) || memo == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "notified_date (YYYY-MM-DD) and memo_no are required"})
			return
		}
		updates["nakhon_status"] = string(models.NakhonNotified)
		updates["nakhon_notified_date"] = strings.TrimSpace(req.NotifiedDate)
		updates["nakhon_memo_no"] = memo
	case models.NakhonNotRequired:
		updates["nakhon_status"] = string(models.NakhonNotRequired)
		updates["nakhon_notified_date"] = nil
		updates["nakhon_memo_no"] = nil
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "status must be NOTIFIED or NOT_REQUIRED"})
		return
	}

	if err := config.DB.Model(&job).Updates(updates).Error; err != nil {
		deps.Log.Error("update nakhon", zap.String("job_id", job.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update job"})
		return
	}
	recordTransition("nakhon")
	respondReloaded(c, job.ID)
}

// GET /api/jobs/:id/social/preview
func PreviewSocial(c *gin.Context) {
	job := currentJob(c)
	c.JSON(http.StatusOK, gin.H{
		"text":          workflow.PreviewSocialPost(workflow.SocialInputOf(&job)),
		"social_status": models.ParseSocialStatus(job.SocialStatus),
	})
}

func requireGeneratedDoc(c *gin.Context, job models.OutageJob) bool {
	if models.ParseDocStatus(job.DocStatus) != models.DocGenerated {
		c.JSON(http.StatusConflict, gin.H{"message": "document has not been generated"})
		return false
	}
	return true
}

// POST /api/jobs/:id/social/submit
func SubmitSocial(c *gin.Context) {
	job := currentJob(c)
	if !requireGeneratedDoc(c, job) {
		return
	}
	if models.ParseSocialStatus(job.SocialStatus) != models.SocialDraft {
		c.JSON(http.StatusConflict, gin.H{"message": "post already submitted"})
		return
	}
	if err := config.DB.Model(&job).Update("social_status", string(models.SocialPendingApproval)).Error; err != nil {
		deps.Log.Error("submit social", zap.String("job_id", job.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update job"})
		return
	}
	recordTransition("social_submit")
	respondReloaded(c, job.ID)
}

// POST /api/jobs/:id/social/post
//
// The first call freezes the text; later calls return it unchanged.
func PostSocial(c *gin.Context) {
	job := currentJob(c)
	if !requireGeneratedDoc(c, job) {
		return
	}

	text := workflow.PreviewSocialPost(workflow.SocialInputOf(&job))
	now := deps.Now()
	res := config.DB.Model(&models.OutageJob{}).
		Where("id = ? AND (social_status IS NULL OR social_status <> ?)", job.ID, string(models.SocialPosted)).
		Updates(map[string]interface{}{
			"social_status":    string(models.SocialPosted),
			"social_post_text": text,
			"social_posted_at": now,
		})
	if res.Error != nil {
		deps.Log.Error("post social", zap.String("job_id", job.ID), zap.Error(res.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update job"})
		return
	}

	var fresh models.OutageJob
	if err := config.DB.First(&fresh, "id = ?", job.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database error"})
		return
	}
	if res.RowsAffected > 0 {
		recordTransition("social_post")
		deps.Log.Info("social posted", zap.String("job_id", job.ID), zap.String("by", middleware.CurrentUser(c)))
	}

	stored := ""
	if fresh.SocialPostText != nil {
		stored = *fresh.SocialPostText
	}
	c.JSON(http.StatusOK, gin.H{
		"social_post_text": stored,
		"social_posted_at": fresh.SocialPostedAt,
		"already_posted":   res.RowsAffected == 0,
		"job":              newJobView(fresh),
	})
}

type noticeReq struct {
	NoticeDate string `json:"notice_date" binding:"required"`
	NoticeBy   string `json:"notice_by" binding:"required"`
	MyMapsURL  string `json:"mymaps_url"`
}

// POST /api/jobs/:id/notice
func ScheduleNotice(c *gin.Context) {
	job := currentJob(c)
	if models.ParseSocialStatus(job.SocialStatus) != models.SocialPosted {
		c.JSON(http.StatusConflict, gin.H{"message": "social post must be published first"})
		return
	}

	var req noticeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}
	by := strings.TrimSpace(req.NoticeBy)
	if !validDate(req.NoticeDate) || by == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "notice_date (YYYY-MM-DD) and notice_by are required"})
		return
	}

	updates := map[string]interface{}{
		"notice_status":       string(models.NoticeScheduled),
		"notice_date":         strings.TrimSpace(req.NoticeDate),
		"notice_by":           by,
		"notice_scheduled_at": deps.Now(),
		"mymaps_url":          nil,
	}
	if u := strings.TrimSpace(req.MyMapsURL); u != "" {
		updates["mymaps_url"] = u
	}
	if err := config.DB.Model(&job).Updates(updates).Error; err != nil {
		deps.Log.Error("schedule notice", zap.String("job_id", job.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update job"})
		return
	}
	recordTransition("notice")
	respondReloaded(c, job.ID)
}

// POST /api/jobs/:id/close
func CloseJob(c *gin.Context) {
	job := currentJob(c)
	res := config.DB.Model(&models.OutageJob{}).
		Where("id = ? AND is_closed = ?", job.ID, false).
		Updates(map[string]interface{}{"is_closed": true, "closed_at": deps.Now()})
	if res.Error != nil {
		deps.Log.Error("close job", zap.String("job_id", job.ID), zap.Error(res.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update job"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "job is closed"})
		return
	}
	recordTransition("close")
	deps.Log.Info("job closed", zap.String("job_id", job.ID), zap.String("by", middleware.CurrentUser(c)))
	respondReloaded(c, job.ID)
}
