package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/outagedesk/outage-server/config"
	"github.com/outagedesk/outage-server/docgen"
	"github.com/outagedesk/outage-server/middleware"
	"github.com/outagedesk/outage-server/models"
)

// GenerateFailedMessage is the only failure text users see; detail stays in logs.
const GenerateFailedMessage = "สร้างเอกสารไม่สำเร็จ กรุณาลองใหม่"

// generationLease bounds how long a GENERATING claim blocks other requests.
const generationLease = 5 * time.Minute

// POST /api/jobs/:id/document
func GenerateDocument(c *gin.Context) {
	job := currentJob(c)
	log := deps.Log.With(zap.String("job_id", job.ID))

	var p docgen.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}
	if err := p.Validate(); err != nil {
		var ve *docgen.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "all document fields are required", "missing": ve.Missing})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	// Claim the job; a second request while one is running gets 409. A claim
	// older than generationLease belongs to a request that died and is taken over.
	claimedAt := deps.Now()
	res := config.DB.Model(&models.OutageJob{}).
		Where("id = ?", job.ID).
		Where("(doc_status IS NULL OR doc_status <> ? OR doc_claimed_at IS NULL OR doc_claimed_at < ?)",
			string(models.DocGenerating), claimedAt.Add(-generationLease)).
		Updates(map[string]interface{}{
			"doc_status":     string(models.DocGenerating),
			"doc_claimed_at": claimedAt,
		})
	if res.Error != nil {
		log.Error("claim document generation", zap.Error(res.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": GenerateFailedMessage})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "document is already being generated"})
		return
	}

	ref := docgen.JobRef{OutageDate: job.OutageDate, EquipmentCode: job.EquipmentCode}
	doc, err := deps.Generator.Generate(c.Request.Context(), p, ref)
	if err != nil {
		log.Error("document generation failed", zap.Error(err))
		releaseFailedClaim(job, log)
		c.JSON(http.StatusInternalServerError, gin.H{"message": GenerateFailedMessage})
		return
	}

	name := docgen.FileName(ref)
	updates := map[string]interface{}{
		"doc_status":       string(models.DocGenerated),
		"doc_generated_at": deps.Now(),
		"doc_claimed_at":   nil,
		"doc_issue_date":   p.IssueDate,
		"doc_purpose":      p.Purpose,
		"doc_area_title":   p.AreaTitle,
		"doc_time_start":   p.TimeStart,
		"doc_time_end":     p.TimeEnd,
		"doc_area_detail":  p.AreaDetail,
		"map_link":         p.MapLink,
	}
	if deps.Store != nil {
		url, err := deps.Store.Upload(c.Request.Context(), path.Join(job.ID, name), doc, docgen.ContentType)
		if err != nil {
			// The user still gets the file in this response.
			log.Warn("document upload failed", zap.Error(err))
		} else {
			updates["doc_url"] = url
		}
	}
	if err := config.DB.Model(&models.OutageJob{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
		log.Error("mark document generated", zap.Error(err))
		releaseFailedClaim(job, log)
		c.JSON(http.StatusInternalServerError, gin.H{"message": GenerateFailedMessage})
		return
	}
	recordTransition("document")
	log.Info("document generated", zap.Int("bytes", len(doc)), zap.String("by", middleware.CurrentUser(c)))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, docgen.ContentType, doc)
}

// releaseFailedClaim ends a claim whose generation did not finish. A job that
// already had a document goes back to GENERATED with its stored fields and
// URL untouched; otherwise it becomes ERROR.
func releaseFailedClaim(job models.OutageJob, log *zap.Logger) {
	status := models.DocError
	if job.DocGeneratedAt != nil || models.ParseDocStatus(job.DocStatus) == models.DocGenerated {
		status = models.DocGenerated
	}
	err := config.DB.Model(&models.OutageJob{}).Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"doc_status":     string(status),
			"doc_claimed_at": nil,
		}).Error
	if err != nil {
		log.Error("release document claim", zap.Error(err), zap.String("status", string(status)))
	}
	if status == models.DocError {
		recordTransition("document_error")
	}
}

// GET /api/jobs/:id/document
func DownloadDocument(c *gin.Context) {
	job := currentJob(c)
	if job.DocURL == nil || *job.DocURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "no stored document for this job"})
		return
	}
	c.Redirect(http.StatusFound, *job.DocURL)
}
