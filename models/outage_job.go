package models

import "time"

// OutageJob is one scheduled outage tracked through the notify, document,
// social, notice and close steps.
type OutageJob struct {
	ID            string `gorm:"column:id;primaryKey;size:36" json:"id"`
	OutageDate    string `gorm:"column:outage_date;size:10;not null;index" json:"outage_date"`
	EquipmentCode string `gorm:"column:equipment_code;type:text;not null" json:"equipment_code"`

	NakhonStatus       *string `gorm:"column:nakhon_status;size:20;default:'PENDING'" json:"nakhon_status"`
	NakhonNotifiedDate *string `gorm:"column:nakhon_notified_date;size:10" json:"nakhon_notified_date"`
	NakhonMemoNo       *string `gorm:"column:nakhon_memo_no;size:100" json:"nakhon_memo_no"`

	DocStatus      *string    `gorm:"column:doc_status;size:20;default:'PENDING'" json:"doc_status"`
	DocIssueDate   *string    `gorm:"column:doc_issue_date;size:10" json:"doc_issue_date"`
	DocPurpose     *string    `gorm:"column:doc_purpose;type:text" json:"doc_purpose"`
	DocAreaTitle   *string    `gorm:"column:doc_area_title;type:text" json:"doc_area_title"`
	DocTimeStart   *string    `gorm:"column:doc_time_start;size:10" json:"doc_time_start"`
	DocTimeEnd     *string    `gorm:"column:doc_time_end;size:10" json:"doc_time_end"`
	DocAreaDetail  *string    `gorm:"column:doc_area_detail;type:text" json:"doc_area_detail"`
	MapLink        *string    `gorm:"column:map_link;type:text" json:"map_link"`
	DocGeneratedAt *time.Time `gorm:"column:doc_generated_at" json:"doc_generated_at"`
	// DocClaimedAt is when the running generation took the job; nil when idle.
	DocClaimedAt *time.Time `gorm:"column:doc_claimed_at" json:"doc_claimed_at"`
	DocURL         *string    `gorm:"column:doc_url;type:text" json:"doc_url"`

	SocialStatus   *string    `gorm:"column:social_status;size:20;default:'DRAFT'" json:"social_status"`
	SocialPostText *string    `gorm:"column:social_post_text;type:text" json:"social_post_text"`
	SocialPostedAt *time.Time `gorm:"column:social_posted_at" json:"social_posted_at"`

	NoticeStatus      *string    `gorm:"column:notice_status;size:20;default:'NONE'" json:"notice_status"`
	NoticeDate        *string    `gorm:"column:notice_date;size:10" json:"notice_date"`
	NoticeBy          *string    `gorm:"column:notice_by;size:255" json:"notice_by"`
	MyMapsURL         *string    `gorm:"column:mymaps_url;type:text" json:"mymaps_url"`
	NoticeScheduledAt *time.Time `gorm:"column:notice_scheduled_at" json:"notice_scheduled_at"`

	IsClosed bool       `gorm:"column:is_closed;default:false;index" json:"is_closed"`
	ClosedAt *time.Time `gorm:"column:closed_at" json:"closed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OutageJob) TableName() string {
	return "outage_jobs"
}
