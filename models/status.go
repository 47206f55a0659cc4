package models

import "strings"

// Stored status values. These exact strings live in the DB.

type NakhonStatus string

const (
	NakhonPending     NakhonStatus = "PENDING"
	NakhonNotified    NakhonStatus = "NOTIFIED"
	NakhonNotRequired NakhonStatus = "NOT_REQUIRED"
)

type DocStatus string

const (
	DocPending    DocStatus = "PENDING"
	DocGenerating DocStatus = "GENERATING"
	DocGenerated  DocStatus = "GENERATED"
	DocError      DocStatus = "ERROR"
)

type SocialStatus string

const (
	SocialDraft           SocialStatus = "DRAFT"
	SocialPendingApproval SocialStatus = "PENDING_APPROVAL"
	SocialPosted          SocialStatus = "POSTED"
)

type NoticeStatus string

const (
	NoticeNone      NoticeStatus = "NONE"
	NoticeScheduled NoticeStatus = "SCHEDULED"
	// NoticeSent is only written by older rows; nothing sets it anymore.
	NoticeSent NoticeStatus = "SENT"
)

func norm(p *string) string {
	if p == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*p))
}

// ParseNakhonStatus maps NULL or unknown values to PENDING.
func ParseNakhonStatus(p *string) NakhonStatus {
	switch s := NakhonStatus(norm(p)); s {
	case NakhonNotified, NakhonNotRequired:
		return s
	default:
		return NakhonPending
	}
}

// ParseDocStatus maps NULL or unknown values to PENDING.
func ParseDocStatus(p *string) DocStatus {
	switch s := DocStatus(norm(p)); s {
	case DocGenerating, DocGenerated, DocError:
		return s
	default:
		return DocPending
	}
}

// ParseSocialStatus maps NULL or unknown values to DRAFT.
func ParseSocialStatus(p *string) SocialStatus {
	switch s := SocialStatus(norm(p)); s {
	case SocialPendingApproval, SocialPosted:
		return s
	default:
		return SocialDraft
	}
}

// ParseNoticeStatus maps NULL or unknown values to NONE.
func ParseNoticeStatus(p *string) NoticeStatus {
	switch s := NoticeStatus(norm(p)); s {
	case NoticeScheduled, NoticeSent:
		return s
	default:
		return NoticeNone
	}
}

// Ptr returns a pointer to s, for filling nullable columns.
func Ptr[T ~string](s T) *string {
	v := string(s)
	return &v
}
