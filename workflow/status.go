package workflow

import (
	"strings"

	"github.com/outagedesk/outage-server/models"
)

// Step is the coarse lifecycle position shown on the dashboard.
type Step string

const (
	StepDraft           Step = "DRAFT"
	StepDocReady        Step = "DOC_READY"
	StepSocialPosted    Step = "SOCIAL_POSTED"
	StepNoticeScheduled Step = "NOTICE_SCHEDULED"
	StepClosed          Step = "CLOSED"
)

// Dashboard next-action labels.
const (
	ActionCreateDoc      = "สร้างเอกสาร"
	ActionPostSocial     = "โพสต์โซเชียล"
	ActionScheduleNotice = "นัดส่งหนังสือแจ้ง"
	ActionNotifyNakhon   = "แจ้งศูนย์นคร"
	ActionCloseJob       = "ปิดงาน"
	ActionComplete       = "เสร็จสิ้น"
)

// ButtonAction is the action wired to the job card's primary button.
type ButtonAction string

const (
	ButtonNotifyNakhon  ButtonAction = "NOTIFY_NAKHON"
	ButtonCreateDoc     ButtonAction = "CREATE_DOC"
	ButtonAwaitApproval ButtonAction = "AWAIT_APPROVAL"
	ButtonSendNotice    ButtonAction = "SEND_NOTICE"
	ButtonCloseJob      ButtonAction = "CLOSE_JOB"
)

var buttonLabels = map[ButtonAction]string{
	ButtonNotifyNakhon:  ActionNotifyNakhon,
	ButtonCreateDoc:     ActionCreateDoc,
	ButtonAwaitApproval: "รออนุมัติ",
	ButtonSendNotice:    "ส่งหนังสือแจ้งดับไฟ",
	ButtonCloseJob:      ActionCloseJob,
}

func (a ButtonAction) Label() string {
	return buttonLabels[a]
}

// StatusInput is the subset of a job the derivations read. Nil fields take
// their documented defaults.
type StatusInput struct {
	DocStatus          *string
	SocialStatus       *string
	NoticeStatus       *string
	NoticeDate         *string
	NakhonStatus       *string
	NakhonNotifiedDate *string
	IsClosed           bool
}

func StatusInputOf(j *models.OutageJob) StatusInput {
	return StatusInput{
		DocStatus:          j.DocStatus,
		SocialStatus:       j.SocialStatus,
		NoticeStatus:       j.NoticeStatus,
		NoticeDate:         j.NoticeDate,
		NakhonStatus:       j.NakhonStatus,
		NakhonNotifiedDate: j.NakhonNotifiedDate,
		IsClosed:           j.IsClosed,
	}
}

type statusView struct {
	doc             models.DocStatus
	social          models.SocialStatus
	notice          models.NoticeStatus
	nakhon          models.NakhonStatus
	hasNoticeDate   bool
	hasNotifiedDate bool
	closed          bool
}

func (in StatusInput) normalize() statusView {
	return statusView{
		doc:             models.ParseDocStatus(in.DocStatus),
		social:          models.ParseSocialStatus(in.SocialStatus),
		notice:          models.ParseNoticeStatus(in.NoticeStatus),
		nakhon:          models.ParseNakhonStatus(in.NakhonStatus),
		hasNoticeDate:   nonBlank(in.NoticeDate),
		hasNotifiedDate: nonBlank(in.NakhonNotifiedDate),
		closed:          in.IsClosed,
	}
}

func (v statusView) noticeScheduled() bool {
	return v.notice == models.NoticeScheduled || v.notice == models.NoticeSent
}

// DashboardStep places a job in one of the five dashboard columns.
func DashboardStep(in StatusInput) Step {
	v := in.normalize()
	switch {
	case v.closed:
		return StepClosed
	case v.doc != models.DocGenerated:
		return StepDraft
	case v.social != models.SocialPosted:
		return StepDocReady
	case !v.noticeScheduled():
		return StepSocialPosted
	default:
		return StepNoticeScheduled
	}
}

// NextAction is the dashboard's "what to do next" text. Nakhon is checked
// after the notice, and closed is not short-circuited.
func NextAction(in StatusInput) string {
	v := in.normalize()
	switch {
	case v.doc != models.DocGenerated:
		return ActionCreateDoc
	case v.social != models.SocialPosted:
		return ActionPostSocial
	case !v.noticeScheduled() && !v.hasNoticeDate:
		return ActionScheduleNotice
	case v.nakhon != models.NakhonNotRequired && v.nakhon != models.NakhonNotified && !v.hasNotifiedDate:
		return ActionNotifyNakhon
	case !v.closed:
		return ActionCloseJob
	default:
		return ActionComplete
	}
}

// NextButtonAction picks the job card's primary button.
func NextButtonAction(in StatusInput) ButtonAction {
	v := in.normalize()
	switch {
	case v.nakhon == models.NakhonPending:
		return ButtonNotifyNakhon
	case v.doc != models.DocGenerated:
		return ButtonCreateDoc
	case v.social == models.SocialPendingApproval:
		return ButtonAwaitApproval
	case v.social == models.SocialPosted && !v.noticeScheduled():
		return ButtonSendNotice
	default:
		return ButtonCloseJob
	}
}

func nonBlank(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}
