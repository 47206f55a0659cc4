package workflow

import (
	"fmt"
	"strings"

	"github.com/outagedesk/outage-server/models"
	"github.com/outagedesk/outage-server/utils"
)

type SocialInput struct {
	OutageDate     string
	Purpose        *string
	AreaTitle      *string
	TimeStart      *string
	TimeEnd        *string
	AreaDetail     *string
	MapLink        *string
	SocialPostText *string
}

func SocialInputOf(j *models.OutageJob) SocialInput {
	return SocialInput{
		OutageDate:     j.OutageDate,
		Purpose:        j.DocPurpose,
		AreaTitle:      j.DocAreaTitle,
		TimeStart:      j.DocTimeStart,
		TimeEnd:        j.DocTimeEnd,
		AreaDetail:     j.DocAreaDetail,
		MapLink:        j.MapLink,
		SocialPostText: j.SocialPostText,
	}
}

const socialTemplate = "📢 ประกาศงดจ่ายกระแสไฟฟ้า วันที่ %s\n" +
	"เพื่อ%s\n" +
	"บริเวณ %s เวลา %s - %s น.\n" +
	"พื้นที่ที่ได้รับผลกระทบ: %s\n" +
	"แผนที่: %s"

// BuildSocialPost formats a fresh announcement from the job fields.
func BuildSocialPost(in SocialInput) string {
	return fmt.Sprintf(socialTemplate,
		utils.FormatThaiDate(in.OutageDate),
		field(in.Purpose),
		field(in.AreaTitle),
		field(in.TimeStart),
		field(in.TimeEnd),
		field(in.AreaDetail),
		field(in.MapLink),
	)
}

// PreviewSocialPost returns the published text once one exists, so a posted
// announcement never changes wording when job fields are edited later.
func PreviewSocialPost(in SocialInput) string {
	if nonBlank(in.SocialPostText) {
		return *in.SocialPostText
	}
	return BuildSocialPost(in)
}

func field(p *string) string {
	if p == nil {
		return "-"
	}
	if s := strings.TrimSpace(*p); s != "" {
		return s
	}
	return "-"
}
