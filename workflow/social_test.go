package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleSocial() SocialInput {
	return SocialInput{
		OutageDate: "2026-11-08",
		Purpose:    s("ปรับปรุงระบบจำหน่าย"),
		AreaTitle:  s("ถนนมิตรภาพ"),
		TimeStart:  s("08:30"),
		TimeEnd:    s("16:00"),
		AreaDetail: s("หมู่ 3 ต.ในเมือง"),
		MapLink:    s("https://maps.app.goo.gl/abc"),
	}
}

func TestBuildSocialPost(t *testing.T) {
	text := BuildSocialPost(sampleSocial())
	lines := strings.Split(text, "\n")

	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], "8 พฤศจิกายน 2569")
	assert.Equal(t, "เพื่อปรับปรุงระบบจำหน่าย", lines[1])
	assert.Equal(t, "บริเวณ ถนนมิตรภาพ เวลา 08:30 - 16:00 น.", lines[2])
	assert.Contains(t, lines[3], "หมู่ 3 ต.ในเมือง")
	assert.Equal(t, "แผนที่: https://maps.app.goo.gl/abc", lines[4])
}

func TestBuildSocialPost_MissingFields(t *testing.T) {
	text := BuildSocialPost(SocialInput{OutageDate: "2026-11-08", Purpose: s("   ")})
	assert.Len(t, strings.Split(text, "\n"), 5)
	assert.Contains(t, text, "เพื่อ-")
}

func TestPreviewSocialPost_Idempotent(t *testing.T) {
	in := sampleSocial()
	published := BuildSocialPost(in)
	in.SocialPostText = &published

	first := PreviewSocialPost(in)

	in.OutageDate = "2027-01-01"
	in.Purpose = s("something else entirely")
	in.MapLink = nil
	second := PreviewSocialPost(in)

	assert.Equal(t, published, first)
	assert.Equal(t, first, second)
}

func TestPreviewSocialPost_BlankStoredTextRebuilds(t *testing.T) {
	in := sampleSocial()
	in.SocialPostText = s("  \n ")
	assert.Equal(t, BuildSocialPost(in), PreviewSocialPost(in))
}
