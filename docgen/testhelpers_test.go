package docgen

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="png" ContentType="image/png"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

func wrapBody(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		inner +
		`</w:body></w:document>`
}

func para(texts ...string) string {
	var b bytes.Buffer
	b.WriteString("<w:p>")
	for _, t := range texts {
		b.WriteString("<w:r><w:t>" + t + "</w:t></w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}

// fullBody uses every token; PURPOSE and EQUIPMENT_CODE are split across runs
// the way Word tends to save them.
var fullBody = wrapBody(
	para("เลขที่ออก {{ISSUE_DATE_RAW}} ลงวันที่ {{ISSUE_DATE}}") +
		para("เรื่อง {{PUR", "POSE}}") +
		para("บริเวณ {{AREA_TITLE}} เวลา {{TIME_START}} - {{TIME_END}} น.") +
		para("{{AREA_DETAIL}}") +
		para("แผนที่ {{MAP_LINK}}") +
		para("วันที่ดับไฟ {{OUTAGE_DATE}} ({{OUTAGE_DATE_TH}}) อุปกรณ์ {", "{EQUIPMENT_", "CODE}}"),
)

var (
	placeholderPNG = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte("placeholder"), 50)...)
	iconPNG        = append([]byte("\x89PNG\r\n\x1a\n"), []byte("icon")...)
	fakeQR         = append([]byte("\x89PNG\r\n\x1a\n"), []byte("generated-qr")...)
)

type entry struct {
	name string
	data []byte
}

func buildDocx(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func standardTemplate(t *testing.T) []byte {
	return buildDocx(t,
		entry{"[Content_Types].xml", []byte(contentTypesXML)},
		entry{MainPart, []byte(fullBody)},
		entry{"word/media/image1.png", placeholderPNG},
		entry{"word/media/image2.png", iconPNG},
	)
}

func writeTemplate(t *testing.T, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func samplePayload() Payload {
	return Payload{
		IssueDate:  "2026-10-19",
		Purpose:    "ปรับปรุงระบบจำหน่าย",
		AreaTitle:  "ถนนมิตรภาพ",
		TimeStart:  "08:30",
		TimeEnd:    "16:00",
		AreaDetail: "หมู่ 3 ต.ในเมือง\nหมู่ 5 ต.บ้านเป็ด",
		MapLink:    "https://maps.app.goo.gl/abc123",
	}
}

func sampleJob() JobRef {
	return JobRef{OutageDate: "2026-11-08", EquipmentCode: "KKA-01 VCB"}
}

type fakeQREncoder struct {
	png []byte
	err error
}

func (f fakeQREncoder) Encode(string) ([]byte, error) { return f.png, f.err }
