package docgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/outagedesk/outage-server/utils"
)

// ContentType of a generated .docx.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Template tokens.
const (
	TokenIssueDateRaw  = "ISSUE_DATE_RAW"
	TokenIssueDate     = "ISSUE_DATE"
	TokenPurpose       = "PURPOSE"
	TokenAreaTitle     = "AREA_TITLE"
	TokenTimeStart     = "TIME_START"
	TokenTimeEnd       = "TIME_END"
	TokenAreaDetail    = "AREA_DETAIL"
	TokenMapLink       = "MAP_LINK"
	TokenOutageDate    = "OUTAGE_DATE"
	TokenOutageDateTh  = "OUTAGE_DATE_TH"
	TokenEquipmentCode = "EQUIPMENT_CODE"
)

// Payload is what the user fills in when asking for a document.
type Payload struct {
	IssueDate  string `json:"doc_issue_date"`
	Purpose    string `json:"doc_purpose"`
	AreaTitle  string `json:"doc_area_title"`
	TimeStart  string `json:"doc_time_start"`
	TimeEnd    string `json:"doc_time_end"`
	AreaDetail string `json:"doc_area_detail"`
	MapLink    string `json:"map_link"`
}

// Validate requires every field; they are captured together or not at all.
func (p Payload) Validate() error {
	fields := []struct{ name, value string }{
		{"doc_issue_date", p.IssueDate},
		{"doc_purpose", p.Purpose},
		{"doc_area_title", p.AreaTitle},
		{"doc_time_start", p.TimeStart},
		{"doc_time_end", p.TimeEnd},
		{"doc_area_detail", p.AreaDetail},
		{"map_link", p.MapLink},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// JobRef carries the read-only job fields printed on the notice.
type JobRef struct {
	OutageDate    string
	EquipmentCode string
}

// Values builds the flat token map for the text pass.
func (p Payload) Values(job JobRef) map[string]string {
	return map[string]string{
		TokenIssueDateRaw:  p.IssueDate,
		TokenIssueDate:     utils.FormatThaiDate(p.IssueDate),
		TokenPurpose:       p.Purpose,
		TokenAreaTitle:     p.AreaTitle,
		TokenTimeStart:     p.TimeStart,
		TokenTimeEnd:       p.TimeEnd,
		TokenAreaDetail:    p.AreaDetail,
		TokenMapLink:       p.MapLink,
		TokenOutageDate:    job.OutageDate,
		TokenOutageDateTh:  utils.FormatThaiDate(job.OutageDate),
		TokenEquipmentCode: job.EquipmentCode,
	}
}

// Outcome says how far a generation got.
type Outcome string

const (
	OutcomeFull   Outcome = "full"
	OutcomeNoQR   Outcome = "no_qr"
	OutcomeFailed Outcome = "failed"
)

// SpliceFunc replaces one archive entry and returns the new archive.
type SpliceFunc func(buf []byte, name string, data []byte) ([]byte, error)

// Generator builds outage notice documents from a .docx template.
type Generator struct {
	TemplatePath string
	QR           QREncoder
	Resolvers    []PlaceholderResolver
	Splice       SpliceFunc
	Log          *zap.Logger
	// Observe, if set, is told the outcome and duration of every call.
	Observe func(Outcome, time.Duration)
}

func NewGenerator(templatePath, placeholderName string, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		TemplatePath: templatePath,
		QR:           NewQRCode(),
		Resolvers:    DefaultResolvers(placeholderName),
		Splice:       Splice,
		Log:          log,
	}
}

// Generate renders the template for one job. Only a missing template or a
// failed text pass is an error; every QR problem degrades to a document
// without the QR image.
func (g *Generator) Generate(ctx context.Context, p Payload, job JobRef) ([]byte, error) {
	started := time.Now()
	outcome := OutcomeFailed
	defer func() {
		if g.Observe != nil {
			g.Observe(outcome, time.Since(started))
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := g.Log.With(zap.String("outage_date", job.OutageDate), zap.String("equipment_code", job.EquipmentCode))

	tpl, err := os.ReadFile(g.TemplatePath)
	if err != nil {
		log.Error("template unreadable", zap.String("path", g.TemplatePath), zap.Error(err))
		return nil, fmt.Errorf("%w (%s): %w", ErrTemplateMissing, g.TemplatePath, err)
	}

	base, err := Render(tpl, p.Values(job))
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var rerr *RenderError
		if errors.As(err, &rerr) {
			fields = append(fields, zap.Errors("sub_errors", rerr.Errs))
		}
		log.Error("template render failed", fields...)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome = OutcomeNoQR
	png, err := g.QR.Encode(p.MapLink)
	if err != nil {
		log.Warn("qr encode failed, document will have no qr", zap.Error(err))
		return base, nil
	}

	withQR, ok := g.embedQR(log, base, png)
	if !ok {
		return base, nil
	}
	outcome = OutcomeFull
	return withQR, nil
}

// embedQR is pass 2. It never touches base; on any problem the caller keeps
// the pass 1 document.
func (g *Generator) embedQR(log *zap.Logger, base, png []byte) ([]byte, bool) {
	name, ok := ResolvePlaceholder(base, g.Resolvers)
	if !ok {
		log.Warn("qr placeholder image not found in template")
		return nil, false
	}

	splice := g.Splice
	if splice == nil {
		splice = Splice
	}
	out, err := splice(base, name, png)
	if err != nil {
		log.Warn("qr image splice failed", zap.String("entry", name), zap.Error(err))
		return nil, false
	}

	if err := ValidateDocument(out); err != nil {
		log.Warn("document failed check after qr splice, dropping qr", zap.String("entry", name), zap.Error(err))
		return nil, false
	}
	log.Debug("qr embedded", zap.String("entry", name), zap.Int("bytes", len(png)))
	return out, true
}

// FileName is the download name for a job's notice.
func FileName(job JobRef) string {
	code := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(job.EquipmentCode))
	return fmt.Sprintf("outage_%s_%s.docx", job.OutageDate, code)
}
