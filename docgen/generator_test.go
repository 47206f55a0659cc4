package docgen

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestGenerator(t *testing.T, tpl []byte) (*Generator, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	g := NewGenerator(writeTemplate(t, tpl), "", zap.New(core))
	g.QR = fakeQREncoder{png: fakeQR}
	return g, logs
}

func mustEntry(t *testing.T, buf []byte, name string) []byte {
	t.Helper()
	b, err := ReadEntry(buf, name)
	require.NoError(t, err)
	return b
}

func TestGenerate_EmbedsQR(t *testing.T) {
	g, _ := newTestGenerator(t, standardTemplate(t))
	var got Outcome
	g.Observe = func(o Outcome, _ time.Duration) { got = o }

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	require.NoError(t, err)

	assert.Equal(t, fakeQR, mustEntry(t, doc, DefaultPlaceholder))
	assert.Equal(t, iconPNG, mustEntry(t, doc, "word/media/image2.png"))
	body := string(mustEntry(t, doc, MainPart))
	assert.NotContains(t, body, "{{")
	assert.Contains(t, body, "ถนนมิตรภาพ")
	assert.Equal(t, OutcomeFull, got)
}

func TestGenerate_ReplacementCharInValueKeepsQR(t *testing.T) {
	g, logs := newTestGenerator(t, standardTemplate(t))
	var got Outcome
	g.Observe = func(o Outcome, _ time.Duration) { got = o }

	p := samplePayload()
	p.AreaDetail = "หมู่ 3 \uFFFD pasted"
	doc, err := g.Generate(context.Background(), p, sampleJob())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFull, got)
	assert.Equal(t, fakeQR, mustEntry(t, doc, DefaultPlaceholder))
	assert.NoError(t, ValidateDocument(doc))
	assert.Contains(t, string(mustEntry(t, doc, MainPart)), "หมู่ 3  pasted")
	assert.Zero(t, logs.FilterMessage("document failed check after qr splice, dropping qr").Len())
}

func TestGenerate_RealQRCode(t *testing.T) {
	g, _ := newTestGenerator(t, standardTemplate(t))
	g.QR = NewQRCode()

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	require.NoError(t, err)

	img := mustEntry(t, doc, DefaultPlaceholder)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG\r\n\x1a\n")))
	assert.NotEqual(t, placeholderPNG, img)
}

func TestGenerate_TemplateMissing(t *testing.T) {
	g := NewGenerator(filepath.Join(t.TempDir(), "missing.docx"), "", nil)
	var got Outcome
	g.Observe = func(o Outcome, _ time.Duration) { got = o }

	_, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	assert.ErrorIs(t, err, ErrTemplateMissing)
	assert.Equal(t, OutcomeFailed, got)
}

func TestGenerate_RenderFailureIsFatal(t *testing.T) {
	tpl := buildDocx(t,
		entry{MainPart, []byte(wrapBody(para("{{PURPOSE}} {{SIGNED_BY}}")))},
		entry{"word/media/image1.png", placeholderPNG},
	)
	g, logs := newTestGenerator(t, tpl)

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	assert.Nil(t, doc)

	var rerr *RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, err.Error(), "SIGNED_BY")

	entries := logs.FilterMessage("template render failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "sub_errors")
}

func TestGenerate_QRFailureDegrades(t *testing.T) {
	g, logs := newTestGenerator(t, standardTemplate(t))
	g.QR = fakeQREncoder{err: errors.New("encoder exploded")}
	var got Outcome
	g.Observe = func(o Outcome, _ time.Duration) { got = o }

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	require.NoError(t, err)

	assert.Equal(t, placeholderPNG, mustEntry(t, doc, DefaultPlaceholder))
	body := string(mustEntry(t, doc, MainPart))
	assert.Contains(t, body, "ปรับปรุงระบบจำหน่าย")
	assert.Contains(t, body, "KKA-01 VCB")
	assert.NoError(t, ValidateDocument(doc))
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
	assert.Equal(t, OutcomeNoQR, got)
}

func TestGenerate_EmptyMapLinkDegrades(t *testing.T) {
	g, _ := newTestGenerator(t, standardTemplate(t))
	g.QR = NewQRCode()
	p := samplePayload()
	p.MapLink = ""

	doc, err := g.Generate(context.Background(), p, sampleJob())
	require.NoError(t, err)
	assert.Equal(t, placeholderPNG, mustEntry(t, doc, DefaultPlaceholder))
}

func TestGenerate_CorruptSpliceFallsBackToTextOnly(t *testing.T) {
	g, logs := newTestGenerator(t, standardTemplate(t))
	g.Splice = func(buf []byte, name string, data []byte) ([]byte, error) {
		out, err := Splice(buf, name, data)
		if err != nil {
			return nil, err
		}
		body, err := ReadEntry(out, MainPart)
		if err != nil {
			return nil, err
		}
		return Splice(out, MainPart, append(body, 0x01))
	}

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	require.NoError(t, err)

	assert.Equal(t, placeholderPNG, mustEntry(t, doc, DefaultPlaceholder))
	assert.NoError(t, ValidateDocument(doc))
	assert.Equal(t, 1, logs.FilterMessage("document failed check after qr splice, dropping qr").Len())
}

func TestGenerate_SpliceErrorFallsBack(t *testing.T) {
	g, _ := newTestGenerator(t, standardTemplate(t))
	g.Splice = func([]byte, string, []byte) ([]byte, error) { return nil, errors.New("disk full") }

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	require.NoError(t, err)
	assert.Equal(t, placeholderPNG, mustEntry(t, doc, DefaultPlaceholder))
}

func TestGenerate_NoPlaceholderReturnsTextOnly(t *testing.T) {
	tpl := buildDocx(t, entry{MainPart, []byte(fullBody)}, entry{"word/media/logo.jpeg", []byte("jpeg")})
	g, logs := newTestGenerator(t, tpl)

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	require.NoError(t, err)

	assert.Equal(t, []byte("jpeg"), mustEntry(t, doc, "word/media/logo.jpeg"))
	assert.NotContains(t, string(mustEntry(t, doc, MainPart)), "{{")
	assert.Equal(t, 1, logs.FilterMessage("qr placeholder image not found in template").Len())
}

func TestGenerate_UsesConfiguredPlaceholder(t *testing.T) {
	tpl := buildDocx(t,
		entry{MainPart, []byte(fullBody)},
		entry{"word/media/image3.png", iconPNG},
		entry{"word/media/image4.png", placeholderPNG},
	)
	g, _ := newTestGenerator(t, tpl)
	g.Resolvers = DefaultResolvers("image3.png")

	doc, err := g.Generate(context.Background(), samplePayload(), sampleJob())
	require.NoError(t, err)
	assert.Equal(t, fakeQR, mustEntry(t, doc, "word/media/image3.png"))
	assert.Equal(t, placeholderPNG, mustEntry(t, doc, "word/media/image4.png"))
}

func TestGenerate_CancelledContext(t *testing.T) {
	g, _ := newTestGenerator(t, standardTemplate(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, samplePayload(), sampleJob())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolvePlaceholder_Order(t *testing.T) {
	withDefault := standardTemplate(t)
	name, ok := ResolvePlaceholder(withDefault, DefaultResolvers("image2.png"))
	require.True(t, ok)
	assert.Equal(t, DefaultPlaceholder, name, "fixed path wins over configured name")

	noDefault := buildDocx(t,
		entry{MainPart, []byte(fullBody)},
		entry{"word/media/small.png", iconPNG},
		entry{"word/media/big.PNG", placeholderPNG},
		entry{"word/other/huge.png", bytes.Repeat([]byte("x"), 5000)},
	)
	name, ok = ResolvePlaceholder(noDefault, DefaultResolvers("small.png"))
	require.True(t, ok)
	assert.Equal(t, "word/media/small.png", name)

	name, ok = ResolvePlaceholder(noDefault, DefaultResolvers("absent.png"))
	require.True(t, ok)
	assert.Equal(t, "word/media/big.PNG", name, "largest png under media wins")

	name, ok = ResolvePlaceholder(noDefault, DefaultResolvers("word/media/small.png"))
	require.True(t, ok)
	assert.Equal(t, "word/media/small.png", name)

	_, ok = ResolvePlaceholder([]byte("junk"), DefaultResolvers(""))
	assert.False(t, ok)
}

func TestPayloadValidate(t *testing.T) {
	assert.NoError(t, samplePayload().Validate())

	p := samplePayload()
	p.Purpose = "  "
	p.MapLink = ""
	err := p.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"doc_purpose", "map_link"}, verr.Missing)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "outage_2026-11-08_KKA-01_VCB.docx", FileName(sampleJob()))
	assert.Equal(t, "outage_2026-11-08_a_b.docx", FileName(JobRef{OutageDate: "2026-11-08", EquipmentCode: "a/b"}))
}
