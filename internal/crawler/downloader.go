package crawler

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/hash"
	"github.com/casevault/courtcrawler/internal/notify"
	"github.com/casevault/courtcrawler/internal/progress"
	"github.com/casevault/courtcrawler/internal/storage"
)

const (
	maxTitleLength    = 100
	fingerprintLength = 8
)

var (
	invalidFilenameChars = regexp.MustCompile(`[^A-Za-z0-9 _-]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// Filename derives the stable object name for a descriptor: the sanitized,
// truncated title plus a short digest of the URL so distinct documents never
// collide even when their titles sanitize identically.
func Filename(title, pdfURL string) string {
	safe := invalidFilenameChars.ReplaceAllString(title, "")
	safe = whitespaceRun.ReplaceAllString(strings.TrimSpace(safe), "_")
	if len(safe) > maxTitleLength {
		safe = safe[:maxTitleLength]
	}
	return fmt.Sprintf("%s_%s.pdf", safe, hash.Fingerprint(pdfURL, fingerprintLength))
}

// DownloadUploader fetches a descriptor's PDF bytes and forwards them to the
// blob sink.
type DownloadUploader struct {
	getter   PDFGetter
	sink     storage.Provider
	notifier notify.Provider
	prefix   string
	emitter  progress.Emitter
	logger   *zap.Logger
}

// NewDownloadUploader wires the document pipeline. notifier may be nil.
func NewDownloadUploader(
	getter PDFGetter,
	sink storage.Provider,
	notifier notify.Provider,
	prefix string,
	emitter progress.Emitter,
	logger *zap.Logger,
) *DownloadUploader {
	if notifier == nil {
		notifier = notify.NoOpProvider{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadUploader{
		getter:   getter,
		sink:     sink,
		notifier: notifier,
		prefix:   strings.Trim(prefix, "/"),
		emitter:  emitter,
		logger:   logger,
	}
}

// Process downloads the document and uploads it to the sink. Failures are
// returned as download- or sink-kind errors; the document is simply dropped
// and the crawl continues.
func (d *DownloadUploader) Process(ctx context.Context, combo Combination, desc PdfDescriptor) error {
	filename := Filename(desc.Title, desc.PdfURL)
	objectName := filename
	if d.prefix != "" {
		objectName = path.Join(d.prefix, filename)
	}

	body, err := d.getter.Get(ctx, desc.PdfURL)
	if err != nil {
		d.logger.Warn("pdf download failed",
			zap.String("combination", combo.Label()),
			zap.String("url", desc.PdfURL),
			zap.Error(err),
		)
		d.emit(progress.StageUploadError, combo,
			fmt.Sprintf("Error downloading PDF %s: %v", desc.PdfURL, err))
		return E(KindDownload, "download pdf", err)
	}

	uri, err := d.sink.Save(ctx, objectName, body)
	if err != nil {
		d.logger.Warn("pdf upload failed",
			zap.String("combination", combo.Label()),
			zap.String("object", objectName),
			zap.Error(err),
		)
		d.emit(progress.StageUploadError, combo,
			fmt.Sprintf("Error uploading PDF %s: %v", desc.PdfURL, err))
		return E(KindSink, "upload pdf", err)
	}

	if err := d.notifier.Publish(ctx, uri); err != nil {
		// Notification loss does not fail the upload.
		d.logger.Warn("upload notification failed", zap.String("uri", uri), zap.Error(err))
	}

	d.emit(progress.StageUpload, combo, fmt.Sprintf("Uploaded: %s (%s)", filename, uri))
	d.logger.Info("uploaded pdf",
		zap.String("combination", combo.Label()),
		zap.String("object", objectName),
		zap.String("uri", uri),
	)
	return nil
}

func (d *DownloadUploader) emit(stage progress.Stage, combo Combination, message string) {
	if d.emitter == nil {
		return
	}
	d.emitter.Emit(progress.Event{
		Stage:       stage,
		Combination: combo.Label(),
		Message:     message,
	})
}
