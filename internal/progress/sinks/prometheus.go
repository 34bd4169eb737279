package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/casevault/courtcrawler/internal/progress"
)

// PrometheusSink exports crawl progress counters. It owns all collectors for
// page fetches, uploads, duplicates, and run completions.
type PrometheusSink struct {
	pagesFetched  prometheus.Counter
	fetchErrors   prometheus.Counter
	pagesArchived prometheus.Counter
	pdfsUploaded  prometheus.Counter
	uploadErrors  prometheus.Counter
	duplicates    prometheus.Counter
	runsCompleted *prometheus.CounterVec
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		pagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtcrawler_pages_fetched_total",
			Help: "Result pages fetched from the portal.",
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtcrawler_fetch_errors_total",
			Help: "Page fetches that failed and were skipped.",
		}),
		pagesArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtcrawler_pages_archived_total",
			Help: "Malformed pages dumped to the debug archive.",
		}),
		pdfsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtcrawler_pdfs_uploaded_total",
			Help: "PDF documents uploaded to the blob sink.",
		}),
		uploadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtcrawler_upload_errors_total",
			Help: "Documents dropped due to download or upload failure.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtcrawler_duplicates_skipped_total",
			Help: "Descriptors skipped because their URL was already seen.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtcrawler_runs_completed_total",
			Help: "Crawl runs finished, partitioned by result.",
		}, []string{"result"}),
	}
	for _, collector := range []prometheus.Collector{
		s.pagesFetched,
		s.fetchErrors,
		s.pagesArchived,
		s.pdfsUploaded,
		s.uploadErrors,
		s.duplicates,
		s.runsCompleted,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from the event. It is safe for concurrent use.
func (s *PrometheusSink) Consume(_ context.Context, evt progress.Event) error {
	switch evt.Stage {
	case progress.StageFetch:
		s.pagesFetched.Inc()
	case progress.StageFetchError:
		s.fetchErrors.Inc()
	case progress.StageArchive:
		s.pagesArchived.Inc()
	case progress.StageUpload:
		s.pdfsUploaded.Inc()
	case progress.StageUploadError:
		s.uploadErrors.Inc()
	case progress.StageDuplicate:
		s.duplicates.Inc()
	case progress.StageDone:
		s.runsCompleted.WithLabelValues("success").Inc()
	case progress.StageFailed:
		s.runsCompleted.WithLabelValues("error").Inc()
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
