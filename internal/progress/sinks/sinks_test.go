package sinks

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/progress"
)

func TestStoreSinkKeepsOrderedLines(t *testing.T) {
	t.Parallel()

	sink := NewStoreSink()
	events := []progress.Event{
		{Stage: progress.StageComboStart, Message: "Processing category: Civil, year: 2023 (1/1)"},
		{Stage: progress.StageFetch, Message: "Status code for page 1: 200"},
		{Stage: progress.StageDone, Message: progress.DoneMessage},
	}
	for _, evt := range events {
		require.NoError(t, sink.Consume(context.Background(), evt))
	}

	lines := sink.Lines()
	require.Len(t, lines, 3)
	require.Equal(t, "Processing category: Civil, year: 2023 (1/1)", lines[0])
	require.Equal(t, progress.DoneMessage, lines[2])
	require.True(t, sink.Finished())
}

func TestStoreSinkNotFinishedWithoutTerminal(t *testing.T) {
	t.Parallel()

	sink := NewStoreSink()
	require.NoError(t, sink.Consume(context.Background(), progress.Event{
		Stage: progress.StageFetch, Message: "Status code for page 1: 200",
	}))
	require.False(t, sink.Finished())
}

func TestLogSinkConsumesWithoutError(t *testing.T) {
	t.Parallel()

	sink := NewLogSink(zap.NewNop())
	require.NoError(t, sink.Consume(context.Background(), progress.Event{
		Stage: progress.StageUpload, Message: "Uploaded: doc.pdf",
	}))
	require.NoError(t, sink.Close(context.Background()))
}

func TestPrometheusSinkCountsStages(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	// Emission sequence for a two-page combination: page 1 produces only the
	// fetcher's status event; page 2 adds the pre-fetch announcement.
	events := []progress.Event{
		{Stage: progress.StageComboStart, Message: "Processing category: Civil, year: 2023 (1/1)"},
		{Stage: progress.StageFetch, Message: "Status code for page 1: 200"},
		{Stage: progress.StagePagination, Message: "Found 2 pages for category: Civil, year: 2023"},
		{Stage: progress.StageFetchStart, Message: "Fetching page 2 of 2"},
		{Stage: progress.StageFetch, Message: "Status code for page 2: 200"},
		{Stage: progress.StageFetchError, Message: "failed"},
		{Stage: progress.StageDuplicate, Message: "dup"},
		{Stage: progress.StageUpload, Message: "uploaded"},
		{Stage: progress.StageDone, Message: progress.DoneMessage},
	}
	for _, evt := range events {
		require.NoError(t, sink.Consume(context.Background(), evt))
	}

	// Announcements do not count as fetched pages.
	require.Equal(t, float64(2), testutil.ToFloat64(sink.pagesFetched))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.fetchErrors))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.duplicates))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.pdfsUploaded))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.runsCompleted.WithLabelValues("success")))
}

func TestPrometheusSinkDoubleRegisterFails(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)
	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}
