package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paysim/internal/report"
)

var _ report.Reporter = (*RecordingReporter)(nil)

func TestRecordingReporter(t *testing.T) {
	rec := &RecordingReporter{}
	assert.Empty(t, rec.ProgressSnapshots())
	assert.Empty(t, rec.FinalSnapshots())

	first, second := report.New(1), report.New(2)
	rec.Progress(first)
	rec.Progress(second)
	rec.Final(second)

	progress := rec.ProgressSnapshots()
	require.Len(t, progress, 2)
	assert.Same(t, first, progress[0])
	assert.Same(t, second, progress[1])

	finals := rec.FinalSnapshots()
	require.Len(t, finals, 1)
	assert.Same(t, second, finals[0])
}
