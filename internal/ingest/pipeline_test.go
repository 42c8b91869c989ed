package ingest

import (
	"context"
	"testing"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/dedup"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGate struct {
	match   *dedup.Match
	err     error
	keepNew bool

	lastInput dedup.FindDuplicateInput
}

func (g *fakeGate) FindDuplicate(ctx context.Context, in dedup.FindDuplicateInput) (*dedup.Match, error) {
	g.lastInput = in
	return g.match, g.err
}

func (g *fakeGate) ResolveKeepNew(ctx context.Context, newSourceID, existingSourceID string) bool {
	return g.keepNew
}

type fakeJobWriter struct {
	insertErr    error
	insertResult bool
	markErr      error

	inserted []string
	marked   []string
}

func (w *fakeJobWriter) InsertJob(ctx context.Context, rec *models.ExternalJobRecord) (bool, error) {
	if w.insertErr != nil {
		return false, w.insertErr
	}
	w.inserted = append(w.inserted, rec.ID)
	return w.insertResult, nil
}

func (w *fakeJobWriter) MarkDuplicate(ctx context.Context, id string) (bool, error) {
	if w.markErr != nil {
		return false, w.markErr
	}
	w.marked = append(w.marked, id)
	return true, nil
}

func testRecord() *models.ExternalJobRecord {
	return &models.ExternalJobRecord{
		ID:            "rec-1",
		SourceID:      "src-jooble",
		SourceName:    "jooble_api",
		ExternalID:    "ext-1",
		Title:         "Senior Mortgage Underwriter",
		CompanyName:   "First National",
		LocationCity:  "Dallas",
		LocationState: "TX",
		Status:        models.StatusPending,
	}
}

func TestProcess_NoDuplicateInserts(t *testing.T) {
	gate := &fakeGate{}
	jobs := &fakeJobWriter{insertResult: true}
	p := NewPipeline(gate, jobs, zap.NewNop())

	outcome, err := p.Process(context.Background(), testRecord())

	require.NoError(t, err)
	assert.Equal(t, OutcomeInserted, outcome.Status)
	assert.Equal(t, []string{"rec-1"}, jobs.inserted)
	assert.Empty(t, jobs.marked)
	assert.Equal(t, "src-jooble", gate.lastInput.ExcludeSourceID)
}

func TestProcess_ReplayedRecordSkipped(t *testing.T) {
	gate := &fakeGate{}
	jobs := &fakeJobWriter{insertResult: false}
	p := NewPipeline(gate, jobs, zap.NewNop())

	outcome, err := p.Process(context.Background(), testRecord())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome.Status)
	assert.Empty(t, jobs.marked)
}

func TestProcess_ExistingWinsNewFlaggedDuplicate(t *testing.T) {
	gate := &fakeGate{
		match: &dedup.Match{
			ExistingID:       "rec-existing",
			ExistingSourceID: "src-indeed",
			TitleSimilarity:  1.0,
		},
		keepNew: false,
	}
	jobs := &fakeJobWriter{insertResult: true}
	p := NewPipeline(gate, jobs, zap.NewNop())

	outcome, err := p.Process(context.Background(), testRecord())

	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome.Status)
	assert.Equal(t, "rec-1", outcome.RecordID)
	// The new record is stored and then flagged; the existing one is untouched.
	assert.Equal(t, []string{"rec-1"}, jobs.inserted)
	assert.Equal(t, []string{"rec-1"}, jobs.marked)
}

func TestProcess_NewWinsSupersedesExisting(t *testing.T) {
	gate := &fakeGate{
		match: &dedup.Match{
			ExistingID:       "rec-existing",
			ExistingSourceID: "src-rss",
			TitleSimilarity:  0.9,
		},
		keepNew: true,
	}
	jobs := &fakeJobWriter{insertResult: true}
	p := NewPipeline(gate, jobs, zap.NewNop())

	outcome, err := p.Process(context.Background(), testRecord())

	require.NoError(t, err)
	assert.Equal(t, OutcomeInserted, outcome.Status)
	assert.Equal(t, []string{"rec-1"}, jobs.inserted)
	assert.Equal(t, []string{"rec-existing"}, jobs.marked)
}

func TestProcess_SupersedeMarkFailureRecoversOnReplay(t *testing.T) {
	gate := &fakeGate{
		match: &dedup.Match{
			ExistingID:       "rec-existing",
			ExistingSourceID: "src-rss",
			TitleSimilarity:  0.9,
		},
		keepNew: true,
	}
	jobs := &fakeJobWriter{insertResult: true, markErr: assert.AnError}
	p := NewPipeline(gate, jobs, zap.NewNop())

	_, err := p.Process(context.Background(), testRecord())
	require.Error(t, err)
	// The new record landed but the supersede did not; both records are live.
	assert.Equal(t, []string{"rec-1"}, jobs.inserted)
	assert.Empty(t, jobs.marked)

	// The next sync cycle re-dispatches the record: the insert is a replay
	// and the mark of the existing record is retried.
	jobs.markErr = nil
	jobs.insertResult = false

	outcome, err := p.Process(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome.Status)
	assert.Equal(t, []string{"rec-existing"}, jobs.marked)
}

func TestProcess_GateErrorDoesNotInsert(t *testing.T) {
	gate := &fakeGate{err: errors.Unavailable("candidate lookup", assert.AnError)}
	jobs := &fakeJobWriter{insertResult: true}
	p := NewPipeline(gate, jobs, zap.NewNop())

	outcome, err := p.Process(context.Background(), testRecord())

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Empty(t, jobs.inserted)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnavailable))
}

func TestProcessRaw_MalformedPayload(t *testing.T) {
	p := NewPipeline(&fakeGate{}, &fakeJobWriter{}, zap.NewNop())

	outcome, err := p.ProcessRaw(context.Background(), []byte("{not json"))

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
}

func TestProcessRaw_RoundTrip(t *testing.T) {
	gate := &fakeGate{}
	jobs := &fakeJobWriter{insertResult: true}
	p := NewPipeline(gate, jobs, zap.NewNop())

	rec := testRecord()
	data, err := rec.MarshalBinary()
	require.NoError(t, err)

	outcome, err := p.ProcessRaw(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, OutcomeInserted, outcome.Status)
	assert.Equal(t, "Senior Mortgage Underwriter", gate.lastInput.Title)
}
