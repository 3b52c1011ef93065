package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "ipmds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleReport() *model.DiffReport {
	return &model.DiffReport{
		HeaderMapping: map[string]model.Field{
			"项目": model.FieldProject,
			"房号": model.FieldUnitCode,
		},
		Rows: []model.DiffRow{
			{
				RowNo:       2,
				ActionType:  model.ActionNew,
				BusinessKey: "滨江一号|A-1203",
				EntityType:  "unit",
				AfterData: model.Row{
					model.FieldProject:  model.String("滨江一号"),
					model.FieldUnitCode: model.String("A-1203"),
				},
				FieldDiffs: map[model.Field]model.FieldDiff{
					model.FieldProject:  {Before: model.Absent(), After: model.String("滨江一号")},
					model.FieldUnitCode: {Before: model.Absent(), After: model.String("A-1203")},
				},
			},
			{
				RowNo:       3,
				ActionType:  model.ActionChanged,
				BusinessKey: "滨江一号|A-1204",
				EntityType:  "unit",
				BeforeData: model.Row{
					model.FieldAreaM2: model.Number(88.5),
				},
				AfterData: model.Row{
					model.FieldAreaM2: model.Number(90),
				},
				FieldDiffs: map[model.Field]model.FieldDiff{
					model.FieldAreaM2: {Before: model.Number(88.5), After: model.Number(90)},
				},
			},
			{
				RowNo:       4,
				ActionType:  model.ActionUnchanged,
				BusinessKey: "滨江一号|A-1205",
				EntityType:  "unit",
				AfterData: model.Row{
					model.FieldUnitCode: model.String("A-1205"),
				},
				FieldDiffs: map[model.Field]model.FieldDiff{},
			},
			{
				RowNo:        5,
				ActionType:   model.ActionError,
				BusinessKey:  "滨江一号|A-1206",
				EntityType:   "unit",
				AfterData:    model.Row{model.FieldUnitCode: model.String("A-1206")},
				FieldDiffs:   map[model.Field]model.FieldDiff{},
				ErrorMessage: "签约日期仅为年份，缺少月日: 2024",
			},
		},
		Summary: model.DiffSummary{
			TotalRows: 4, NewRows: 1, ChangedRows: 1, UnchangedRows: 1, ErrorRows: 1,
		},
	}
}

func saveSample(t *testing.T, s *Store) string {
	t.Helper()
	logID := uuid.NewString()
	err := s.SaveDiffReport(logID, "units.xlsx", "/data/uploads/units.xlsx", "abc123", sampleReport())
	require.NoError(t, err)
	return logID
}

func TestSaveAndGetImportLog(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	logID := saveSample(t, s)

	log, err := s.GetImportLog(logID)
	require.NoError(t, err)
	assert.Equal(t, logID, log.ID)
	assert.Equal(t, "units.xlsx", log.SourceFileName)
	assert.Equal(t, model.StatusDiffed, log.Status)
	assert.Equal(t, 4, log.Summary.TotalRows)
	assert.Equal(t, model.FieldUnitCode, log.HeaderMapping["房号"])
	assert.NotEmpty(t, log.CreatedAt)
	assert.Empty(t, log.ConfirmedAt)
}

func TestGetImportLog_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetImportLog(uuid.NewString())
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestGetImportRows(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	logID := saveSample(t, s)

	rows, err := s.GetImportRows(logID)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, 2, rows[0].RowNo)
	assert.Equal(t, model.ActionNew, rows[0].ActionType)
	assert.True(t, rows[0].FieldDiffs[model.FieldProject].Before.IsAbsent())
	assert.Equal(t, model.String("滨江一号"), rows[0].FieldDiffs[model.FieldProject].After)

	assert.Equal(t, model.ActionChanged, rows[1].ActionType)
	assert.Equal(t, model.Number(88.5), rows[1].BeforeData[model.FieldAreaM2])
	assert.Equal(t, model.Number(90), rows[1].FieldDiffs[model.FieldAreaM2].After)

	assert.Equal(t, model.ActionError, rows[3].ActionType)
	assert.NotEmpty(t, rows[3].ErrorMessage)
}

func TestGetImportRows_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetImportRows(uuid.NewString())
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestListImportLogs(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	first := saveSample(t, s)
	second := saveSample(t, s)

	logs, err := s.ListImportLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	ids := []string{logs[0].ID, logs[1].ID}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)

	limited, err := s.ListImportLogs(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCommitImportLog(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	logID := saveSample(t, s)

	require.NoError(t, s.CommitImportLog(logID))

	log, err := s.GetImportLog(logID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, log.Status)
	assert.NotEmpty(t, log.ConfirmedAt)

	// NEW 行 2 个字段 + CHANGED 行 1 个字段；UNCHANGED/ERROR 不产生审计
	audits, err := s.GetChangeAudits(logID)
	require.NoError(t, err)
	require.Len(t, audits, 3)
	for _, audit := range audits {
		assert.True(t, audit.Applied)
	}

	areaAudit := audits[len(audits)-1]
	assert.Equal(t, 3, areaAudit.RowNo)
	assert.Equal(t, model.FieldAreaM2, areaAudit.FieldName)
	assert.Equal(t, model.Number(88.5), areaAudit.BeforeValue)
	assert.Equal(t, model.Number(90), areaAudit.AfterValue)
}

func TestCommitImportLog_Twice(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	logID := saveSample(t, s)

	require.NoError(t, s.CommitImportLog(logID))
	err := s.CommitImportLog(logID)
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestCommitImportLog_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.CommitImportLog(uuid.NewString())
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestRollbackImportLog(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	logID := saveSample(t, s)

	// 未确认不能回滚
	assert.ErrorIs(t, s.RollbackImportLog(logID), ErrBadStatus)

	require.NoError(t, s.CommitImportLog(logID))
	require.NoError(t, s.RollbackImportLog(logID))

	log, err := s.GetImportLog(logID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRolledBack, log.Status)
	assert.NotEmpty(t, log.RolledBackAt)

	audits, err := s.GetChangeAudits(logID)
	require.NoError(t, err)
	for _, audit := range audits {
		assert.False(t, audit.Applied)
	}

	// 回滚后不能再次确认或回滚
	assert.ErrorIs(t, s.CommitImportLog(logID), ErrBadStatus)
	assert.ErrorIs(t, s.RollbackImportLog(logID), ErrBadStatus)
}

func TestCountImportLogs(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	total, lastImportAt, err := s.CountImportLogs()
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, lastImportAt)

	saveSample(t, s)
	total, lastImportAt, err = s.CountImportLogs()
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NotEmpty(t, lastImportAt)
}
