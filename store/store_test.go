package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"maskccl/ccl"
	"maskccl/filter"
	"maskccl/video/frame"
)

var stats = ccl.Stats{
	{Label: 0, Area: 10, Width: 4, Height: 3, CentroidX: 1.5, CentroidY: 1},
	{Label: 1, Area: 2, Left: 3, Top: 1, Width: 1, Height: 2, CentroidX: 3, CentroidY: 1.5},
}

func TestRecordsRoundTrip(t *testing.T) {
	recs := Records("run-1", 4, stats)
	require.Len(t, recs, 2)
	assert.Equal(t, "run-1", recs[1].RunID)
	assert.Equal(t, 4, recs[1].Frame)
	assert.Equal(t, 1, recs[1].Label)

	var back ccl.Stats
	for _, r := range recs {
		back = append(back, r.Component())
	}
	if diff := cmp.Diff(stats, back); diff != "" {
		t.Errorf("records do not round trip (-want +got):\n%s", diff)
	}
}

func TestStatsWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewStatsWriter(&buf)
	w.RunID = "run-2"

	f := frame.New(frame.Gray8, 4, 3, nil)
	filter.SetStatsProps(f.Props, stats)
	require.NoError(t, w.Put(7, f))

	// Frames without statistics are skipped.
	require.NoError(t, w.Put(8, frame.New(frame.Gray8, 4, 3, nil)))
	require.NoError(t, w.Close())

	sc := bufio.NewScanner(&buf)
	var lines []FrameStats
	for sc.Scan() {
		var fs FrameStats
		require.NoError(t, json.Unmarshal(sc.Bytes(), &fs))
		lines = append(lines, fs)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, "run-2", lines[0].Run)
	assert.Equal(t, 7, lines[0].Frame)
	assert.Equal(t, 2, lines[0].NumLabels)
	assert.Equal(t, stats, lines[0].Components)
}

func TestStatsWriterBadProps(t *testing.T) {
	w := NewStatsWriter(&bytes.Buffer{})
	f := frame.New(frame.Gray8, 1, 1, nil)
	f.Props.SetInt(filter.PropNumLabels, 2)
	assert.Error(t, w.Put(0, f))
}

type statement struct {
	sql  string
	vars []interface{}
}

// dryRunStore builds statements without a server and records every statement
// the store issues.
func dryRunStore(t *testing.T) (*Store, *[]statement) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:1)/maskccl?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	var got []statement
	capture := func(tx *gorm.DB) {
		got = append(got, statement{
			sql:  tx.Statement.SQL.String(),
			vars: append([]interface{}(nil), tx.Statement.Vars...),
		})
	}
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture_create", capture))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))
	return &Store{RunID: "run-3", db: db}, &got
}

func TestStorePutDryRun(t *testing.T) {
	s, got := dryRunStore(t)
	f := frame.New(frame.Gray8, 4, 3, nil)
	filter.SetStatsProps(f.Props, stats)
	require.NoError(t, s.Put(1, f))

	require.Len(t, *got, 1)
	st := (*got)[0]
	assert.Contains(t, st.sql, "INSERT INTO `component_records`")
	for _, col := range []string{"`run_id`", "`frame`", "`label`", "`area`", "`bbox_left`",
		"`bbox_top`", "`bbox_width`", "`bbox_height`", "`centroid_x`", "`centroid_y`"} {
		assert.Contains(t, st.sql, col)
	}
	// Two rows of 13 columns: the gorm.Model timestamps plus the ten above.
	assert.Len(t, st.vars, 26)
	assert.Contains(t, st.vars, "run-3")
	assert.Contains(t, st.vars, 3.0)
	assert.Contains(t, st.vars, 1.5)

	// Frames without statistics issue nothing.
	require.NoError(t, s.Put(2, frame.New(frame.Gray8, 4, 3, nil)))
	assert.Len(t, *got, 1)

	bad := frame.New(frame.Gray8, 1, 1, nil)
	bad.Props.SetInt(filter.PropNumLabels, 2)
	assert.Error(t, s.Put(3, bad))
	assert.Len(t, *got, 1)
}

func TestStoreFrameDryRun(t *testing.T) {
	s, got := dryRunStore(t)
	stats, err := s.Frame("run-9", 4)
	require.NoError(t, err)
	assert.Empty(t, stats)

	require.Len(t, *got, 1)
	st := (*got)[0]
	assert.Contains(t, st.sql, "FROM `component_records`")
	assert.Contains(t, st.sql, "run_id = ? AND frame = ?")
	assert.Contains(t, st.sql, "`deleted_at` IS NULL")
	assert.True(t, strings.HasSuffix(st.sql, "ORDER BY label"), st.sql)
	assert.Equal(t, []interface{}{"run-9", 4}, st.vars)
}
