package store

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"maskccl/ccl"
	"maskccl/filter"
	"maskccl/video/frame"
)

// ComponentRecord is one labeled component of one frame.
type ComponentRecord struct {
	gorm.Model

	RunID string `gorm:"size:36;index:idx_run_frame"`
	Frame int    `gorm:"index:idx_run_frame"`
	Label int

	Area      int
	Left      int `gorm:"column:bbox_left"`
	Top       int `gorm:"column:bbox_top"`
	Width     int `gorm:"column:bbox_width"`
	Height    int `gorm:"column:bbox_height"`
	CentroidX float64
	CentroidY float64
}

// Records converts the statistics of one frame into rows.
func Records(runID string, n int, stats ccl.Stats) []ComponentRecord {
	out := make([]ComponentRecord, 0, len(stats))
	for _, c := range stats {
		out = append(out, ComponentRecord{
			RunID:     runID,
			Frame:     n,
			Label:     c.Label,
			Area:      c.Area,
			Left:      c.Left,
			Top:       c.Top,
			Width:     c.Width,
			Height:    c.Height,
			CentroidX: c.CentroidX,
			CentroidY: c.CentroidY,
		})
	}
	return out
}

func (r ComponentRecord) Component() ccl.Component {
	return ccl.Component{
		Label:     r.Label,
		Area:      r.Area,
		Left:      r.Left,
		Top:       r.Top,
		Width:     r.Width,
		Height:    r.Height,
		CentroidX: r.CentroidX,
		CentroidY: r.CentroidY,
	}
}

// Store persists the statistics carried by GetCCLStats frames. Frames without
// statistics are ignored.
type Store struct {
	// RunID tags every row written. Set it before each run.
	RunID string

	db *gorm.DB
}

// Open connects to MySQL with a DSN such as
// "user:pass@tcp(127.0.0.1:3306)/maskccl?parseTime=true".
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return New(db)
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&ComponentRecord{}); err != nil {
		return nil, fmt.Errorf("migrating component records: %w", err)
	}
	log.Infof("Component statistics store ready")
	return &Store{db: db}, nil
}

func (s *Store) Put(n int, f *frame.Frame) error {
	if !filter.HasStats(f.Props) {
		return nil
	}
	stats, err := filter.StatsFromProps(f.Props)
	if err != nil {
		return err
	}
	recs := Records(s.RunID, n, stats)
	return s.db.CreateInBatches(recs, 500).Error
}

// Frame loads the statistics stored for frame n of a run, in label order.
func (s *Store) Frame(runID string, n int) (ccl.Stats, error) {
	var recs []ComponentRecord
	err := s.db.Where("run_id = ? AND frame = ?", runID, n).Order("label").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	stats := make(ccl.Stats, 0, len(recs))
	for _, r := range recs {
		stats = append(stats, r.Component())
	}
	return stats, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
