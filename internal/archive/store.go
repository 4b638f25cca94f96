package archive

import (
	"context"
	"errors"

	"github.com/eleven-am/scene-narrator/internal/narration"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrNotFound = errors.New("record not found")

// Store persists one row per narration request.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = "nar_" + uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// Record implements narration.Recorder.
func (s *Store) Record(ctx context.Context, outcome narration.Outcome) error {
	return s.Save(ctx, FromOutcome(outcome))
}

func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent returns the newest records first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var recs []*Record
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func FromOutcome(o narration.Outcome) *Record {
	rec := &Record{
		ObservedAt:  o.ObservedAt,
		ObjectCount: o.ObjectCount,
		Variant:     o.Variant,
		Model:       o.Model,
		LatencyMs:   o.Latency.Milliseconds(),
	}
	if o.Result.Succeeded() {
		text := o.Result.Narration
		rec.Narration = &text
		return rec
	}
	msg := o.Result.Err.Error()
	rec.Error = &msg
	rec.ErrorKind = string(o.Result.Err.Kind)
	return rec
}
