package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"outage-resilience/internal/model"
	"outage-resilience/internal/resilience"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// StoredRun is a completed resilience run persisted to the sqlite database.
// The full result, including the hourly series and curve matrices, is kept as JSON.
type StoredRun struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time `gorm:"index"`

	EnergyCapacityKWh   float64
	PowerCapacityKW     float64
	RoundTripEfficiency float64

	Hours      int
	MinHours   int
	MaxHours   int
	AvgHours   float64
	Degenerate bool

	ResultJSON string
}

// Result decodes the stored aggregate result.
func (r *StoredRun) Result() (*resilience.Result, error) {
	var res resilience.Result
	if err := json.Unmarshal([]byte(r.ResultJSON), &res); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", r.ID, err)
	}
	return &res, nil
}

// Battery returns the parameters the run was computed with.
func (r *StoredRun) Battery() model.BatteryParams {
	return model.BatteryParams{
		EnergyCapacityKWh:   r.EnergyCapacityKWh,
		PowerCapacityKW:     r.PowerCapacityKW,
		RoundTripEfficiency: r.RoundTripEfficiency,
	}
}

// NewStoredRun flattens a result for persistence.
func NewStoredRun(id, name string, battery model.BatteryParams, res *resilience.Result) (*StoredRun, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &StoredRun{
		ID:                  id,
		Name:                name,
		EnergyCapacityKWh:   battery.EnergyCapacityKWh,
		PowerCapacityKW:     battery.PowerCapacityKW,
		RoundTripEfficiency: battery.RoundTripEfficiency,
		Hours:               res.Len(),
		MinHours:            res.MinHours,
		MaxHours:            res.MaxHours,
		AvgHours:            res.AvgHours,
		Degenerate:          res.Degenerate,
		ResultJSON:          string(raw),
	}, nil
}

// Repository stores resilience runs to the local file system (sqlite).
type Repository struct {
	db *gorm.DB
}

func New(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Migrate the schema
	if err := db.AutoMigrate(&StoredRun{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) SaveRun(run *StoredRun) error {
	return r.db.Create(run).Error
}

func (r *Repository) GetRun(id string) (*StoredRun, error) {
	var run StoredRun
	err := r.db.Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs without their result payloads.
func (r *Repository) ListRuns(limit int) ([]StoredRun, error) {
	var runs []StoredRun
	result := r.db.Omit("result_json").Order("created_at desc").Limit(limit).Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
