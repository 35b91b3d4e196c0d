// Package storebun persists internship requests in a Bun-backed SQL
// database. It implements letter.Store over a single internship_requests
// table; records are replaced whole on update.
package storebun

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-letters/letter"
	"github.com/uptrace/bun"
)

// Store reads and writes internship requests through a Bun database.
type Store struct {
	DB *bun.DB
}

var _ letter.Store = (*Store)(nil)

// NewStore creates a Bun-backed request store.
func NewStore(db *bun.DB) *Store {
	return &Store{DB: db}
}

// CreateTable creates the internship_requests table if it does not exist.
func CreateTable(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return letter.NewError(letter.KindNotImpl, "request database not configured", nil)
	}
	if _, err := db.NewCreateTable().Model((*requestModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return letter.NewError(letter.KindStorage, "request table create failed", err)
	}
	return nil
}

// Create stores a new record. IDs are never reused.
func (s *Store) Create(ctx context.Context, record letter.Request) error {
	if s == nil || s.DB == nil {
		return letter.NewError(letter.KindNotImpl, "request database not configured", nil)
	}
	if record.ID == "" {
		return letter.NewError(letter.KindValidation, "request id is required", nil)
	}

	model := modelFromRequest(record)
	if _, err := s.DB.NewInsert().Model(&model).Exec(ctx); err != nil {
		return letter.NewError(letter.KindStorage, "request insert failed", err)
	}
	return nil
}

// Get returns a record by ID.
func (s *Store) Get(ctx context.Context, id string) (letter.Request, error) {
	if s == nil || s.DB == nil {
		return letter.Request{}, letter.NewError(letter.KindNotImpl, "request database not configured", nil)
	}
	if id == "" {
		return letter.Request{}, letter.NewError(letter.KindValidation, "request id is required", nil)
	}

	model := new(requestModel)
	err := s.DB.NewSelect().Model(model).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return letter.Request{}, letter.NewError(letter.KindNotFound, fmt.Sprintf("request %q not found", id), nil)
		}
		return letter.Request{}, letter.NewError(letter.KindStorage, "request select failed", err)
	}
	return model.toRequest(), nil
}

// List returns records matching a filter, newest first.
func (s *Store) List(ctx context.Context, filter letter.Filter) ([]letter.Request, error) {
	if s == nil || s.DB == nil {
		return nil, letter.NewError(letter.KindNotImpl, "request database not configured", nil)
	}

	models := make([]requestModel, 0)
	query := s.DB.NewSelect().Model(&models)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("created_at <= ?", filter.Until)
	}
	query = query.Order("created_at DESC", "id DESC")

	if err := query.Scan(ctx); err != nil {
		return nil, letter.NewError(letter.KindStorage, "request list failed", err)
	}

	records := make([]letter.Request, 0, len(models))
	for _, model := range models {
		records = append(records, model.toRequest())
	}
	return records, nil
}

// Update replaces an existing record. Last writer wins.
func (s *Store) Update(ctx context.Context, record letter.Request) error {
	if s == nil || s.DB == nil {
		return letter.NewError(letter.KindNotImpl, "request database not configured", nil)
	}
	if record.ID == "" {
		return letter.NewError(letter.KindValidation, "request id is required", nil)
	}

	model := modelFromRequest(record)
	res, err := s.DB.NewUpdate().Model(&model).Where("id = ?", record.ID).Exec(ctx)
	if err != nil {
		return letter.NewError(letter.KindStorage, "request update failed", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return letter.NewError(letter.KindNotFound, fmt.Sprintf("request %q not found", record.ID), nil)
	}
	return nil
}

type requestModel struct {
	bun.BaseModel `bun:"table:internship_requests,alias:internship_requests"`

	ID              string    `bun:",pk"`
	StudentName     string    `bun:"student_name,notnull"`
	CollegeName     string    `bun:"college_name,notnull"`
	Course          string    `bun:"course,notnull"`
	DurationStart   time.Time `bun:"duration_start"`
	DurationEnd     time.Time `bun:"duration_end"`
	ReferenceNumber string    `bun:"reference_number,notnull"`
	Email           string    `bun:"email"`
	Status          string    `bun:"status,notnull"`
	PermissionKey   string    `bun:"permission_key"`
	LetterKey       string    `bun:"letter_key"`
	IssuedAt        time.Time `bun:"issued_at,nullzero"`
	GeneratedAt     time.Time `bun:"generated_at,nullzero"`
	CreatedAt       time.Time `bun:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at"`
}

func modelFromRequest(record letter.Request) requestModel {
	return requestModel{
		ID:              record.ID,
		StudentName:     record.StudentName,
		CollegeName:     record.CollegeName,
		Course:          record.Course,
		DurationStart:   record.DurationStart,
		DurationEnd:     record.DurationEnd,
		ReferenceNumber: record.ReferenceNumber,
		Email:           record.Email,
		Status:          string(record.Status),
		PermissionKey:   record.PermissionKey,
		LetterKey:       record.LetterKey,
		IssuedAt:        record.IssuedAt,
		GeneratedAt:     record.GeneratedAt,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func (m requestModel) toRequest() letter.Request {
	return letter.Request{
		ID:              m.ID,
		StudentName:     m.StudentName,
		CollegeName:     m.CollegeName,
		Course:          m.Course,
		DurationStart:   m.DurationStart,
		DurationEnd:     m.DurationEnd,
		ReferenceNumber: m.ReferenceNumber,
		Email:           m.Email,
		Status:          letter.Status(m.Status),
		PermissionKey:   m.PermissionKey,
		LetterKey:       m.LetterKey,
		IssuedAt:        m.IssuedAt,
		GeneratedAt:     m.GeneratedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
