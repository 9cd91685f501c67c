package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	"github.com/shiftbridge/staffing_app/internal/utils/scheduling"
	"github.com/shiftbridge/staffing_app/internal/utils/timeconv"
)

type PgxRecurrenceDayRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRecurrenceDayRepository creates a new repository for shift instance data.
func NewPgxRecurrenceDayRepository(pool *pgxpool.Pool) repositories.RecurrenceDayRepositoryFacade {
	return &PgxRecurrenceDayRepository{pool: pool}
}

var _ repositories.RecurrenceDayRepositoryFacade = (*PgxRecurrenceDayRepository)(nil)

// The four *_time text columns are the legacy representation of a shift's
// times, kept for rows imported before the grouped timestamptz columns
// existed. scanRecurrenceDay folds both shapes into the canonical instants so
// nothing outside this file ever sees the legacy shape.
const recurrenceDayColumns = `recurrence_day_id, requisition_id, date, day_start, day_end, lunch_start, lunch_end, day_start_time, day_end_time, lunch_start_time, lunch_end_time, status, archived, created_at, created_by, last_updated_at, last_updated_by`

func scanRecurrenceDay(row pgx.Row) (*domain.RecurrenceDay, error) {
	var d domain.RecurrenceDay
	var dayStart, dayEnd, lunchStart, lunchEnd *time.Time
	var dayStartTime, dayEndTime, lunchStartTime, lunchEndTime *string

	err := row.Scan(
		&d.RecurrenceDayID,
		&d.RequisitionID,
		&d.Date,
		&dayStart,
		&dayEnd,
		&lunchStart,
		&lunchEnd,
		&dayStartTime,
		&dayEndTime,
		&lunchStartTime,
		&lunchEndTime,
		&d.Status,
		&d.Archived,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	window, err := scheduling.Normalize(scheduling.RawShift{
		DayStart:       dayStart,
		DayEnd:         dayEnd,
		LunchStart:     lunchStart,
		LunchEnd:       lunchEnd,
		DayStartTime:   str(dayStartTime),
		DayEndTime:     str(dayEndTime),
		LunchStartTime: str(lunchStartTime),
		LunchEndTime:   str(lunchEndTime),
	})
	if err != nil {
		return nil, fmt.Errorf("bad shift times on recurrence day %s: %w", d.RecurrenceDayID, err)
	}

	instantOr := func(stored *time.Time, clock string) (time.Time, error) {
		if stored != nil {
			return stored.UTC(), nil
		}
		return timeconv.LocalToUTC(d.Date, clock, "UTC")
	}
	if d.DayStart, err = instantOr(dayStart, window.Start); err != nil {
		return nil, fmt.Errorf("bad shift times on recurrence day %s: %w", d.RecurrenceDayID, err)
	}
	if d.DayEnd, err = instantOr(dayEnd, window.End); err != nil {
		return nil, fmt.Errorf("bad shift times on recurrence day %s: %w", d.RecurrenceDayID, err)
	}
	if window.LunchStart != "" && window.LunchEnd != "" {
		ls, err := instantOr(lunchStart, window.LunchStart)
		if err != nil {
			return nil, fmt.Errorf("bad shift times on recurrence day %s: %w", d.RecurrenceDayID, err)
		}
		le, err := instantOr(lunchEnd, window.LunchEnd)
		if err != nil {
			return nil, fmt.Errorf("bad shift times on recurrence day %s: %w", d.RecurrenceDayID, err)
		}
		d.LunchStart, d.LunchEnd = &ls, &le
	}
	return &d, nil
}

// SaveRecurrenceDays bulk-inserts shift instances in one transaction, using
// pgx batching. New rows are always written in the grouped-instant shape; the
// legacy columns stay NULL.
func (r *PgxRecurrenceDayRepository) SaveRecurrenceDays(ctx context.Context, days []domain.RecurrenceDay) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	query := `
		INSERT INTO recurrence_days (recurrence_day_id, requisition_id, date, day_start, day_end, lunch_start, lunch_end, status, archived, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, d := range days {
		batch.Queue(query,
			d.RecurrenceDayID,
			d.RequisitionID,
			d.Date,
			d.DayStart,
			d.DayEnd,
			d.LunchStart,
			d.LunchEnd,
			d.Status,
			d.Archived,
			d.CreatedAt,
			d.CreatedBy,
			d.LastUpdatedAt,
			d.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute recurrence day batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recurrence day batch: %w", err)
	}
	return nil
}

func (r *PgxRecurrenceDayRepository) FindRecurrenceDayByID(ctx context.Context, recurrenceDayID string) (*domain.RecurrenceDay, error) {
	query := `
		SELECT ` + recurrenceDayColumns + `
		FROM recurrence_days
		WHERE recurrence_day_id = $1 AND NOT archived;
	`
	day, err := scanRecurrenceDay(r.pool.QueryRow(ctx, query, recurrenceDayID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurrence day by ID %s: %w", recurrenceDayID, err)
	}
	return day, nil
}

func (r *PgxRecurrenceDayRepository) ListRecurrenceDaysByRequisition(ctx context.Context, requisitionID string) ([]domain.RecurrenceDay, error) {
	query := `
		SELECT ` + recurrenceDayColumns + `
		FROM recurrence_days
		WHERE requisition_id = $1 AND NOT archived
		ORDER BY date, recurrence_day_id;
	`
	return r.queryDays(ctx, query, requisitionID)
}

func (r *PgxRecurrenceDayRepository) ListRecurrenceDaysInWeek(ctx context.Context, requisitionID string, weekBegin time.Time) ([]domain.RecurrenceDay, error) {
	weekEnd := weekBegin.AddDate(0, 0, 7)
	query := `
		SELECT ` + recurrenceDayColumns + `
		FROM recurrence_days
		WHERE requisition_id = $1 AND NOT archived
			AND date >= $2 AND date < $3
		ORDER BY date, recurrence_day_id;
	`
	return r.queryDays(ctx, query, requisitionID, weekBegin.Format(timeconv.DateLayout), weekEnd.Format(timeconv.DateLayout))
}

func (r *PgxRecurrenceDayRepository) queryDays(ctx context.Context, query string, args ...interface{}) ([]domain.RecurrenceDay, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurrence days: %w", err)
	}
	defer rows.Close()

	days := []domain.RecurrenceDay{}
	for rows.Next() {
		day, err := scanRecurrenceDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurrence day row: %w", err)
		}
		days = append(days, *day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurrence day rows: %w", err)
	}
	return days, nil
}

// UpdateRecurrenceDay rewrites a shift's times in the grouped-instant shape
// and clears the legacy columns so the row never carries both.
func (r *PgxRecurrenceDayRepository) UpdateRecurrenceDay(ctx context.Context, day domain.RecurrenceDay) error {
	query := `
		UPDATE recurrence_days
		SET date = $1, day_start = $2, day_end = $3, lunch_start = $4, lunch_end = $5,
			day_start_time = NULL, day_end_time = NULL, lunch_start_time = NULL, lunch_end_time = NULL,
			last_updated_at = $6, last_updated_by = $7
		WHERE recurrence_day_id = $8 AND NOT archived;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		day.Date,
		day.DayStart,
		day.DayEnd,
		day.LunchStart,
		day.LunchEnd,
		day.LastUpdatedAt,
		day.LastUpdatedBy,
		day.RecurrenceDayID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurrence day %s: %w", day.RecurrenceDayID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecurrenceDayRepository) UpdateRecurrenceDayStatus(ctx context.Context, recurrenceDayID string, status domain.RecurrenceDayStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE recurrence_days
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE recurrence_day_id = $4 AND NOT archived;
	`
	cmdTag, err := r.pool.Exec(ctx, query, status, updatedAt, updatedBy, recurrenceDayID)
	if err != nil {
		return fmt.Errorf("failed to update recurrence day status %s: %w", recurrenceDayID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRecurrenceDay removes a shift instance. With force, the shift's
// workday and a still-DRAFT linked timesheet go in the same transaction; a
// submitted timesheet row is never deleted here. Any workday not removed in
// the force path keeps its row and has recurrence_day_id nulled by the FK.
func (r *PgxRecurrenceDayRepository) DeleteRecurrenceDay(ctx context.Context, recurrenceDayID string, force bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if force {
		delSheet := `
			DELETE FROM timesheets
			WHERE status = 'DRAFT' AND timesheet_id IN (
				SELECT timesheet_id FROM workdays WHERE recurrence_day_id = $1
			);
		`
		if _, err := tx.Exec(ctx, delSheet, recurrenceDayID); err != nil {
			return fmt.Errorf("failed to delete draft timesheet for recurrence day %s: %w", recurrenceDayID, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM workdays WHERE recurrence_day_id = $1;`, recurrenceDayID); err != nil {
			return fmt.Errorf("failed to delete workday for recurrence day %s: %w", recurrenceDayID, err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM recurrence_days WHERE recurrence_day_id = $1;`, recurrenceDayID)
	if err != nil {
		return fmt.Errorf("failed to delete recurrence day %s: %w", recurrenceDayID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recurrence day delete %s: %w", recurrenceDayID, err)
	}
	return nil
}
