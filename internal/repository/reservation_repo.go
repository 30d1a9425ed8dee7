package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"costaverde/internal/db"
	"costaverde/internal/entities"
	apperrors "costaverde/internal/errors"
	"costaverde/internal/interval"
)

const reservationColumns = `
	id, code, resource_id, resource_kind, guest_name, guest_email, guest_phone,
	guest_count, start_time, end_time, status, payment_status, subtotal,
	reservation_fee, security_deposit, total_amount, deposit_returned,
	special_requests, source, created_at, updated_at`

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

// WithTx runs fn inside a single transaction. Used to make the overlap check
// and insert of a reserve attempt atomic.
func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := withTx(ctx, r.DB, fn)
	if err != nil && isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrTransient, err)
	}
	return err
}

// GetResourceForUpdate loads a resource and locks its row for the duration of
// the surrounding transaction, serializing concurrent reserve attempts
// against the same resource.
func (r *ReservationRepository) GetResourceForUpdate(ctx context.Context, id string) (*db.Resource, error) {
	query := `
		SELECT id, kind, name, category, adults, children, seats, rate, is_available, created_at, updated_at
		FROM resources WHERE id = $1 FOR UPDATE`
	return r.scanResource(q(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *ReservationRepository) GetResource(ctx context.Context, id string) (*db.Resource, error) {
	query := `
		SELECT id, kind, name, category, adults, children, seats, rate, is_available, created_at, updated_at
		FROM resources WHERE id = $1`
	return r.scanResource(q(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *ReservationRepository) scanResource(row *sql.Row) (*db.Resource, error) {
	var res db.Resource
	err := row.Scan(&res.ID, &res.Kind, &res.Name, &res.Category, &res.Adults, &res.Children,
		&res.Seats, &res.Rate, &res.IsAvailable, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resource: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying resource: %w", err)
	}
	return &res, nil
}

// ListActiveIntervals returns the intervals of every occupying reservation on
// a resource. Cancelled and finished reservations release their interval by
// dropping out of this set.
func (r *ReservationRepository) ListActiveIntervals(ctx context.Context, resourceID string) ([]interval.Interval, error) {
	query := `
		SELECT start_time, end_time
		FROM reservations
		WHERE resource_id = $1
		  AND status IN ('pending', 'confirmed', 'checked-in', 'active')
		ORDER BY start_time`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("error querying active intervals: %w", err)
	}
	defer rows.Close()

	var out []interval.Interval
	for rows.Next() {
		var iv interval.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("error scanning interval: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(code, resource_id, resource_kind, guest_name, guest_email, guest_phone, guest_count,
		 start_time, end_time, status, payment_status, subtotal, reservation_fee,
		 security_deposit, total_amount, deposit_returned, special_requests, source,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	return q(ctx, r.DB).QueryRowContext(ctx, query,
		res.Code,
		res.ResourceID,
		res.ResourceKind,
		res.GuestName,
		res.GuestEmail,
		res.GuestPhone,
		res.GuestCount,
		res.StartTime,
		res.EndTime,
		res.Status,
		res.PaymentStatus,
		res.Subtotal,
		res.ReservationFee,
		res.SecurityDeposit,
		res.TotalAmount,
		res.DepositReturned,
		res.SpecialRequests,
		res.Source,
		res.CreatedAt,
		res.UpdatedAt,
	).Scan(&res.ID)
}

func (r *ReservationRepository) GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE code = $1`
	return r.scanReservation(q(ctx, r.DB).QueryRowContext(ctx, query, code))
}

// GetReservationForUpdate locks the reservation row so status changes
// serialize with each other and with reserve attempts.
func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, code string) (*db.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE code = $1 FOR UPDATE`
	return r.scanReservation(q(ctx, r.DB).QueryRowContext(ctx, query, code))
}

func (r *ReservationRepository) scanReservation(row *sql.Row) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(
		&res.ID, &res.Code, &res.ResourceID, &res.ResourceKind, &res.GuestName, &res.GuestEmail,
		&res.GuestPhone, &res.GuestCount, &res.StartTime, &res.EndTime, &res.Status,
		&res.PaymentStatus, &res.Subtotal, &res.ReservationFee, &res.SecurityDeposit,
		&res.TotalAmount, &res.DepositReturned, &res.SpecialRequests, &res.Source,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying reservation: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, code, status string, updatedAt time.Time) error {
	result, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = $2 WHERE code = $3`,
		status, updatedAt, code)
	if err != nil {
		return fmt.Errorf("error updating reservation status: %w", err)
	}
	return requireOneRow(result, "reservation")
}

func (r *ReservationRepository) UpdateReservationPayment(ctx context.Context, code, paymentStatus string, depositReturned bool, updatedAt time.Time) error {
	result, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE reservations SET payment_status = $1, deposit_returned = $2, updated_at = $3 WHERE code = $4`,
		paymentStatus, depositReturned, updatedAt, code)
	if err != nil {
		return fmt.Errorf("error updating payment status: %w", err)
	}
	return requireOneRow(result, "reservation")
}

func requireOneRow(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, apperrors.ErrNotFound)
	}
	return nil
}

// ListReservations returns reservations matching the staff filter, newest
// start first.
func (r *ReservationRepository) ListReservations(ctx context.Context, filter entities.ReservationFilter) ([]*db.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.Status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.PaymentStatus != "" {
		query += " AND payment_status = $" + strconv.Itoa(idx)
		args = append(args, filter.PaymentStatus)
		idx++
	}
	if !filter.From.IsZero() {
		query += " AND end_time > $" + strconv.Itoa(idx)
		args = append(args, filter.From)
		idx++
	}
	if !filter.To.IsZero() {
		query += " AND start_time < $" + strconv.Itoa(idx)
		args = append(args, filter.To)
		idx++
	}
	if filter.Search != "" {
		query += " AND (code ILIKE $" + strconv.Itoa(idx) +
			" OR guest_name ILIKE $" + strconv.Itoa(idx) +
			" OR guest_email ILIKE $" + strconv.Itoa(idx) + ")"
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	query += " ORDER BY start_time DESC"

	rows, err := q(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	var out []*db.Reservation
	for rows.Next() {
		var res db.Reservation
		err := rows.Scan(
			&res.ID, &res.Code, &res.ResourceID, &res.ResourceKind, &res.GuestName, &res.GuestEmail,
			&res.GuestPhone, &res.GuestCount, &res.StartTime, &res.EndTime, &res.Status,
			&res.PaymentStatus, &res.Subtotal, &res.ReservationFee, &res.SecurityDeposit,
			&res.TotalAmount, &res.DepositReturned, &res.SpecialRequests, &res.Source,
			&res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// CountOccupyingReservations counts reservations still holding an interval on
// the resource, used to guard resource deletion.
func (r *ReservationRepository) CountOccupyingReservations(ctx context.Context, resourceID string) (int, error) {
	var n int
	err := q(ctx, r.DB).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE resource_id = $1
		  AND status IN ('pending', 'confirmed', 'checked-in', 'active')`,
		resourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting occupying reservations: %w", err)
	}
	return n, nil
}

// ListElapsedActiveRentals returns vehicle rentals still marked active whose
// return time has passed.
func (r *ReservationRepository) ListElapsedActiveRentals(ctx context.Context, now time.Time) ([]*db.Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE resource_kind = 'vehicle' AND status = 'active' AND end_time < $1`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error querying elapsed rentals: %w", err)
	}
	defer rows.Close()

	var out []*db.Reservation
	for rows.Next() {
		var res db.Reservation
		err := rows.Scan(
			&res.ID, &res.Code, &res.ResourceID, &res.ResourceKind, &res.GuestName, &res.GuestEmail,
			&res.GuestPhone, &res.GuestCount, &res.StartTime, &res.EndTime, &res.Status,
			&res.PaymentStatus, &res.Subtotal, &res.ReservationFee, &res.SecurityDeposit,
			&res.TotalAmount, &res.DepositReturned, &res.SpecialRequests, &res.Source,
			&res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning elapsed rental: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// UpdateReservationStatuses advances a batch of reservations to newStatus.
func (r *ReservationRepository) UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string, updatedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = ANY($3)`,
		newStatus, updatedAt, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating reservation statuses: %w", err)
	}
	return nil
}
