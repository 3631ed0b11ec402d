package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staybook/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a write targets a row that does not exist
	ErrNotFound = errors.New("row not found")
	// ErrReferenceNotFound is returned when an insert references a missing row
	ErrReferenceNotFound = errors.New("referenced row does not exist")
)

// PostgreSQL error codes
const (
	pqForeignKeyViolation = "23503"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryWithDB wraps an existing connection pool
func NewPostgresRepositoryWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FindProperties executes a composed properties query
func (r *PostgresRepository) FindProperties(ctx context.Context, q *PropertyQuery) ([]model.Property, error) {
	query, args, err := q.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build properties query: %w", err)
	}

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	return properties, nil
}

// GetProperty retrieves a single property, nil when it does not exist
func (r *PostgresRepository) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	query := `SELECT ` + propertySelectList + ` FROM properties WHERE id = $1`
	err := r.db.GetContext(ctx, &property, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

// FindCategoryIDByName resolves a category by case-insensitive substring
func (r *PostgresRepository) FindCategoryIDByName(ctx context.Context, name string) (string, bool, error) {
	var id string
	query := `SELECT id FROM category WHERE name ILIKE $1 ORDER BY id LIMIT 1`
	err := r.db.GetContext(ctx, &id, query, "%"+escapeLike(name)+"%")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up category %q: %w", name, err)
	}
	return id, true, nil
}

// CategoryName returns the name of a category, nil when unknown
func (r *PostgresRepository) CategoryName(ctx context.Context, categoryID string) (*string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM category WHERE id = $1`, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category name: %w", err)
	}
	return &name, nil
}

// ListCategories returns every category
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name FROM category ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// FirstImageURL returns the property's thumbnail image, nil when it has none
func (r *PostgresRepository) FirstImageURL(ctx context.Context, propertyID string) (*string, error) {
	var url string
	query := `
		SELECT image_url FROM property_images
		WHERE property_id = $1
		ORDER BY created_at ASC, image_url ASC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &url, query, propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get thumbnail: %w", err)
	}
	return &url, nil
}

// ImageURLs returns all gallery images of a property
func (r *PostgresRepository) ImageURLs(ctx context.Context, propertyID string) ([]string, error) {
	urls := []string{}
	query := `SELECT image_url FROM property_images WHERE property_id = $1 ORDER BY created_at ASC, image_url ASC`
	if err := r.db.SelectContext(ctx, &urls, query, propertyID); err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}
	return urls, nil
}

// ReviewRatings returns every rating left for a property
func (r *PostgresRepository) ReviewRatings(ctx context.Context, propertyID string) ([]float64, error) {
	ratings := []float64{}
	if err := r.db.SelectContext(ctx, &ratings, `SELECT rating FROM reviews WHERE property_id = $1`, propertyID); err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}
	return ratings, nil
}

// FacilityNames returns the names of a property's facilities
func (r *PostgresRepository) FacilityNames(ctx context.Context, propertyID string) ([]string, error) {
	names := []string{}
	query := `
		SELECT f.name
		FROM property_facilities pf
		JOIN facilities f ON f.id = pf.facility_id
		WHERE pf.property_id = $1
		ORDER BY f.name
	`
	if err := r.db.SelectContext(ctx, &names, query, propertyID); err != nil {
		return nil, fmt.Errorf("failed to get facilities: %w", err)
	}
	return names, nil
}

// CountFacilities returns how many of ids exist in the facilities table
func (r *PostgresRepository) CountFacilities(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM facilities WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("failed to count facilities: %w", err)
	}
	return count, nil
}

// LatestReviews returns the newest reviews with the reviewer's email
func (r *PostgresRepository) LatestReviews(ctx context.Context, propertyID string, limit int) ([]model.Review, error) {
	reviews := []model.Review{}
	query := `
		SELECT property_id, rating, review_text, user_email, created_at
		FROM review_with_user_email
		WHERE property_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &reviews, query, propertyID, limit); err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, nil
}

// CreateProperty inserts a property with its gallery and facility links in one transaction
func (r *PostgresRepository) CreateProperty(ctx context.Context, p model.Property, images []model.PropertyImage, facilities []model.PropertyFacility) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO properties (id, title, description, location, category_id, price_per_night, main_image_url, owner_id)
		VALUES (:id, :title, :description, :location, :category_id, :price_per_night, :main_image_url, :owner_id)
	`, p)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", translate(err))
	}

	if len(images) > 0 {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO property_images (id, property_id, image_url)
			VALUES (:id, :property_id, :image_url)
		`, images)
		if err != nil {
			return fmt.Errorf("failed to insert gallery images: %w", translate(err))
		}
	}

	if len(facilities) > 0 {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO property_facilities (id, property_id, facility_id)
			VALUES (:id, :property_id, :facility_id)
		`, facilities)
		if err != nil {
			return fmt.Errorf("failed to insert facility links: %w", translate(err))
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListHotels returns every hotel
func (r *PostgresRepository) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	hotels := []model.Hotel{}
	query := `SELECT id, name, location, description, price_per_night, image_url FROM hotels ORDER BY name`
	if err := r.db.SelectContext(ctx, &hotels, query); err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

const bookingColumns = `id, user_id, property_id, check_in, check_out, guests, payment_status,
			amount_paid, status, payment_date, created_at`

// CreateBooking inserts a booking and returns the stored row
func (r *PostgresRepository) CreateBooking(ctx context.Context, b model.Booking) (*model.Booking, error) {
	var created model.Booking
	query := `
		INSERT INTO bookings (user_id, property_id, check_in, check_out, guests, payment_status, amount_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bookingColumns
	err := r.db.GetContext(ctx, &created, query,
		b.UserID, b.PropertyID, b.CheckIn, b.CheckOut, b.Guests, b.PaymentStatus, b.AmountPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", translate(err))
	}
	return &created, nil
}

// ListBookingsByUser returns a user's bookings with the property title and first image
func (r *PostgresRepository) ListBookingsByUser(ctx context.Context, userID string) ([]model.BookingSummary, error) {
	summaries := []model.BookingSummary{}
	query := `
		SELECT b.id, b.payment_status, b.amount_paid, p.title, img.image_url
		FROM bookings b
		LEFT JOIN properties p ON p.id = b.property_id
		LEFT JOIN LATERAL (
			SELECT pi.image_url FROM property_images pi
			WHERE pi.property_id = b.property_id
			ORDER BY pi.created_at ASC, pi.image_url ASC
			LIMIT 1
		) img ON true
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &summaries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return summaries, nil
}

// ProcessPayment confirms a booking and records its payment atomically
func (r *PostgresRepository) ProcessPayment(ctx context.Context, bookingID, method string, amount float64) (payment *model.Payment, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = $2, payment_status = $3, payment_date = NOW()
		WHERE id = $1
	`, bookingID, model.BookingStatusConfirmed, model.PaymentStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		err = ErrNotFound
		return nil, err
	}

	var created model.Payment
	err = tx.GetContext(ctx, &created, `
		INSERT INTO payments (booking_id, amount, method, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, booking_id, amount, method, status, created_at
	`, bookingID, amount, method, model.PaymentRecordCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &created, nil
}

// translate maps driver errors onto repository sentinels
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return fmt.Errorf("%w: %s", ErrReferenceNotFound, pqErr.Message)
	}
	return err
}
