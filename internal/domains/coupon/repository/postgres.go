package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const couponColumns = `id, code, name, description, coupon_type, discount_type,
	discount_value, max_discount_amount, start_time, expiry_time,
	min_cart_items, min_cart_value, applicable_product_ids, applicable_categories,
	max_total_uses, current_total_uses, max_uses_per_user,
	priority, is_active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var (
		c             model.Coupon
		productIDsRaw []byte
		categoriesRaw []byte
	)
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&c.Description,
		&c.CouponType,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MaxDiscountAmount,
		&c.StartTime,
		&c.ExpiryTime,
		&c.MinCartItems,
		&c.MinCartValue,
		&productIDsRaw,
		&categoriesRaw,
		&c.MaxTotalUses,
		&c.CurrentTotalUses,
		&c.MaxUsesPerUser,
		&c.Priority,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(productIDsRaw) > 0 {
		if err := json.Unmarshal(productIDsRaw, &c.ApplicableProductIDs); err != nil {
			return nil, fmt.Errorf("failed to decode applicable product ids: %w", err)
		}
	}
	if len(categoriesRaw) > 0 {
		if err := json.Unmarshal(categoriesRaw, &c.ApplicableCategories); err != nil {
			return nil, fmt.Errorf("failed to decode applicable categories: %w", err)
		}
	}
	return &c, nil
}

func encodeList(v interface{}, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return coupon, nil
}

func (r *postgresRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, model.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}
	return coupon, nil
}

func (r *postgresRepository) FindActiveAutoApplied(ctx context.Context, now time.Time) ([]*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE coupon_type = $1
		  AND is_active = true
		  AND start_time <= $2
		  AND expiry_time >= $2
		ORDER BY priority DESC, code ASC
	`
	rows, err := r.pool.Query(ctx, query, model.CouponTypeAutoApplied, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-applied coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coupons: %w", err)
	}
	return coupons, nil
}

func (r *postgresRepository) List(ctx context.Context, page, limit int) ([]*model.Coupon, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read coupons: %w", err)
	}
	return coupons, total, nil
}

func (r *postgresRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	productIDs, err := encodeList(coupon.ApplicableProductIDs, len(coupon.ApplicableProductIDs))
	if err != nil {
		return fmt.Errorf("failed to encode applicable product ids: %w", err)
	}
	categories, err := encodeList(coupon.ApplicableCategories, len(coupon.ApplicableCategories))
	if err != nil {
		return fmt.Errorf("failed to encode applicable categories: %w", err)
	}

	query := `
		INSERT INTO coupons (
			id, code, name, description, coupon_type, discount_type,
			discount_value, max_discount_amount, start_time, expiry_time,
			min_cart_items, min_cart_value, applicable_product_ids, applicable_categories,
			max_total_uses, current_total_uses, max_uses_per_user,
			priority, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err = r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.Name,
		coupon.Description,
		coupon.CouponType,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MaxDiscountAmount,
		coupon.StartTime,
		coupon.ExpiryTime,
		coupon.MinCartItems,
		coupon.MinCartValue,
		productIDs,
		categories,
		coupon.MaxTotalUses,
		coupon.CurrentTotalUses,
		coupon.MaxUsesPerUser,
		coupon.Priority,
		coupon.IsActive,
		coupon.CreatedAt,
		coupon.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	productIDs, err := encodeList(coupon.ApplicableProductIDs, len(coupon.ApplicableProductIDs))
	if err != nil {
		return fmt.Errorf("failed to encode applicable product ids: %w", err)
	}
	categories, err := encodeList(coupon.ApplicableCategories, len(coupon.ApplicableCategories))
	if err != nil {
		return fmt.Errorf("failed to encode applicable categories: %w", err)
	}

	query := `
		UPDATE coupons
		SET name = $2, description = $3,
			discount_value = $4, max_discount_amount = $5,
			start_time = $6, expiry_time = $7,
			min_cart_items = $8, min_cart_value = $9,
			applicable_product_ids = $10, applicable_categories = $11,
			max_total_uses = $12, max_uses_per_user = $13,
			priority = $14, is_active = $15, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.Name,
		coupon.Description,
		coupon.DiscountValue,
		coupon.MaxDiscountAmount,
		coupon.StartTime,
		coupon.ExpiryTime,
		coupon.MinCartItems,
		coupon.MinCartValue,
		productIDs,
		categories,
		coupon.MaxTotalUses,
		coupon.MaxUsesPerUser,
		coupon.Priority,
		coupon.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *postgresRepository) IncrementTotalUses(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE coupons SET current_total_uses = current_total_uses + 1, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment coupon uses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *postgresRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE coupons SET is_active = false, updated_at = NOW() WHERE is_active = true AND expiry_time < $1`
	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired coupons: %w", err)
	}
	return tag.RowsAffected(), nil
}
