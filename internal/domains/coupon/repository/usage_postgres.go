package repository

import (
	"context"
	"fmt"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresUsageRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUsageRepository(pool *pgxpool.Pool) UsageRepositoryInterface {
	return &postgresUsageRepository{pool: pool}
}

func (r *postgresUsageRepository) Append(ctx context.Context, usage *model.CouponUsage) error {
	query := `
		INSERT INTO coupon_usages (id, coupon_id, customer_id, cart_id, discount_applied, cart_total_at_application, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		usage.ID,
		usage.CouponID,
		usage.CustomerID,
		usage.CartID,
		usage.DiscountApplied,
		usage.CartTotalAtApplication,
		usage.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append coupon usage: %w", err)
	}
	return nil
}

func (r *postgresUsageRepository) CountByCoupon(ctx context.Context, couponID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1`
	if err := r.pool.QueryRow(ctx, query, couponID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count coupon usages: %w", err)
	}
	return count, nil
}

func (r *postgresUsageRepository) CountByCouponAndCustomer(ctx context.Context, couponID uuid.UUID, customerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND customer_id = $2`
	if err := r.pool.QueryRow(ctx, query, couponID, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customer coupon usages: %w", err)
	}
	return count, nil
}

func (r *postgresUsageRepository) ListByCoupon(ctx context.Context, couponID uuid.UUID, page, limit int) ([]*model.CouponUsage, int, error) {
	total, err := r.CountByCoupon(ctx, couponID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, coupon_id, customer_id, cart_id, discount_applied, cart_total_at_application, applied_at
		FROM coupon_usages
		WHERE coupon_id = $1
		ORDER BY applied_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, couponID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupon usages: %w", err)
	}
	defer rows.Close()

	var usages []*model.CouponUsage
	for rows.Next() {
		var u model.CouponUsage
		if err := rows.Scan(
			&u.ID,
			&u.CouponID,
			&u.CustomerID,
			&u.CartID,
			&u.DiscountApplied,
			&u.CartTotalAtApplication,
			&u.AppliedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan coupon usage: %w", err)
		}
		usages = append(usages, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read coupon usages: %w", err)
	}
	return usages, total, nil
}
