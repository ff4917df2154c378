package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopcart-backend/internal/domains/cart/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const cartColumns = `id, customer_id, applied_coupon_id, is_coupon_auto_applied, is_active, created_at, updated_at`

func scanCart(row pgx.Row) (*model.Cart, error) {
	var c model.Cart
	err := row.Scan(
		&c.ID,
		&c.CustomerID,
		&c.AppliedCouponID,
		&c.IsCouponAutoApplied,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	var i model.CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *postgresRepository) FindActiveByCustomer(ctx context.Context, customerID string) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE customer_id = $1 AND is_active = true`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

func (r *postgresRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (id, customer_id, applied_coupon_id, is_coupon_auto_applied, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		cart.ID,
		cart.CustomerID,
		cart.AppliedCouponID,
		cart.IsCouponAutoApplied,
		cart.IsActive,
		cart.CreatedAt,
		cart.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

func (r *postgresRepository) Save(ctx context.Context, cart *model.Cart) error {
	query := `
		UPDATE carts
		SET applied_coupon_id = $2, is_coupon_auto_applied = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		cart.ID,
		cart.AppliedCouponID,
		cart.IsCouponAutoApplied,
		cart.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartNotFound
	}
	return nil
}

func (r *postgresRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`
	item, err := scanCartItem(r.pool.QueryRow(ctx, query, cartID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}

func (r *postgresRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = $1
	`
	item, err := scanCartItem(r.pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}

func (r *postgresRepository) UpsertItem(ctx context.Context, item *model.CartItem) error {
	// The unique (cart_id, product_id) constraint turns a re-add into a
	// quantity increment.
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.CartID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteAllItems(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListItemDetails(ctx context.Context, cartID uuid.UUID) ([]*model.ItemDetail, error) {
	query := `
		SELECT ci.id, ci.product_id, p.name, p.category, p.price, ci.quantity, p.price * ci.quantity AS line_total
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	var details []*model.ItemDetail
	for rows.Next() {
		var d model.ItemDetail
		if err := rows.Scan(
			&d.ID,
			&d.ProductID,
			&d.Name,
			&d.Category,
			&d.UnitPrice,
			&d.Quantity,
			&d.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}
	return details, nil
}

func (r *postgresRepository) PurgeStaleCarts(ctx context.Context, cutoff time.Time) (int64, error) {
	// Only abandoned carts qualify; an active cart is never purged no
	// matter how old it is.
	tag, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE is_active = false AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale carts: %w", err)
	}
	return tag.RowsAffected(), nil
}
