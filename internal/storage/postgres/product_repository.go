package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) FindAllByIDs(ids []string) ([]domain.CatalogProduct, error) {
	if len(ids) == 0 {
		return []domain.CatalogProduct{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, name, price_minor, qty, currency
		FROM products
		WHERE id IN (%s)
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.CatalogProduct, 0, len(args))
	for rows.Next() {
		var product domain.CatalogProduct
		if err := rows.Scan(&product.ID, &product.Name, &product.PriceMinor, &product.Qty, &product.Currency); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// UpdateQuantities применяет пакет новых остатков в одной транзакции:
// либо применяются все значения, либо ни одно.
func (r *productRepository) UpdateQuantities(changes []domain.QuantityChange) (err error) {
	if len(changes) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, change := range changes {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE products
			SET qty = $1
			WHERE id = $2
		`, change.NewQty, change.ProductID)
		if err != nil {
			return fmt.Errorf("update product quantity: %w", err)
		}

		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			err = &domain.ProductNotFoundError{ProductID: change.ProductID}
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update quantities: %w", err)
	}

	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
