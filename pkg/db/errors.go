package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// sqliteUniqueColumns maps index names to the column list SQLite reports,
// since its messages never carry the index name.
var sqliteUniqueColumns = map[string]string{
	"users_email_key":             "users.email",
	"sessions_token_hash_key":     "sessions.token_hash",
	"categories_slug_key":         "categories.slug",
	"products_slug_key":           "products.slug",
	"carts_user_id_key":           "carts.user_id",
	"carts_session_id_key":        "carts.session_id",
	"cart_items_cart_product_key": "cart_items.cart_id, cart_items.product_id",
	"orders_order_number_key":     "orders.order_number",
	"favorites_user_product_key":  "favorites.user_id, favorites.product_id",
}

// IsUniqueViolation reports whether err is a unique constraint failure on any
// supported driver. When constraint is set, the failing constraint (or, on
// SQLite, the column list in the message) must mention it.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraint == "" || strings.Contains(err.Error(), constraint)
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation && matches(pgxErr.ConstraintName, constraint)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && matches(pqErr.Constraint, constraint)
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		if constraint == "" || strings.Contains(msg, constraint) {
			return true
		}
		cols, ok := sqliteUniqueColumns[constraint]
		return ok && strings.Contains(msg, cols)
	}
	return false
}

// IsNotFound wraps gorm.ErrRecordNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func matches(actual, want string) bool {
	return want == "" || actual == want
}
