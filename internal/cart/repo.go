package cart

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopspring/decimal"

	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
)

// UniqueLineConstraint guards one line per (cart, product).
const UniqueLineConstraint = "cart_items_cart_product_key"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func ownerScope(owner Owner) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if owner.UserID != nil {
			return q.Where("user_id = ?", *owner.UserID)
		}
		return q.Where("session_id = ?", owner.SessionID)
	}
}

// FindCart returns the owner's cart or (nil, nil) when none exists.
func (r *Repository) FindCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).Scopes(ownerScope(owner)).First(&c).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// LockCart is FindCart with a row lock held until the surrounding
// transaction ends. Only meaningful on a repository bound by WithTx.
func (r *Repository) LockCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(ownerScope(owner)).
		First(&c).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// GetOrCreate returns the owner's cart, inserting it if needed. A concurrent
// insert for the same owner is absorbed by ON CONFLICT DO NOTHING.
func (r *Repository) GetOrCreate(ctx context.Context, owner Owner) (*models.Cart, error) {
	if existing, err := r.FindCart(ctx, owner); err != nil || existing != nil {
		return existing, err
	}
	row := models.Cart{UserID: owner.UserID}
	if owner.UserID == nil {
		sid := owner.SessionID
		row.SessionID = &sid
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return nil, err
	}
	created, err := r.FindCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return created, nil
}

// ListItems returns the cart's lines with their products, oldest first.
func (r *Repository) ListItems(ctx context.Context, cartID uint64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// FindItemByProduct returns the line for (cart, product) or (nil, nil).
func (r *Repository) FindItemByProduct(ctx context.Context, cartID, productID uint64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindItem loads a line only if it belongs to the cart.
func (r *Repository) FindItem(ctx context.Context, cartID, itemID uint64) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) InsertItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// IncrementItem adds qty to the line and refreshes its unit price.
func (r *Repository) IncrementItem(ctx context.Context, itemID uint64, qty int, price decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"unit_price": price,
		}).Error
}

// SetQuantity overwrites the quantity and leaves the unit price untouched.
func (r *Repository) SetQuantity(ctx context.Context, itemID uint64, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", qty).Error
}

func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *Repository) ClearItems(ctx context.Context, cartID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// ClearItemsForUser empties every cart the user owns.
func (r *Repository) ClearItemsForUser(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id IN (?)", r.db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteCart(ctx context.Context, cartID uint64) error {
	if _, err := r.ClearItems(ctx, cartID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// Touch bumps updated_at so guest cart expiry tracks the last change.
func (r *Repository) Touch(ctx context.Context, cartID uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", at.UTC()).Error
}

// DeleteStaleGuestCarts removes anonymous carts untouched since cutoff.
func (r *Repository) DeleteStaleGuestCarts(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&models.Cart{}).
			Select("id").
			Where("session_id IS NOT NULL AND updated_at < ?", cutoff.UTC())
		if err := tx.Where("cart_id IN (?)", stale).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("session_id IS NOT NULL AND updated_at < ?", cutoff.UTC()).Delete(&models.Cart{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
