package cart

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/migapan/storefront-backend/internal/products"
	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
	"github.com/migapan/storefront-backend/pkg/logger"
)

// addAttempts bounds retries when a concurrent request inserts the same line first.
const addAttempts = 2

// Service is the cart surface used by controllers and the auth flow.
type Service interface {
	Get(ctx context.Context, owner Owner) (*CartDTO, error)
	AddItem(ctx context.Context, owner Owner, req AddItemRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, owner Owner, itemID uint64, req UpdateItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, owner Owner, itemID uint64) (*CartDTO, error)
	Clear(ctx context.Context, owner Owner) error
	MergeGuestInto(ctx context.Context, sessionID string, userID uint64) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	TxRunner    txRunner
	Repo        *Repository
	ProductRepo *products.Repository
	Logger      *logger.Logger
}

type service struct {
	tx       txRunner
	repo     *Repository
	products *products.Repository
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		tx:       params.TxRunner,
		repo:     params.Repo,
		products: params.ProductRepo,
		logg:     logg,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Get(ctx context.Context, owner Owner) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return s.read(ctx, s.repo, owner)
}

func (s *service) read(ctx context.Context, repo *Repository, owner Owner) (*CartDTO, error) {
	c, err := repo.FindCart(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if c == nil {
		return Empty(), nil
	}
	items, err := repo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart items")
	}
	return FromModel(c, items), nil
}

func (s *service) AddItem(ctx context.Context, owner Owner, req AddItemRequest) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if req.ProductID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var out *CartDTO
	var err error
	for attempt := 1; attempt <= addAttempts; attempt++ {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			product, err := s.products.WithTx(tx).FindActiveByID(ctx, req.ProductID)
			if err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			c, err := repo.GetOrCreate(ctx, owner)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart")
			}
			if err := s.mergeLine(ctx, repo, c.ID, product, req.Quantity); err != nil {
				return err
			}
			out, err = s.read(ctx, repo, owner)
			return err
		})
		if err == nil || !db.IsUniqueViolation(err, UniqueLineConstraint) {
			break
		}
		s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "cart.add_item.concurrent_insert")
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mergeLine increments an existing (cart, product) line and refreshes its
// price, or inserts a new line at the current price.
func (s *service) mergeLine(ctx context.Context, repo *Repository, cartID uint64, product *models.Product, qty int) error {
	existing, err := repo.FindItemByProduct(ctx, cartID, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}
	if existing != nil {
		if err := repo.IncrementItem(ctx, existing.ID, qty, product.Price); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment cart line")
		}
	} else {
		line := &models.CartItem{
			CartID:    cartID,
			ProductID: product.ID,
			Quantity:  qty,
			UnitPrice: product.Price,
		}
		if err := repo.InsertItem(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert cart line")
		}
	}
	if err := repo.Touch(ctx, cartID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch cart")
	}
	return nil
}

func (s *service) UpdateItem(ctx context.Context, owner Owner, itemID uint64, req UpdateItemRequest) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}
	qty := *req.Quantity

	var out *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		c, err := s.ownedCart(ctx, repo, owner)
		if err != nil {
			return err
		}
		if _, err := repo.FindItem(ctx, c.ID, itemID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
		}
		if qty == 0 {
			if _, err := repo.DeleteItem(ctx, c.ID, itemID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
			}
		} else if err := repo.SetQuantity(ctx, itemID, qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}
		if err := repo.Touch(ctx, c.ID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch cart")
		}
		out, err = s.read(ctx, repo, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) RemoveItem(ctx context.Context, owner Owner, itemID uint64) (*CartDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	var out *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		c, err := s.ownedCart(ctx, repo, owner)
		if err != nil {
			return err
		}
		n, err := repo.DeleteItem(ctx, c.ID, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
		}
		if n == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		out, err = s.read(ctx, repo, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Clear(ctx context.Context, owner Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	c, err := s.repo.FindCart(ctx, owner)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if c == nil {
		return nil
	}
	if _, err := s.repo.ClearItems(ctx, c.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// MergeGuestInto folds the anonymous cart into the user's cart using the same
// merge-or-insert rule as AddItem, then deletes the anonymous cart. Lines for
// products that are no longer active are dropped.
func (s *service) MergeGuestInto(ctx context.Context, sessionID string, userID uint64) error {
	guest := ForGuest(sessionID)
	if err := guest.Validate(); err != nil {
		return err
	}
	if userID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		guestCart, err := repo.FindCart(ctx, guest)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load guest cart")
		}
		if guestCart == nil {
			return nil
		}
		lines, err := repo.ListItems(ctx, guestCart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load guest cart items")
		}

		if len(lines) > 0 {
			ids := make([]uint64, 0, len(lines))
			for _, line := range lines {
				ids = append(ids, line.ProductID)
			}
			active, err := s.products.WithTx(tx).FindActiveByIDs(ctx, ids)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load guest cart products")
			}
			userCart, err := repo.GetOrCreate(ctx, ForUser(userID))
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve user cart")
			}
			for _, line := range lines {
				product, ok := active[line.ProductID]
				if !ok {
					continue
				}
				if err := s.mergeLine(ctx, repo, userCart.ID, &product, line.Quantity); err != nil {
					return err
				}
			}
		}

		if err := repo.DeleteCart(ctx, guestCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete guest cart")
		}
		return nil
	})
}

func (s *service) ownedCart(ctx context.Context, repo *Repository, owner Owner) (*models.Cart, error) {
	c, err := repo.FindCart(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return c, nil
}
