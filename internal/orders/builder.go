package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
	"github.com/angelmondragon/ordermanagement-api/pkg/metrics"
	"github.com/angelmondragon/ordermanagement-api/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultQuantity = 1

// Builder writes an order together with its items as one unit.
type Builder struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// BuilderParams bundles the dependencies required to build a Builder.
type BuilderParams struct {
	Repo    Repository
	Tx      txRunner
	Metrics *metrics.OrderMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

// NewBuilder validates dependencies and constructs a Builder.
func NewBuilder(params BuilderParams) (*Builder, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Builder{
		repo:    params.Repo,
		tx:      params.Tx,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// CreateOrder builds the order for customerID inside a single transaction.
// Either the order and every item are committed, or nothing is.
func (b *Builder) CreateOrder(ctx context.Context, customerID uuid.UUID, input OrderInput) (*models.Order, error) {
	if err := validateItems(input.Items, "items"); err != nil {
		return nil, err
	}

	start := time.Now()
	var order *models.Order
	err := b.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := b.repo.WithTx(tx)
		exists, err := repo.CustomerExists(ctx, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		built, err := b.BuildInTx(ctx, tx, customerID, input)
		if err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil {
		b.metrics.ObserveBuild(metrics.OutcomeFailure, time.Since(start))
		return nil, asBuildError(err)
	}

	b.metrics.ObserveBuild(metrics.OutcomeSuccess, time.Since(start))
	b.RecordCreated(order)
	return order, nil
}

// BuildInTx writes the order and its items using tx. The caller owns the
// transaction and must roll it back when an error is returned.
func (b *Builder) BuildInTx(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, input OrderInput) (*models.Order, error) {
	if err := validateItems(input.Items, "items"); err != nil {
		return nil, err
	}
	repo := b.repo.WithTx(tx)

	issuedAt := b.now().UTC()
	if input.IssuedAt != nil && !input.IssuedAt.IsZero() {
		issuedAt = input.IssuedAt.UTC()
	}
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		IssuedAt:   issuedAt,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	order.Items = make([]models.OrderItem, 0, len(input.Items))
	for i, itemInput := range input.Items {
		item, err := b.writeItem(ctx, repo, order.ID, itemInput)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("create order item %d", i))
		}
		order.Items = append(order.Items, *item)
	}
	return order, nil
}

// CreateOrderItem adds a single item to an existing order with the same
// product resolution and defaults as CreateOrder.
func (b *Builder) CreateOrderItem(ctx context.Context, orderID uuid.UUID, input ItemInput) (*models.OrderItem, error) {
	if err := validateItem(input, "item"); err != nil {
		return nil, err
	}
	item, err := b.writeItem(ctx, b.repo, orderID, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order item")
	}
	b.metrics.AddCreated(0, 1)
	return item, nil
}

// RecordCreated counts committed orders and their items.
func (b *Builder) RecordCreated(orders ...*models.Order) {
	items := 0
	for _, o := range orders {
		if o != nil {
			items += len(o.Items)
		}
	}
	b.metrics.AddCreated(len(orders), items)
}

func (b *Builder) writeItem(ctx context.Context, repo Repository, orderID uuid.UUID, input ItemInput) (*models.OrderItem, error) {
	item := &models.OrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		Quantity:     defaultQuantity,
		Price:        decimal.NewNullDecimal(decimal.Zero),
		PriceWithVat: decimal.NewNullDecimal(decimal.Zero),
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Price != nil {
		item.Price = decimal.NewNullDecimal(*input.Price)
	}
	if input.PriceWithVat != nil {
		item.PriceWithVat = decimal.NewNullDecimal(*input.PriceWithVat)
	}

	if input.ProductCode != nil {
		if code := strings.TrimSpace(*input.ProductCode); code != "" {
			product, err := repo.FindProductByCode(ctx, code)
			switch {
			case err == nil:
				item.ProductID = &product.ID
				item.Product = product
			case errors.Is(err, gorm.ErrRecordNotFound):
				b.metrics.IncUnresolvedProduct()
				if b.logg != nil {
					b.logg.Debug(b.logg.WithField(ctx, "product_code", code), "order_item.product_unresolved")
				}
			default:
				return nil, fmt.Errorf("resolve product %q: %w", code, err)
			}
		}
	}

	if err := repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ValidateOrder checks an order payload ahead of a build, reporting item
// errors under path.
func ValidateOrder(input OrderInput, path string) error {
	return validateItems(input.Items, path+".items")
}

func validateItems(items []ItemInput, path string) error {
	details := map[string]string{}
	for i, item := range items {
		collectItemErrors(details, item, fmt.Sprintf("%s[%d]", path, i))
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func validateItem(item ItemInput, path string) error {
	details := map[string]string{}
	collectItemErrors(details, item, path)
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func collectItemErrors(details map[string]string, item ItemInput, path string) {
	if item.Quantity != nil && *item.Quantity < 0 {
		details[path+".quantity"] = "must be greater than or equal to 0"
	}
	checkAmount(details, path+".price", item.Price)
	checkAmount(details, path+".priceWithVat", item.PriceWithVat)
}

func checkAmount(details map[string]string, field string, value *decimal.Decimal) {
	if value == nil {
		return
	}
	if msg := pricing.CheckAmount(*value); msg != "" {
		details[field] = msg
	}
}

// asBuildError keeps typed errors and folds anything else into an internal error.
func asBuildError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order")
}
