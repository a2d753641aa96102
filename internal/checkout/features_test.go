package checkout_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fekuna/omnipos-workshop-pos/internal/cart"
	cartdto "github.com/fekuna/omnipos-workshop-pos/internal/cart/dto"
	cartuc "github.com/fekuna/omnipos-workshop-pos/internal/cart/usecase"
	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	ledgerdto "github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	productdto "github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/store/memdb"
	"github.com/shopspring/decimal"
)

type checkoutFeature struct {
	store  *memdb.Store
	cart   *cart.Cart
	carts  cart.UseCase
	engine *checkout.Engine
	txn    *model.Transaction
	ids    map[string]string
}

func (f *checkoutFeature) aFreshlySeededShop() error {
	s, err := memdb.New(memdb.Options{Seed: true})
	if err != nil {
		return err
	}
	f.store = s
	f.cart = cart.New(decimal.Zero, decimal.Zero)
	f.carts = cartuc.NewCartUseCase(f.cart, s.Products(), logger.NewNop())
	f.engine = checkout.NewEngine(checkout.Config{
		Cart:      f.cart,
		Customers: s.Customers(),
		Committer: s,
		Logger:    logger.NewNop(),
		Shop:      "main",
	})
	f.txn = nil

	products, _, err := s.Products().FindAll(context.Background(), &productdto.ProductFilters{})
	if err != nil {
		return err
	}
	f.ids = map[string]string{}
	for _, p := range products {
		f.ids[p.Name] = p.ID
	}
	return nil
}

func (f *checkoutFeature) product(name string) (*model.Product, error) {
	id, ok := f.ids[name]
	if !ok {
		return nil, fmt.Errorf("no product named %q", name)
	}
	return f.store.Products().FindByID(context.Background(), id)
}

func (f *checkoutFeature) theTaxRateIsPercent(pct int) error {
	rate := decimal.NewFromInt(int64(pct))
	_, err := f.carts.SetRates(context.Background(), &cartdto.SetRatesInput{TaxRate: &rate})
	return err
}

func (f *checkoutFeature) theDiscountRateIsPercent(pct int) error {
	rate := decimal.NewFromInt(int64(pct))
	_, err := f.carts.SetRates(context.Background(), &cartdto.SetRatesInput{DiscountRate: &rate})
	return err
}

func (f *checkoutFeature) theCartHolds(qty int, name string) error {
	id, ok := f.ids[name]
	if !ok {
		return fmt.Errorf("no product named %q", name)
	}
	_, err := f.carts.AddItem(context.Background(), &cartdto.AddItemInput{ProductID: id, Quantity: qty})
	return err
}

func (f *checkoutFeature) productHasInStock(name string, stock int) error {
	p, err := f.product(name)
	if err != nil {
		return err
	}
	p.Stock = stock
	return f.store.Products().Update(context.Background(), p)
}

func (f *checkoutFeature) iCheckOut() error {
	txn, err := f.engine.Checkout(context.Background(), checkout.Options{})
	f.txn = txn
	return err
}

func (f *checkoutFeature) iCheckOutForCustomer(id string) error {
	txn, err := f.engine.Checkout(context.Background(), checkout.Options{CustomerID: &id})
	f.txn = txn
	return err
}

func (f *checkoutFeature) theTransactionHasTotals(subtotal, discount, tax, total int64) error {
	t := f.txn
	if t.Subtotal != subtotal || t.Discount != discount || t.Tax != tax || t.Total != total {
		return fmt.Errorf("got subtotal %d, discount %d, tax %d, total %d", t.Subtotal, t.Discount, t.Tax, t.Total)
	}
	if !t.Balanced() {
		return fmt.Errorf("transaction %s does not balance", t.ID)
	}
	return nil
}

func (f *checkoutFeature) theTransactionIsFirstInTheLedger() error {
	txns, _, err := f.store.Ledger().FindAll(context.Background(), &ledgerdto.TransactionFilters{})
	if err != nil {
		return err
	}
	if len(txns) == 0 || txns[0].ID != f.txn.ID {
		return fmt.Errorf("transaction %s is not at the top of the ledger", f.txn.ID)
	}
	return nil
}

func (f *checkoutFeature) theLedgerHoldsTransactions(n int) error {
	_, count, err := f.store.Ledger().FindAll(context.Background(), &ledgerdto.TransactionFilters{})
	if err != nil {
		return err
	}
	if count != n {
		return fmt.Errorf("ledger holds %d transactions, want %d", count, n)
	}
	return nil
}

func (f *checkoutFeature) productStockIs(name string, want int) error {
	p, err := f.product(name)
	if err != nil {
		return err
	}
	if p.Stock != want {
		return fmt.Errorf("%s has %d in stock, want %d", name, p.Stock, want)
	}
	return nil
}

func (f *checkoutFeature) theCartIsEmpty() error {
	if n := f.cart.Len(); n != 0 {
		return fmt.Errorf("cart still holds %d lines", n)
	}
	return nil
}

func (f *checkoutFeature) theTransactionBelongsTo(name string) error {
	if f.txn.CustomerName == nil || *f.txn.CustomerName != name {
		return fmt.Errorf("transaction customer is %v, want %s", f.txn.CustomerName, name)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	f := &checkoutFeature{}

	ctx.Step(`^a freshly seeded shop$`, f.aFreshlySeededShop)
	ctx.Step(`^the tax rate is (\d+) percent$`, f.theTaxRateIsPercent)
	ctx.Step(`^the discount rate is (\d+) percent$`, f.theDiscountRateIsPercent)
	ctx.Step(`^the cart holds (\d+) x "([^"]*)"$`, f.theCartHolds)
	ctx.Step(`^"([^"]*)" has (\d+) in stock$`, f.stockStep)

	ctx.Step(`^I check out$`, f.iCheckOut)
	ctx.Step(`^I check out for customer "([^"]*)"$`, f.iCheckOutForCustomer)

	ctx.Step(`^the transaction has subtotal (\d+), discount (\d+), tax (\d+) and total (\d+)$`, f.theTransactionHasTotals)
	ctx.Step(`^the transaction is first in the ledger$`, f.theTransactionIsFirstInTheLedger)
	ctx.Step(`^the ledger holds (\d+) transactions$`, f.theLedgerHoldsTransactions)
	ctx.Step(`^the cart is empty$`, f.theCartIsEmpty)
	ctx.Step(`^the transaction belongs to "([^"]*)"$`, f.theTransactionBelongsTo)
}

// stockStep sets stock before checkout and asserts it afterwards.
func (f *checkoutFeature) stockStep(name string, stock int) error {
	if f.txn == nil {
		return f.productHasInStock(name, stock)
	}
	return f.productStockIs(name, stock)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
