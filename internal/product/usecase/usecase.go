package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/cache"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/search"
	"github.com/fekuna/omnipos-workshop-pos/internal/product"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName        = "products"
	cacheKeyPrefix   = "products:list:"
	cacheTTL         = 5 * time.Minute
	defaultThreshold = 5
	defaultLowLimit  = 5
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category": { "type": "keyword" },
			"price": { "type": "long" },
			"stock": { "type": "integer" },
			"createdAt": { "type": "date" }
		}
	}
}`

// searchIndex is the part of *search.Client the catalog uses.
type searchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
}

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     searchIndex
	logger logger.ZapLogger

	// fill guards gen; a page read before an invalidation is not cached.
	fill sync.RWMutex
	gen  uint64
}

// NewProductUseCase builds the catalog use case. cache and es may be nil.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	uc := &productUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
	if es != nil {
		uc.es = es
	}
	return uc
}

func validate(name string, category model.Category, price int64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return product.ErrNameRequired
	}
	if !category.Valid() {
		return product.ErrInvalidCategory
	}
	if price < 0 {
		return product.ErrInvalidPrice
	}
	if stock < 0 {
		return product.ErrInvalidStock
	}
	return nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validate(input.Name, input.Category, input.Price, input.Stock); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: optional(input.Description),
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.InvalidateCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	// index creation is lazy so a fresh cluster works without a migration step
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.FindByID(ctx, id)
}

type cachedPage struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := generateCacheKey(filters)
	gen := uc.generation()
	if err == nil && uc.cache != nil {
		var page cachedPage
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &page)
		if err != nil {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
		if hit {
			return page.Products, page.Count, nil
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		uc.fill.RLock()
		if uc.gen == gen {
			if err := uc.cache.SetJSON(ctx, cacheKey, cachedPage{Products: products, Count: count}, cacheTTL); err != nil {
				uc.logger.Warn("product cache write failed", zap.Error(err))
			}
		}
		uc.fill.RUnlock()
	}

	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "description"},
			},
		},
	}
	if filters.Category != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"category": filters.Category},
		})
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", cacheKeyPrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) generation() uint64 {
	uc.fill.RLock()
	defer uc.fill.RUnlock()
	return uc.gen
}

// InvalidateCache drops every cached list page. Fills already in flight
// are discarded; one that won the race is removed by the pattern delete.
func (uc *productUseCase) InvalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	uc.fill.Lock()
	uc.gen++
	uc.fill.Unlock()
	if err := uc.cache.DeletePattern(ctx, cacheKeyPrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

// StockChanged drops cached pages and re-indexes the given products so
// search results carry their current stock.
func (uc *productUseCase) StockChanged(ctx context.Context, productIDs ...string) {
	uc.InvalidateCache(ctx)
	if uc.es == nil || len(productIDs) == 0 {
		return
	}
	ids := append([]string(nil), productIDs...)
	go uc.reindex(context.Background(), ids)
}

func (uc *productUseCase) reindex(ctx context.Context, ids []string) {
	for _, id := range ids {
		p, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			uc.logger.Error("failed to load product for reindex", zap.String("product_id", id), zap.Error(err))
			continue
		}
		if p == nil {
			if err := uc.es.Delete(ctx, indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
			}
			continue
		}
		uc.syncToElastic(ctx, p)
	}
}

// UpdateProduct returns (nil, nil) when id does not exist.
func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validate(input.Name, input.Category, input.Price, input.Stock); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		uc.logger.Debug("update of unknown product ignored", zap.String("product_id", input.ID))
		return nil, nil
	}

	p.Name = strings.TrimSpace(input.Name)
	p.Category = input.Category
	p.Price = input.Price
	p.Stock = input.Stock
	p.Description = optional(input.Description)
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.InvalidateCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.InvalidateCache(ctx)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) ListLowStock(ctx context.Context, threshold, limit int) ([]model.Product, error) {
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	if limit <= 0 {
		limit = defaultLowLimit
	}
	return uc.repo.ListLowStock(ctx, threshold, limit)
}
