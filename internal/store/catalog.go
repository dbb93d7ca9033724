package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/darkkaiser/kepixel-server/internal/host"
	apperrors "github.com/darkkaiser/kepixel-server/internal/pkg/errors"
)

// CatalogState 사이트별 카탈로그 동기화 상태입니다.
type CatalogState struct {
	// ProductCount 마지막 동기화 요청으로 전달된 상품 수입니다.
	ProductCount int       `json:"product_count"`
	SyncedAt     time.Time `json:"synced_at"`
}

// Synced 호스트가 한 번이라도 카탈로그를 전송했는지 여부를 반환합니다.
// 쇼핑몰 플러그인이 비활성화된 사이트는 카탈로그를 전송하지 않습니다.
func (s CatalogState) Synced() bool {
	return !s.SyncedAt.IsZero()
}

// Catalog 호스트가 전송한 상품 정보를 사이트별로 보관합니다.
type Catalog struct {
	store Store
	now   func() time.Time
}

// NewCatalog s를 사용하는 Catalog를 생성합니다.
func NewCatalog(s Store) *Catalog {
	return &Catalog{store: s, now: time.Now}
}

func productKey(siteID string, id int64) string {
	return "catalog/" + siteID + "/product/" + strconv.FormatInt(id, 10)
}

func stateKey(siteID string) string {
	return "catalog/" + siteID + "/state"
}

// PutProducts 상품을 저장(같은 ID는 덮어쓰기)하고 동기화 상태를 갱신합니다.
func (c *Catalog) PutProducts(ctx context.Context, siteID string, products []host.Product) (CatalogState, error) {
	for _, p := range products {
		if p.ID <= 0 {
			return CatalogState{}, apperrors.Newf(apperrors.InvalidInput, "상품 ID가 유효하지 않습니다 (id: %d)", p.ID)
		}
		if err := c.store.PutJSON(ctx, productKey(siteID, p.ID), p); err != nil {
			return CatalogState{}, err
		}
	}

	state := CatalogState{
		ProductCount: len(products),
		SyncedAt:     c.now().UTC(),
	}

	if err := c.store.PutJSON(ctx, stateKey(siteID), state); err != nil {
		return CatalogState{}, err
	}

	return state, nil
}

// Product 상품을 조회합니다. 없으면 ErrNotFound를 반환합니다.
func (c *Catalog) Product(ctx context.Context, siteID string, id int64) (*host.Product, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	var p host.Product
	if err := c.store.GetJSON(ctx, productKey(siteID, id), &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// State 동기화 상태를 조회합니다. 동기화된 적이 없으면 빈 상태를 반환합니다.
func (c *Catalog) State(ctx context.Context, siteID string) (CatalogState, error) {
	var state CatalogState
	if err := c.store.GetJSON(ctx, stateKey(siteID), &state); err != nil && !errors.Is(err, ErrNotFound) {
		return CatalogState{}, err
	}

	return state, nil
}
