package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/inventory"
	"github.com/jhoicas/stockledger/internal/domain/repository"
	"github.com/jhoicas/stockledger/pkg/cache"
	"github.com/rs/zerolog"
)

// PurchaseListCacheKey clave de la lista de compra en cache.
const PurchaseListCacheKey = "stockledger:purchase-list"

// PurchaseListUseCase genera la lista de compra a partir de los componentes con alerta abierta.
// Si hay cache configurado, la lista se guarda hasta que cambie alguna alerta o venza el TTL.
type PurchaseListUseCase struct {
	componentRepo repository.ComponentRepository
	alertRepo     repository.AlertRepository
	cache         cache.Client
	ttl           time.Duration
	log           zerolog.Logger
	now           func() time.Time

	// gen se incrementa en cada Invalidate; una lista calculada antes no se guarda.
	gen atomic.Uint64
}

// NewPurchaseListUseCase construye el caso de uso. c puede ser nil (sin cache).
func NewPurchaseListUseCase(
	componentRepo repository.ComponentRepository,
	alertRepo repository.AlertRepository,
	c cache.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *PurchaseListUseCase {
	return &PurchaseListUseCase{
		componentRepo: componentRepo,
		alertRepo:     alertRepo,
		cache:         c,
		ttl:           ttl,
		log:           log,
		now:           time.Now,
	}
}

// GetPurchaseList devuelve la lista agregada por identidad de compra, ordenada por grupo y dispositivo.
func (uc *PurchaseListUseCase) GetPurchaseList(ctx context.Context) (*inventory.PurchaseList, error) {
	start := uc.gen.Load()
	if list, ok := uc.fromCache(ctx); ok {
		return list, nil
	}

	alerts, err := uc.alertRepo.List(ctx)
	if err != nil {
		return nil, domain.WrapStorage("list alerts", err)
	}
	ids := make([]int64, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ComponentID)
	}
	components, err := uc.componentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.WrapStorage("get alerted components", err)
	}
	alerted := make([]entity.Component, 0, len(components))
	for _, c := range components {
		alerted = append(alerted, *c)
	}

	list, err := inventory.BuildPurchaseList(alerted, uc.now())
	if err != nil {
		return nil, err
	}
	if uc.gen.Load() == start {
		uc.toCache(ctx, &list)
	} else {
		uc.log.Debug().Msg("lista de compra invalidada durante el cálculo, no se cachea")
	}
	return &list, nil
}

// Invalidate descarta la lista cacheada. Implementa PurchaseListInvalidator.
func (uc *PurchaseListUseCase) Invalidate(ctx context.Context) {
	uc.gen.Add(1)
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, PurchaseListCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("invalidar lista de compra en cache")
	}
}

func (uc *PurchaseListUseCase) fromCache(ctx context.Context) (*inventory.PurchaseList, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, err := uc.cache.Get(ctx, PurchaseListCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.log.Warn().Err(err).Msg("leer lista de compra de cache")
		}
		return nil, false
	}
	var list inventory.PurchaseList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		uc.log.Warn().Err(err).Msg("decodificar lista de compra cacheada")
		return nil, false
	}
	return &list, true
}

func (uc *PurchaseListUseCase) toCache(ctx context.Context, list *inventory.PurchaseList) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		uc.log.Warn().Err(err).Msg("codificar lista de compra")
		return
	}
	if err := uc.cache.Set(ctx, PurchaseListCacheKey, string(raw), uc.ttl); err != nil {
		uc.log.Warn().Err(err).Msg("guardar lista de compra en cache")
	}
}
