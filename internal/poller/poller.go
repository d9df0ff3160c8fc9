package poller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
	"github.com/AlenaMolokova/smmpanel/internal/metrics"
	"github.com/AlenaMolokova/smmpanel/internal/models"
	"github.com/AlenaMolokova/smmpanel/internal/provider"
	"github.com/AlenaMolokova/smmpanel/internal/status"
	"github.com/AlenaMolokova/smmpanel/internal/usecase"
)

type OrderStorage interface {
	GetActiveOrders(ctx context.Context) ([]models.Order, error)
	GetUnsubmittedOrders(ctx context.Context) ([]models.Order, error)
	SetOrderExternalID(ctx context.Context, orderID, externalID int64) error
}

type ServiceStorage interface {
	GetServiceByID(ctx context.Context, id int64) (models.Service, error)
	UpsertService(ctx context.Context, svc models.Service) error
	DeactivateServicesExcept(ctx context.Context, externalIDs []int64) error
}

type OrderLedger interface {
	Transition(ctx context.Context, orderID int64, newStatus string, actorID int64) error
}

type ProviderClient interface {
	OrderStatuses(ctx context.Context, ids []int64) (map[int64]string, error)
	SubmitOrder(ctx context.Context, serviceExternalID int64, link string, quantity int) (int64, error)
	Services(ctx context.Context) ([]provider.RemoteService, error)
}

type Poller struct {
	orders    OrderStorage
	services  ServiceStorage
	ledger    OrderLedger
	provider  ProviderClient
	interval  time.Duration
	chunkSize int

	mu sync.Mutex // single-flight guard: overlapping runs would double-apply transitions
}

func New(orders OrderStorage, services ServiceStorage, ledger OrderLedger, client ProviderClient, interval time.Duration) *Poller {
	return &Poller{
		orders:    orders,
		services:  services,
		ledger:    ledger,
		provider:  client,
		interval:  interval,
		chunkSize: constants.StatusChunkSize,
	}
}

// Start runs one reconciliation immediately, then on every tick until the
// context is canceled.
func (p *Poller) Start(ctx context.Context) {
	log.Printf("Starting order status poller with interval %v", p.interval)
	p.RunOnce(ctx)

	for ticker := time.NewTicker(p.interval); ; {
		select {
		case <-ctx.Done():
			ticker.Stop()
			log.Println("Order status poller stopped")
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a full reconciliation pass: retry provider submission for
// orders that never made it out, then poll statuses for everything active.
// If a previous pass is still in flight the run is skipped entirely.
func (p *Poller) RunOnce(ctx context.Context) {
	if !p.mu.TryLock() {
		metrics.PollerRunsSkippedTotal.Inc()
		log.Println("Polling run skipped: previous run still in flight")
		return
	}
	defer p.mu.Unlock()

	p.resubmitPending(ctx)
	p.pollStatuses(ctx)
	metrics.PollerRunsTotal.Inc()
}

func (p *Poller) resubmitPending(ctx context.Context) {
	unsubmitted, err := p.orders.GetUnsubmittedOrders(ctx)
	if err != nil {
		log.Printf("Failed to get unsubmitted orders: %v", err)
		return
	}

	for _, order := range unsubmitted {
		svc, err := p.services.GetServiceByID(ctx, order.ServiceID)
		if err != nil {
			log.Printf("Failed to get service %d for order %d: %v", order.ServiceID, order.ID, err)
			continue
		}
		externalID, err := p.provider.SubmitOrder(ctx, svc.ExternalID, order.Link, order.Quantity)
		if err != nil {
			log.Printf("Resubmission failed for order %d: %v", order.ID, err)
			continue
		}
		if err := p.orders.SetOrderExternalID(ctx, order.ID, externalID); err != nil {
			log.Printf("Failed to store external id %d for order %d: %v", externalID, order.ID, err)
			continue
		}
		log.Printf("Order %d resubmitted, external id %d", order.ID, externalID)
	}
}

func (p *Poller) pollStatuses(ctx context.Context) {
	active, err := p.orders.GetActiveOrders(ctx)
	if err != nil {
		log.Printf("Failed to get active orders: %v", err)
		return
	}
	if len(active) == 0 {
		return
	}

	byExternalID := make(map[int64]models.Order, len(active))
	ids := make([]int64, 0, len(active))
	for _, order := range active {
		byExternalID[order.ExternalID.Int64] = order
		ids = append(ids, order.ExternalID.Int64)
	}

	// A failed chunk is this round's loss only; the rest still go through.
	for _, chunk := range chunkIDs(ids, p.chunkSize) {
		statuses, err := p.provider.OrderStatuses(ctx, chunk)
		if err != nil {
			metrics.PollerChunkErrorsTotal.Inc()
			log.Printf("Status chunk of %d orders failed, skipped: %v", len(chunk), err)
			continue
		}

		for externalID, raw := range statuses {
			order, ok := byExternalID[externalID]
			if !ok {
				continue
			}
			normalized := status.Normalize(raw)
			if normalized == constants.StatusUnknown {
				log.Printf("Order %d: unknown provider status %q, left as %s", order.ID, raw, order.Status)
				continue
			}
			if normalized == order.Status {
				continue
			}
			if err := p.ledger.Transition(ctx, order.ID, normalized, 0); err != nil {
				if errors.Is(err, models.ErrInvalidTransition) {
					log.Printf("Order %d: transition %s -> %s not allowed, dropped", order.ID, order.Status, normalized)
					continue
				}
				log.Printf("Failed to transition order %d to %s: %v", order.ID, normalized, err)
			}
		}
	}
}

func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// CatalogSyncer keeps the local service catalog in line with the provider's
// list: matching entries are upserted by external id, entries the provider
// no longer offers are deactivated.
type CatalogSyncer struct {
	services ServiceStorage
	provider ProviderClient
	interval time.Duration
}

func NewCatalogSyncer(services ServiceStorage, client ProviderClient, interval time.Duration) *CatalogSyncer {
	return &CatalogSyncer{services: services, provider: client, interval: interval}
}

func (c *CatalogSyncer) Start(ctx context.Context) {
	log.Printf("Starting catalog sync with interval %v", c.interval)
	if err := c.SyncOnce(ctx); err != nil {
		log.Printf("Catalog sync failed: %v", err)
	}

	for ticker := time.NewTicker(c.interval); ; {
		select {
		case <-ctx.Done():
			ticker.Stop()
			log.Println("Catalog sync stopped")
			return
		case <-ticker.C:
			if err := c.SyncOnce(ctx); err != nil {
				log.Printf("Catalog sync failed: %v", err)
			}
		}
	}
}

func (c *CatalogSyncer) SyncOnce(ctx context.Context) error {
	remote, err := c.provider.Services(ctx)
	if err != nil {
		return err
	}
	if len(remote) == 0 {
		log.Println("Provider returned empty service list, sync skipped")
		return nil
	}

	externalIDs := make([]int64, 0, len(remote))
	for _, rs := range remote {
		costRate := float64(rs.Rate)
		svc := models.Service{
			ExternalID:  int64(rs.Service),
			Name:        rs.Name,
			Category:    rs.Category,
			CostRate:    costRate,
			Rate:        usecase.SellRate(costRate),
			MinQuantity: int(rs.Min),
			MaxQuantity: int(rs.Max),
			Active:      true,
		}
		if err := c.services.UpsertService(ctx, svc); err != nil {
			log.Printf("Failed to upsert service %d: %v", svc.ExternalID, err)
			continue
		}
		externalIDs = append(externalIDs, svc.ExternalID)
	}

	if err := c.services.DeactivateServicesExcept(ctx, externalIDs); err != nil {
		return err
	}

	metrics.CatalogSyncRunsTotal.Inc()
	log.Printf("Catalog synced: %d services", len(externalIDs))
	return nil
}
