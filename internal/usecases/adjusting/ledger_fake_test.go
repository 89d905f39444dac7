package adjusting

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/goal-pacing-api/infrastructure/repository"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

// memoryLedger reproduz em memória o contrato do repositório: lock por entidade
// e linhas gravadas só quando a função retorna sem erro
type memoryLedger struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	logs  []*domain.BudgetAdjustmentLog
	// txAppendErr faz o Append dentro do lock falhar
	txAppendErr error
}

func newMemoryLedger(seed ...*domain.BudgetAdjustmentLog) *memoryLedger {
	return &memoryLedger{
		locks: make(map[string]*sync.Mutex),
		logs:  seed,
	}
}

func (l *memoryLedger) entityLock(entityID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[entityID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[entityID] = lock
	}
	return lock
}

func (l *memoryLedger) LastAppliedAt(_ context.Context, entityID string) (*time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lastApplied(l.logs, entityID), nil
}

func (l *memoryLedger) LastCampaignID(_ context.Context, entityID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lastCampaign(l.logs, entityID), nil
}

func (l *memoryLedger) Append(_ context.Context, log *domain.BudgetAdjustmentLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, log)
	return nil
}

func (l *memoryLedger) WithEntityLock(ctx context.Context, entityID string, fn func(ledger repository.AdjustmentLedger) error) error {
	lock := l.entityLock(entityID)
	lock.Lock()
	defer lock.Unlock()

	tx := &memoryTx{parent: l}
	if err := fn(tx); err != nil {
		return err
	}

	l.mu.Lock()
	l.logs = append(l.logs, tx.pending...)
	l.mu.Unlock()
	return nil
}

func (l *memoryLedger) List(_ context.Context, filter domain.AdjustmentLogFilter) ([]*domain.BudgetAdjustmentLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*domain.BudgetAdjustmentLog, 0)
	for _, log := range l.logs {
		if filter.EntityID != "" && log.EntityID != filter.EntityID {
			continue
		}
		if filter.CampaignID != "" && log.CampaignID != filter.CampaignID {
			continue
		}
		if log.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func (l *memoryLedger) rows(entityID string) []*domain.BudgetAdjustmentLog {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*domain.BudgetAdjustmentLog, 0)
	for _, log := range l.logs {
		if log.EntityID == entityID {
			out = append(out, log)
		}
	}
	return out
}

func (l *memoryLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.logs)
}

type memoryTx struct {
	parent  *memoryLedger
	pending []*domain.BudgetAdjustmentLog
}

func (tx *memoryTx) LastAppliedAt(ctx context.Context, entityID string) (*time.Time, error) {
	if last := lastApplied(tx.pending, entityID); last != nil {
		return last, nil
	}
	return tx.parent.LastAppliedAt(ctx, entityID)
}

func (tx *memoryTx) LastCampaignID(ctx context.Context, entityID string) (string, error) {
	if campaignID := lastCampaign(tx.pending, entityID); campaignID != "" {
		return campaignID, nil
	}
	return tx.parent.LastCampaignID(ctx, entityID)
}

func (tx *memoryTx) Append(_ context.Context, log *domain.BudgetAdjustmentLog) error {
	if tx.parent.txAppendErr != nil {
		return tx.parent.txAppendErr
	}
	tx.pending = append(tx.pending, log)
	return nil
}

func lastCampaign(logs []*domain.BudgetAdjustmentLog, entityID string) string {
	campaignID := ""
	var at time.Time
	for _, log := range logs {
		if log.EntityID != entityID || log.CampaignID == "" {
			continue
		}
		if campaignID == "" || !log.CreatedAt.Before(at) {
			campaignID, at = log.CampaignID, log.CreatedAt
		}
	}
	return campaignID
}

func lastApplied(logs []*domain.BudgetAdjustmentLog, entityID string) *time.Time {
	var last *time.Time
	for _, log := range logs {
		if log.EntityID != entityID || log.Status != domain.AdjustmentStatusApplied {
			continue
		}
		if last == nil || log.CreatedAt.After(*last) {
			at := log.CreatedAt
			last = &at
		}
	}
	return last
}
