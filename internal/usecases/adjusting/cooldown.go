package adjusting

import (
	"context"
	"time"

	"github.com/vfg2006/goal-pacing-api/infrastructure/repository"
)

// CooldownStatus é derivado sempre do log de ajustes, nunca de estado em memória
type CooldownStatus struct {
	Allowed       bool
	LastAppliedAt *time.Time
	NextAllowedAt *time.Time
}

type CooldownLimiter struct {
	window time.Duration
	now    func() time.Time
}

func NewCooldownLimiter(window time.Duration, now func() time.Time) *CooldownLimiter {
	if now == nil {
		now = time.Now
	}
	return &CooldownLimiter{
		window: window,
		now:    now,
	}
}

func (l *CooldownLimiter) Now() time.Time {
	return l.now()
}

// Check bloqueia a entidade se houver ajuste aplicado dentro da janela
func (l *CooldownLimiter) Check(ctx context.Context, ledger repository.AdjustmentLedger, entityID string) (*CooldownStatus, error) {
	lastAppliedAt, err := ledger.LastAppliedAt(ctx, entityID)
	if err != nil {
		return nil, err
	}

	return l.StatusFrom(lastAppliedAt), nil
}

func (l *CooldownLimiter) StatusFrom(lastAppliedAt *time.Time) *CooldownStatus {
	status := &CooldownStatus{Allowed: true, LastAppliedAt: lastAppliedAt}
	if lastAppliedAt == nil || l.window <= 0 {
		return status
	}

	next := lastAppliedAt.Add(l.window)
	if l.now().Before(next) {
		status.Allowed = false
		status.NextAllowedAt = &next
	}

	return status
}
