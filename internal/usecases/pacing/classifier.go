package pacing

import (
	"math"

	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

const DefaultAttentionRatio = 0.9

type Classifier struct {
	attentionRatio float64
}

func NewClassifier(attentionRatio float64) Classifier {
	if attentionRatio <= 0 || attentionRatio > 1 || math.IsNaN(attentionRatio) {
		attentionRatio = DefaultAttentionRatio
	}
	return Classifier{attentionRatio: attentionRatio}
}

// Classify avalia o status a cada chamada, sem memória de avaliações anteriores
func (c Classifier) Classify(m domain.PaceMetrics) domain.PaceStatus {
	needed := m.LeadsNeededDaily
	if math.IsNaN(needed) || math.IsInf(needed, 0) {
		return domain.PaceStatusCritical
	}

	yesterday := float64(m.LeadsYesterday)

	switch {
	case needed <= 0:
		return domain.PaceStatusOnTrack
	case yesterday < needed*c.attentionRatio:
		return domain.PaceStatusBehind
	case yesterday < needed:
		return domain.PaceStatusAttention
	default:
		return domain.PaceStatusOnTrack
	}
}
