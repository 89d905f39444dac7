package auditing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

// BucketStart retorna o início do intervalo que contém t, no fuso loc.
// Semanas começam na segunda-feira.
func BucketStart(t time.Time, group domain.TimelineGroup, loc *time.Location) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()

	switch group {
	case domain.TimelineGroupHour:
		return time.Date(y, m, d, lt.Hour(), 0, 0, 0, loc)
	case domain.TimelineGroupWeek:
		offset := (int(lt.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case domain.TimelineGroupMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// BuildTimeline agrupa os registros por intervalo; só intervalos com registros aparecem
func BuildTimeline(logs []*domain.BudgetAdjustmentLog, group domain.TimelineGroup, loc *time.Location) []*domain.TimelineBucket {
	buckets := make(map[int64]*domain.TimelineBucket)
	changes := make(map[int64]decimal.Decimal)

	for _, log := range logs {
		start := BucketStart(log.CreatedAt, group, loc)
		key := start.Unix()

		bucket, ok := buckets[key]
		if !ok {
			bucket = &domain.TimelineBucket{BucketStart: start}
			buckets[key] = bucket
			changes[key] = decimal.Zero
		}

		bucket.Total++
		switch log.Status {
		case domain.AdjustmentStatusApplied:
			bucket.Successful++
			if log.AdjustmentAmount != nil {
				changes[key] = changes[key].Add(decimal.NewFromFloat(*log.AdjustmentAmount))
			}
		case domain.AdjustmentStatusFailed:
			bucket.Failed++
		case domain.AdjustmentStatusRejected:
			bucket.Rejected++
		}
	}

	timeline := make([]*domain.TimelineBucket, 0, len(buckets))
	for key, bucket := range buckets {
		bucket.TotalBudgetChange, _ = changes[key].Round(2).Float64()
		timeline = append(timeline, bucket)
	}

	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].BucketStart.Before(timeline[j].BucketStart)
	})

	return timeline
}
