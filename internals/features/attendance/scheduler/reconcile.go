package scheduler

import (
	"context"
	"log"
	"time"

	"institute_backend/internals/features/attendance/service"
)

// StartRollupReconcileScheduler: recompute rollup semua murid tiap `every`.
// Jalur utama tetap sinkron di service; ini hanya jaring pengaman.
// every <= 0 → tidak dijalankan.
func StartRollupReconcileScheduler(ctx context.Context, agg *service.AggregateMaintainer, every time.Duration) {
	if every <= 0 {
		log.Println("[RECONCILE] nonaktif (ATTENDANCE_RECONCILE_HOURS=0)")
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[RECONCILE] berhenti")
				return
			case <-ticker.C:
				RunReconcileOnce(ctx, agg)
			}
		}
	}()
}

func RunReconcileOnce(ctx context.Context, agg *service.AggregateMaintainer) {
	log.Println("[RECONCILE] Menjalankan rekonsiliasi rollup absensi...")
	start := time.Now()
	n, err := agg.ReconcileAll(ctx)
	if err != nil {
		log.Printf("[RECONCILE ERROR] berhenti setelah %d murid: %v", n, err)
		return
	}
	log.Printf("[RECONCILE] %d murid direkonsiliasi (%s)", n, time.Since(start).Round(time.Millisecond))
}
