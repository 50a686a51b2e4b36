// file: internals/features/attendance/service/aggregate_service.go
package service

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"institute_backend/internals/features/attendance/errs"
	attRepo "institute_backend/internals/features/attendance/repository"
	peopleModel "institute_backend/internals/features/people/model"
	peopleRepo "institute_backend/internals/features/people/repository"
)

/* ---------------------------------------------------
   keyedMutex: satu mutex per student, dibuang saat tak dipakai
--------------------------------------------------- */
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(id uuid.UUID) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = map[uuid.UUID]*refMutex{}
	}
	m, ok := k.locks[id]
	if !ok {
		m = &refMutex{}
		k.locks[id] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

/* ---------------------------------------------------
   AggregateMaintainer
--------------------------------------------------- */

// AggregateMaintainer menjaga rollup di profil murid selalu sama dengan ledger.
// Tulis ledger + recompute berjalan dalam satu transaksi, diserialkan per murid
// (mutex in-process + row lock di postgres).
type AggregateMaintainer struct {
	DB      *gorm.DB
	Now     func() time.Time
	Timeout time.Duration

	locks keyedMutex
}

func NewAggregateMaintainer(db *gorm.DB, timeout time.Duration) *AggregateMaintainer {
	return &AggregateMaintainer{DB: db, Now: time.Now, Timeout: timeout}
}

// LedgerWrite dijalankan di dalam transaksi dengan baris murid terkunci.
// Mengembalikan category (scope rollup) yang disentuh; "" + recompute=false → tanpa recompute.
type LedgerWrite func(tx *gorm.DB, student *peopleModel.StudentModel) (scope string, recompute bool, err error)

// Apply: lock murid → tx { lock row, write, recompute } → commit.
func (a *AggregateMaintainer) Apply(ctx context.Context, studentID uuid.UUID, write LedgerWrite) (*peopleModel.StudentRollup, error) {
	unlock := a.locks.Lock(studentID)
	defer unlock()

	var rollup *peopleModel.StudentRollup
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := peopleRepo.LockStudent(tx, studentID)
		if err != nil {
			return err
		}
		if st == nil {
			return errs.New(errs.KindRecordNotFound, "student not found").With("student_id", studentID)
		}

		scope, recompute, err := write(tx, st)
		if err != nil {
			return err
		}
		if !recompute {
			return nil
		}
		r, err := a.Recompute(tx, studentID, scope)
		if err != nil {
			return err
		}
		rollup = &r
		return nil
	})
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to write attendance")
	}
	return rollup, nil
}

// Recompute: hitung ulang dari ledger lalu tulis ke profil. Harus dipanggil dengan tx.
func (a *AggregateMaintainer) Recompute(tx *gorm.DB, studentID uuid.UUID, category string) (peopleModel.StudentRollup, error) {
	total, attended, err := attRepo.CountForRollup(tx, studentID, category)
	if err != nil {
		return peopleModel.StudentRollup{}, err
	}
	r := peopleModel.StudentRollup{
		Category:   category,
		Total:      int(total),
		Attended:   int(attended),
		Percentage: Percentage(attended, total),
	}
	if err := peopleRepo.SaveStudentRollup(tx, studentID, r, a.Now()); err != nil {
		return peopleModel.StudentRollup{}, err
	}
	return r, nil
}

// Percentage: round(attended/total*100), 0 kalau total 0.
func Percentage(attended, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(attended) / float64(total) * 100))
}

// rollupScope: scope yang sedang diklaim profil (fallback ke category murid saat ini).
func rollupScope(st *peopleModel.StudentModel) string {
	if st.StudentRollupUpdatedAt != nil {
		return st.StudentRollupCategory
	}
	return st.StudentCategory
}

// ReconcileAll: jaring pengaman; recompute semua murid per halaman.
func (a *AggregateMaintainer) ReconcileAll(ctx context.Context) (int, error) {
	const pageSize = 200
	var (
		after uuid.UUID
		done  int
	)
	for {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		page, err := peopleRepo.StudentsPage(a.DB.WithContext(ctx), after, pageSize)
		if err != nil {
			return done, attRepo.StoreError(err, "failed to page students")
		}
		if len(page) == 0 {
			return done, nil
		}
		for i := range page {
			id := page[i].StudentID
			opCtx, cancel := withTimeout(ctx, a.Timeout)
			_, err := a.Apply(opCtx, id, func(tx *gorm.DB, st *peopleModel.StudentModel) (string, bool, error) {
				return rollupScope(st), true, nil
			})
			cancel()
			if err != nil {
				log.Printf("[RECONCILE] student=%s gagal: %v", id, err)
				continue
			}
			done++
		}
		after = page[len(page)-1].StudentID
	}
}
