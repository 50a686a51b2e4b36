package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "institute_backend/internals/databases"
	"institute_backend/internals/features/attendance/geo"
	"institute_backend/internals/features/attendance/policy"
	peopleModel "institute_backend/internals/features/people/model"
	peopleRepo "institute_backend/internals/features/people/repository"
	"institute_backend/internals/helpers/dbtime"
)

var (
	ist    = time.FixedZone("IST", 5*3600+1800)
	dbSeq  atomic.Int64
	campus = geo.Zone{Name: "Bhilai Campus", Latitude: 21.22751, Longitude: 81.35853, RadiusMeters: 200}
)

type fixture struct {
	db    *gorm.DB
	svc   *Services
	now   time.Time
	batch peopleModel.BatchModel

	students     []peopleModel.StudentModel
	studentUsers []uuid.UUID

	staff     peopleModel.StaffModel
	staffUser uuid.UUID
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:attendance_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), dbSeq.Add(1))
	db, err := database.OpenSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// newFixture: 1 batch berisi 5 murid, 1 staff, jam 09:15 IST tanggal 2026-03-11.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)

	f := &fixture{db: db, now: time.Date(2026, 3, 11, 9, 15, 0, 0, ist)}

	branch := "Bhilai"
	f.batch = peopleModel.BatchModel{BatchName: "Tahfidz Pagi A", BatchCategory: "tahfidz", BatchBranch: &branch}
	require.NoError(t, peopleRepo.CreateBatch(db, &f.batch))

	names := []string{"Ahmad", "Bilal", "Citra", "Dina", "Emir"}
	for _, n := range names {
		uid := uuid.New()
		s := peopleModel.StudentModel{
			StudentUserID:   &uid,
			StudentName:     n,
			StudentBatchID:  &f.batch.BatchID,
			StudentCategory: "tahfidz",
			StudentBranch:   &branch,
		}
		require.NoError(t, peopleRepo.CreateStudent(db, &s))
		f.students = append(f.students, s)
		f.studentUsers = append(f.studentUsers, uid)
	}

	f.staffUser = uuid.New()
	f.staff = peopleModel.StaffModel{StaffUserID: &f.staffUser, StaffName: "Ustadz Rahman", StaffBranch: &branch, StaffRole: "teacher"}
	require.NoError(t, peopleRepo.CreateStaff(db, &f.staff))

	v, err := geo.NewValidator([]geo.Zone{campus})
	require.NoError(t, err)
	tw := policy.NewTimeWindow(dbtime.MustParse(policy.DefaultExpectedStart), policy.DefaultHalfDayMinHours, ist)

	f.svc = NewServices(db, v, tw, 0).WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) setClock(t time.Time) { f.now = t }

func (f *fixture) student(t *testing.T, i int) *peopleModel.StudentModel {
	t.Helper()
	st, err := peopleRepo.StudentByID(f.db, f.students[i].StudentID)
	require.NoError(t, err)
	require.NotNil(t, st)
	return st
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func coords(lat, lon float64) Coordinates {
	return Coordinates{Latitude: &lat, Longitude: &lon}
}

func inside() Coordinates { return coords(campus.Latitude, campus.Longitude) }

// ~1.1 km di utara kampus
func outside() Coordinates { return coords(campus.Latitude+0.01, campus.Longitude) }
