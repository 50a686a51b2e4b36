package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	database "institute_backend/internals/databases"
	"institute_backend/internals/features/attendance/errs"
	"institute_backend/internals/features/attendance/model"
)

var dbSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(fmt.Sprintf("file:repo_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), dbSeq.Add(1)))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func studentRec(studentID uuid.UUID, day time.Time, session string, st model.AttendanceStatus) *model.StudentAttendanceModel {
	return &model.StudentAttendanceModel{
		StudentAttendanceStudentID: studentID,
		StudentAttendanceDate:      day,
		StudentAttendanceSession:   session,
		StudentAttendanceCategory:  "tahfidz",
		StudentAttendanceStatus:    st,
		StudentAttendanceLocation:  datatypes.NewJSONType[*model.LocationSnapshot](nil),
	}
}

func TestStoreError_Mapping(t *testing.T) {
	domain := errs.New(errs.KindNoOpenCheckIn, "no check-in")
	assert.Same(t, domain, StoreError(domain, "x"))

	assert.Equal(t, errs.KindDuplicateRecord, errs.KindOf(StoreError(gorm.ErrDuplicatedKey, "x")))
	assert.Equal(t, errs.KindDuplicateRecord, errs.KindOf(StoreError(&pgconn.PgError{Code: "23505"}, "x")))
	assert.Equal(t, errs.KindUnavailable, errs.KindOf(StoreError(context.DeadlineExceeded, "x")))
	assert.Equal(t, errs.KindUnavailable, errs.KindOf(StoreError(&pgconn.PgError{Code: "08006"}, "x")))
	assert.Equal(t, errs.KindUnavailable, errs.KindOf(StoreError(errors.New("database is locked"), "x")))

	internal := StoreError(errors.New("syntax error"), "failed to list")
	assert.Equal(t, errs.KindInternal, errs.KindOf(internal))
	assert.Contains(t, internal.Error(), "failed to list")
	assert.Nil(t, StoreError(nil, "x"))
}

func TestInsertStudentAttendance_UniqueKey(t *testing.T) {
	db := openTestDB(t)
	sid := uuid.New()
	d := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	first := studentRec(sid, d, "Morning", model.StatusPresent)
	require.NoError(t, InsertStudentAttendance(db, first))

	err := InsertStudentAttendance(db, studentRec(sid, d, "Morning", model.StatusAbsent))
	require.True(t, errs.Is(err, errs.KindDuplicateRecord))

	// bypass guard: unique index tetap menolak
	err = db.Create(studentRec(sid, d, "Morning", model.StatusAbsent)).Error
	require.Error(t, err)
	assert.True(t, isDuplicateKey(err))

	require.NoError(t, InsertStudentAttendance(db, studentRec(sid, d, "Evening", model.StatusAbsent)))
	require.NoError(t, InsertStudentAttendance(db, studentRec(sid, d.AddDate(0, 0, 1), "Morning", model.StatusAbsent)))

	total, attended, err := CountForRollup(db, sid, "tahfidz")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.EqualValues(t, 1, attended)

	total, _, err = CountForRollup(db, sid, "quran")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateDeleteStudentAttendance_NotFound(t *testing.T) {
	db := openTestDB(t)
	id := uuid.New()

	err := UpdateStudentAttendance(db, id, map[string]any{"student_attendance_status": model.StatusLate})
	assert.True(t, errs.Is(err, errs.KindRecordNotFound))
	assert.True(t, errs.Is(DeleteStudentAttendance(db, id), errs.KindRecordNotFound))
	assert.NoError(t, UpdateStudentAttendance(db, id, nil))
}

func TestQueryStudentAttendance_Filters(t *testing.T) {
	db := openTestDB(t)
	a, b := uuid.New(), uuid.New()
	d1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	for _, r := range []*model.StudentAttendanceModel{
		studentRec(a, d1, "Morning", model.StatusPresent),
		studentRec(a, d2, "Morning", model.StatusLate),
		studentRec(b, d2, "Morning", model.StatusAbsent),
		studentRec(b, d2, "Evening", model.StatusAbsent),
	} {
		require.NoError(t, InsertStudentAttendance(db, r))
	}

	rows, total, err := QueryStudentAttendance(db, StudentFilter{Date: &d2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 3)

	rows, total, err = QueryStudentAttendance(db, StudentFilter{StudentIDs: []uuid.UUID{a}, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 1)
	assert.Equal(t, model.StatusLate, rows[0].StudentAttendanceStatus)

	counts, err := StudentStatusCounts(db, StudentFilter{From: &d1, To: &d2})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[model.StatusAbsent])
	assert.EqualValues(t, 1, counts[model.StatusPresent])
	assert.EqualValues(t, 0, counts[model.StatusHalfDay])
}

func TestCompleteStaffAttendance_OnlyOnce(t *testing.T) {
	db := openTestDB(t)
	staffID := uuid.New()
	in := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	rec := &model.StaffAttendanceModel{
		StaffAttendanceStaffID:          staffID,
		StaffAttendanceDate:             time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		StaffAttendanceCheckInAt:        in,
		StaffAttendanceStatus:           model.StatusPresent,
		StaffAttendanceCheckInLocation:  datatypes.NewJSONType(model.LocationSnapshot{MatchedZoneName: "Main"}),
		StaffAttendanceCheckOutLocation: datatypes.NewJSONType[*model.LocationSnapshot](nil),
	}
	require.NoError(t, InsertStaffAttendance(db, rec))

	co := StaffCheckOut{At: in.Add(8 * time.Hour), WorkingHours: 8, Status: model.StatusPresent, Location: model.LocationSnapshot{MatchedZoneName: "Main"}}
	require.NoError(t, CompleteStaffAttendance(db, rec.StaffAttendanceID, co))

	err := CompleteStaffAttendance(db, rec.StaffAttendanceID, co)
	assert.True(t, errs.Is(err, errs.KindAlreadyCompleted))

	got, err := FindStaffAttendanceByID(db, rec.StaffAttendanceID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Completed())
	require.NotNil(t, got.StaffAttendanceCheckOutLocation.Data())
	assert.Equal(t, "Main", got.StaffAttendanceCheckOutLocation.Data().MatchedZoneName)
	assert.Equal(t, "Main", got.StaffAttendanceCheckInLocation.Data().MatchedZoneName)

	dup := *rec
	dup.StaffAttendanceID = uuid.Nil
	err = InsertStaffAttendance(db, &dup)
	assert.True(t, errs.Is(err, errs.KindAlreadyCompleted))
}
