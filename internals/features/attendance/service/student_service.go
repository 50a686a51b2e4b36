// file: internals/features/attendance/service/student_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"institute_backend/internals/features/attendance/errs"
	"institute_backend/internals/features/attendance/geo"
	"institute_backend/internals/features/attendance/model"
	attRepo "institute_backend/internals/features/attendance/repository"
	peopleModel "institute_backend/internals/features/people/model"
	peopleRepo "institute_backend/internals/features/people/repository"
	"institute_backend/internals/helpers/dbtime"
)

type StudentService struct {
	DB        *gorm.DB
	Geo       *geo.Validator
	Aggregate *AggregateMaintainer
	Location  *time.Location
	Now       func() time.Time
	Timeout   time.Duration
}

func NewStudentService(db *gorm.DB, v *geo.Validator, agg *AggregateMaintainer, loc *time.Location, timeout time.Duration) *StudentService {
	if loc == nil {
		loc = dbtime.DefaultLocation()
	}
	return &StudentService{DB: db, Geo: v, Aggregate: agg, Location: loc, Now: time.Now, Timeout: timeout}
}

/* ===================== Mark (single) ===================== */

type MarkInput struct {
	StudentID uuid.UUID
	Date      time.Time // day bucket
	Session   string
	Status    model.AttendanceStatus
	Remarks   *string
	// metadata; kosong → diambil dari profil murid
	Category *string
	BatchID  *uuid.UUID
	Branch   *string
	MarkedBy *uuid.UUID

	location *model.LocationSnapshot
}

func (in *MarkInput) normalize(allowSelf bool) error {
	in.Session = strings.TrimSpace(in.Session)
	if in.StudentID == uuid.Nil {
		return errs.New(errs.KindInvalidInput, "student_id is required")
	}
	if in.Date.IsZero() {
		return errs.New(errs.KindInvalidInput, "date is required")
	}
	if in.Session == "" {
		return errs.New(errs.KindInvalidInput, "session is required")
	}
	if !allowSelf && strings.EqualFold(in.Session, model.SelfSession) {
		return errs.Newf(errs.KindInvalidInput, "session %q is reserved for self check-in", model.SelfSession)
	}
	if strings.TrimSpace(string(in.Status)) == "" {
		return errs.New(errs.KindInvalidInput, "status is required")
	}
	if !in.Status.Valid() {
		return errs.Newf(errs.KindInvalidInput, "invalid status %q", in.Status)
	}
	if err := checkRemarks(in.Remarks); err != nil {
		return err
	}
	in.Date = dbtime.DayBucket(in.Date, time.UTC)
	in.Remarks = trimPtr(in.Remarks)
	in.Category = trimPtr(in.Category)
	in.Branch = trimPtr(in.Branch)
	return nil
}

func checkRemarks(r *string) error {
	if r != nil && utf8.RuneCountInString(strings.TrimSpace(*r)) > model.MaxRemarksLen {
		return errs.Newf(errs.KindInvalidInput, "remarks must be at most %d characters", model.MaxRemarksLen)
	}
	return nil
}

type MarkResult struct {
	Record *model.StudentAttendanceModel `json:"record"`
	Rollup *peopleModel.StudentRollup    `json:"rollup,omitempty"`
}

// Mark: guard + insert + recompute dalam satu unit kerja.
func (s *StudentService) Mark(ctx context.Context, in MarkInput) (*MarkResult, error) {
	if err := in.normalize(false); err != nil {
		return nil, err
	}
	return s.mark(ctx, in)
}

func (s *StudentService) mark(ctx context.Context, in MarkInput) (*MarkResult, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var rec *model.StudentAttendanceModel
	rollup, err := s.Aggregate.Apply(ctx, in.StudentID, func(tx *gorm.DB, st *peopleModel.StudentModel) (string, bool, error) {
		category := st.StudentCategory
		if in.Category != nil {
			category = *in.Category
		}
		batchID := st.StudentBatchID
		if in.BatchID != nil {
			batchID = in.BatchID
		}
		branch := st.StudentBranch
		if in.Branch != nil {
			branch = in.Branch
		}

		rec = &model.StudentAttendanceModel{
			StudentAttendanceStudentID: st.StudentID,
			StudentAttendanceDate:      in.Date,
			StudentAttendanceSession:   in.Session,
			StudentAttendanceCategory:  category,
			StudentAttendanceBatchID:   batchID,
			StudentAttendanceBranch:    branch,
			StudentAttendanceStatus:    in.Status,
			StudentAttendanceRemarks:   in.Remarks,
			StudentAttendanceMarkedBy:  in.MarkedBy,
			StudentAttendanceLocation:  datatypes.NewJSONType(in.location),
		}
		if err := attRepo.InsertStudentAttendance(tx, rec); err != nil {
			return "", false, err
		}
		return category, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &MarkResult{Record: rec, Rollup: rollup}, nil
}

/* ===================== Batch ===================== */

type BatchEntry struct {
	StudentID uuid.UUID
	Status    model.AttendanceStatus
	Remarks   *string
}

type BatchMarkInput struct {
	Date     time.Time
	Session  string
	Category *string
	BatchID  *uuid.UUID
	Branch   *string
	MarkedBy *uuid.UUID
	Entries  []BatchEntry
}

type BatchError struct {
	StudentID uuid.UUID      `json:"student_id"`
	Kind      errs.Kind      `json:"error_code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

type BatchResult struct {
	Records      []model.StudentAttendanceModel `json:"records"`
	Errors       []BatchError                   `json:"errors,omitempty"`
	SuccessCount int                            `json:"success_count"`
}

// MarkBatch: tiap murid diproses sendiri-sendiri (berurutan); gagal satu tidak
// menghentikan sisanya.
func (s *StudentService) MarkBatch(ctx context.Context, in BatchMarkInput) (*BatchResult, error) {
	if len(in.Entries) == 0 {
		return nil, errs.New(errs.KindInvalidInput, "at least one student is required")
	}
	res := &BatchResult{Records: []model.StudentAttendanceModel{}}
	for _, e := range in.Entries {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, batchError(e.StudentID,
				errs.Wrap(errs.KindUnavailable, "batch cancelled", err)))
			continue
		}
		one := MarkInput{
			StudentID: e.StudentID,
			Date:      in.Date,
			Session:   in.Session,
			Status:    e.Status,
			Remarks:   e.Remarks,
			Category:  in.Category,
			BatchID:   in.BatchID,
			Branch:    in.Branch,
			MarkedBy:  in.MarkedBy,
		}
		out, err := s.Mark(ctx, one)
		if err != nil {
			res.Errors = append(res.Errors, batchError(e.StudentID, err))
			continue
		}
		res.Records = append(res.Records, *out.Record)
		res.SuccessCount++
	}
	log.Printf("[ATTENDANCE] batch session=%q date=%s ok=%d failed=%d",
		in.Session, in.Date.Format(dbtime.DayLayout), res.SuccessCount, len(res.Errors))
	return res, nil
}

func batchError(studentID uuid.UUID, err error) BatchError {
	be := BatchError{StudentID: studentID, Kind: errs.KindOf(err), Message: err.Error()}
	var de *errs.Error
	if errors.As(err, &de) {
		be.Message = de.Message
		be.Details = de.Details
	}
	return be
}

/* ===================== Self ===================== */

type SelfMarkResult struct {
	Record *model.StudentAttendanceModel `json:"record"`
	Zone   ZoneInfo                      `json:"zone"`
	Rollup *peopleModel.StudentRollup    `json:"rollup,omitempty"`
}

// SelfMark: murid absen sendiri; session "Self", status selalu present, geofence wajib.
func (s *StudentService) SelfMark(ctx context.Context, userID uuid.UUID, c Coordinates) (*SelfMarkResult, error) {
	snap, zone, err := locate(s.Geo, c)
	if err != nil {
		return nil, err
	}

	lookupCtx, cancel := withTimeout(ctx, s.Timeout)
	st, err := peopleRepo.StudentByUser(s.DB.WithContext(lookupCtx), userID)
	cancel()
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to resolve student profile")
	}
	if st == nil {
		return nil, errs.New(errs.KindProfileNotLinked, "no student profile linked to this account").
			With("user_id", userID)
	}

	in := MarkInput{
		StudentID: st.StudentID,
		Date:      dbtime.DayBucket(s.Now(), s.Location),
		Session:   model.SelfSession,
		Status:    model.StatusPresent,
		MarkedBy:  &userID,
		location:  &snap,
	}
	if err := in.normalize(true); err != nil {
		return nil, err
	}
	out, err := s.mark(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Printf("[ATTENDANCE] student=%s self check-in at %s (%.0fm)", st.StudentID, zone.ZoneName, zone.DistanceMeters)
	return &SelfMarkResult{Record: out.Record, Zone: zone, Rollup: out.Rollup}, nil
}

/* ===================== Edit / Delete ===================== */

type UpdateInput struct {
	Status  *model.AttendanceStatus
	Remarks *string
}

// Update: edit status/remarks; perubahan status memicu recompute.
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*MarkResult, error) {
	if in.Status == nil && in.Remarks == nil {
		return nil, errs.New(errs.KindInvalidInput, "nothing to update, provide status and/or remarks")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, errs.Newf(errs.KindInvalidInput, "invalid status %q", *in.Status)
	}
	if err := checkRemarks(in.Remarks); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	cur, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *model.StudentAttendanceModel
	rollup, err := s.Aggregate.Apply(ctx, cur.StudentAttendanceStudentID, func(tx *gorm.DB, _ *peopleModel.StudentModel) (string, bool, error) {
		rec, err := attRepo.FindStudentAttendanceByID(tx, id)
		if err != nil {
			return "", false, err
		}
		if rec == nil {
			return "", false, errs.New(errs.KindRecordNotFound, "attendance record not found").With("record_id", id)
		}

		patch := map[string]any{}
		statusChanged := false
		if in.Status != nil && *in.Status != rec.StudentAttendanceStatus {
			patch["student_attendance_status"] = *in.Status
			statusChanged = true
		}
		if in.Remarks != nil {
			patch["student_attendance_remarks"] = trimPtr(in.Remarks)
		}
		if err := attRepo.UpdateStudentAttendance(tx, id, patch); err != nil {
			return "", false, err
		}
		if updated, err = attRepo.FindStudentAttendanceByID(tx, id); err != nil {
			return "", false, err
		}
		return rec.StudentAttendanceCategory, statusChanged, nil
	})
	if err != nil {
		return nil, err
	}
	return &MarkResult{Record: updated, Rollup: rollup}, nil
}

// Delete: hapus permanen (unique key bebas lagi) + recompute.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) (*peopleModel.StudentRollup, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	cur, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Aggregate.Apply(ctx, cur.StudentAttendanceStudentID, func(tx *gorm.DB, _ *peopleModel.StudentModel) (string, bool, error) {
		if err := attRepo.DeleteStudentAttendance(tx, id); err != nil {
			return "", false, err
		}
		return cur.StudentAttendanceCategory, true, nil
	})
}

func (s *StudentService) find(ctx context.Context, id uuid.UUID) (*model.StudentAttendanceModel, error) {
	rec, err := attRepo.FindStudentAttendanceByID(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load attendance record")
	}
	if rec == nil {
		return nil, errs.New(errs.KindRecordNotFound, "attendance record not found").With("record_id", id)
	}
	return rec, nil
}

/* ===================== Queries ===================== */

type StudentSummary struct {
	Total      int64 `json:"total"`
	Present    int64 `json:"present"`
	Absent     int64 `json:"absent"`
	Late       int64 `json:"late"`
	HalfDay    int64 `json:"half_day"`
	Percentage int   `json:"percentage"`
}

func summaryFromCounts(c map[model.AttendanceStatus]int64) StudentSummary {
	s := StudentSummary{
		Present: c[model.StatusPresent],
		Absent:  c[model.StatusAbsent],
		Late:    c[model.StatusLate],
		HalfDay: c[model.StatusHalfDay],
	}
	var attended int64
	for st, n := range c {
		s.Total += n
		if st.Attended() {
			attended += n
		}
	}
	s.Percentage = Percentage(attended, s.Total)
	return s
}

type StudentRecordsResult struct {
	Records []model.StudentAttendanceModel `json:"records"`
	Summary StudentSummary                 `json:"summary"`
}

// ListByStudent: riwayat satu murid + ringkasan status.
func (s *StudentService) ListByStudent(ctx context.Context, studentID uuid.UUID, r DateRange, category *string) (*StudentRecordsResult, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	f := attRepo.StudentFilter{StudentID: &studentID, From: r.From, To: r.To, Category: trimPtr(category)}
	rows, _, err := attRepo.QueryStudentAttendance(db, f)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load attendance")
	}
	counts, err := attRepo.StudentStatusCounts(db, f)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to summarize attendance")
	}
	if rows == nil {
		rows = []model.StudentAttendanceModel{}
	}
	return &StudentRecordsResult{Records: rows, Summary: summaryFromCounts(counts)}, nil
}

// ListByDate: semua record pada satu hari (paging opsional).
func (s *StudentService) ListByDate(ctx context.Context, day time.Time, limit, offset int) ([]model.StudentAttendanceModel, int64, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	day = dbtime.DayBucket(day, time.UTC)
	rows, total, err := attRepo.QueryStudentAttendance(s.DB.WithContext(ctx), attRepo.StudentFilter{
		Date: &day, Limit: limit, Offset: offset,
	})
	if err != nil {
		return nil, 0, attRepo.StoreError(err, "failed to load attendance")
	}
	if rows == nil {
		rows = []model.StudentAttendanceModel{}
	}
	return rows, total, nil
}

type BatchRosterResult struct {
	Batch   *peopleModel.BatchModel        `json:"batch"`
	Roster  []uuid.UUID                    `json:"roster"`
	Records []model.StudentAttendanceModel `json:"records"`
}

// ListByBatch: record untuk murid yang ada di roster batch (opsional satu hari).
func (s *StudentService) ListByBatch(ctx context.Context, batchID uuid.UUID, day *time.Time) (*BatchRosterResult, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	b, err := peopleRepo.BatchByID(db, batchID)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load batch")
	}
	if b == nil {
		return nil, errs.New(errs.KindBatchNotFound, "batch not found").With("batch_id", batchID)
	}
	roster, err := peopleRepo.StudentIDsInBatch(db, batchID)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load batch roster")
	}
	if roster == nil {
		roster = []uuid.UUID{}
	}

	f := attRepo.StudentFilter{StudentIDs: roster}
	if day != nil {
		d := dbtime.DayBucket(*day, time.UTC)
		f.Date = &d
	}
	rows, _, err := attRepo.QueryStudentAttendance(db, f)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load attendance")
	}
	if rows == nil {
		rows = []model.StudentAttendanceModel{}
	}
	return &BatchRosterResult{Batch: b, Roster: roster, Records: rows}, nil
}

type OverviewFilter struct {
	DateRange
	Category *string
	Branch   *string
}

type Overview struct {
	ByStatus   map[model.AttendanceStatus]int64 `json:"by_status"`
	Total      int64                            `json:"total"`
	Attended   int64                            `json:"attended"`
	Percentage int                              `json:"percentage"`
}

func (s *StudentService) Overview(ctx context.Context, f OverviewFilter) (*Overview, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	counts, err := attRepo.StudentStatusCounts(s.DB.WithContext(ctx), attRepo.StudentFilter{
		From: f.From, To: f.To, Category: trimPtr(f.Category), Branch: trimPtr(f.Branch),
	})
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to aggregate attendance")
	}
	out := &Overview{ByStatus: map[model.AttendanceStatus]int64{}}
	for _, st := range model.AllStatuses {
		out.ByStatus[st] = counts[st]
		out.Total += counts[st]
		if st.Attended() {
			out.Attended += counts[st]
		}
	}
	out.Percentage = Percentage(out.Attended, out.Total)
	return out, nil
}
