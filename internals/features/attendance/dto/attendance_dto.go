// file: internals/features/attendance/dto/attendance_dto.go
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"institute_backend/internals/features/attendance/model"
	"institute_backend/internals/features/attendance/service"
	"institute_backend/internals/helpers/dbtime"
)

/* ===================== Location (staff check-in/out, self) ===================== */

// LocationRequest: pointer supaya "tidak dikirim" bisa dibedakan dari 0.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r LocationRequest) ToCoordinates() service.Coordinates {
	return service.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

/* ===================== Student single mark ===================== */

type MarkStudentRequest struct {
	StudentID uuid.UUID  `json:"student_id" validate:"required"`
	Date      string     `json:"date" validate:"required,datetime=2006-01-02"`
	Session   string     `json:"session" validate:"required,max=64"`
	Status    string     `json:"status" validate:"required"`
	Remarks   *string    `json:"remarks" validate:"omitempty,max=500"`
	Category  *string    `json:"category" validate:"omitempty,max=120"`
	BatchID   *uuid.UUID `json:"batch_id"`
	Branch    *string    `json:"branch" validate:"omitempty,max=120"`
}

func (r MarkStudentRequest) ToInput(markedBy *uuid.UUID) (service.MarkInput, error) {
	day, err := dbtime.ParseDay(r.Date)
	if err != nil {
		return service.MarkInput{}, err
	}
	st, ok := model.ParseStatus(r.Status)
	if !ok {
		return service.MarkInput{}, fmt.Errorf("invalid status %q (present/absent/late/half_day)", r.Status)
	}
	return service.MarkInput{
		StudentID: r.StudentID,
		Date:      day,
		Session:   strings.TrimSpace(r.Session),
		Status:    st,
		Remarks:   r.Remarks,
		Category:  r.Category,
		BatchID:   r.BatchID,
		Branch:    r.Branch,
		MarkedBy:  markedBy,
	}, nil
}

/* ===================== Student batch mark ===================== */

// BatchStudentItem sengaja tanpa tag validate: entry yang salah dilaporkan per murid
// oleh service, bukan menolak seluruh batch.
type BatchStudentItem struct {
	StudentID uuid.UUID `json:"student_id"`
	Status    string    `json:"status"`
	Remarks   *string   `json:"remarks"`
}

type BatchMarkRequest struct {
	Date     string             `json:"date" validate:"required,datetime=2006-01-02"`
	Session  string             `json:"session" validate:"required,max=64"`
	Category *string            `json:"category" validate:"omitempty,max=120"`
	BatchID  *uuid.UUID         `json:"batch_id"`
	Branch   *string            `json:"branch" validate:"omitempty,max=120"`
	Students []BatchStudentItem `json:"students" validate:"required,min=1,max=500"`
}

// ToInput: status kosong/tidak dikenal tidak menggagalkan batch; diteruskan mentah
// supaya service melaporkannya sebagai error per murid.
func (r BatchMarkRequest) ToInput(markedBy *uuid.UUID) (service.BatchMarkInput, error) {
	day, err := dbtime.ParseDay(r.Date)
	if err != nil {
		return service.BatchMarkInput{}, err
	}
	in := service.BatchMarkInput{
		Date:     day,
		Session:  strings.TrimSpace(r.Session),
		Category: r.Category,
		BatchID:  r.BatchID,
		Branch:   r.Branch,
		MarkedBy: markedBy,
		Entries:  make([]service.BatchEntry, 0, len(r.Students)),
	}
	for _, s := range r.Students {
		st, ok := model.ParseStatus(s.Status)
		if !ok {
			st = model.AttendanceStatus(s.Status)
		}
		in.Entries = append(in.Entries, service.BatchEntry{StudentID: s.StudentID, Status: st, Remarks: s.Remarks})
	}
	return in, nil
}

/* ===================== Edit ===================== */

type UpdateStudentAttendanceRequest struct {
	Status  *string `json:"status"`
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

func (r UpdateStudentAttendanceRequest) ToInput() (service.UpdateInput, error) {
	in := service.UpdateInput{Remarks: r.Remarks}
	if r.Status != nil {
		st, ok := model.ParseStatus(*r.Status)
		if !ok {
			return in, fmt.Errorf("invalid status %q (present/absent/late/half_day)", *r.Status)
		}
		in.Status = &st
	}
	return in, nil
}

/* ===================== Query ===================== */

// DateRangeQuery: ?from=&to= (inklusif) atau ?month=YYYY-MM.
type DateRangeQuery struct {
	From  string `query:"from"`
	To    string `query:"to"`
	Month string `query:"month"`
}

func (q DateRangeQuery) Resolve() (service.DateRange, error) {
	var r service.DateRange
	if m := strings.TrimSpace(q.Month); m != "" {
		from, toEx, err := dbtime.ParseMonth(m)
		if err != nil {
			return r, err
		}
		to := toEx.Add(-24 * time.Hour)
		r.From, r.To = &from, &to
		return r, nil
	}
	if s := strings.TrimSpace(q.From); s != "" {
		d, err := dbtime.ParseDay(s)
		if err != nil {
			return r, err
		}
		r.From = &d
	}
	if s := strings.TrimSpace(q.To); s != "" {
		d, err := dbtime.ParseDay(s)
		if err != nil {
			return r, err
		}
		r.To = &d
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return r, fmt.Errorf("to must not be before from")
	}
	return r, nil
}

type StaffListQuery struct {
	From    string `query:"from"`
	To      string `query:"to"`
	Month   string `query:"month"`
	Date    string `query:"date"`
	StaffID string `query:"staff_id"`
	Status  string `query:"status"`
}

func (q StaffListQuery) Range() (service.DateRange, error) {
	return DateRangeQuery{From: q.From, To: q.To, Month: q.Month}.Resolve()
}

type StudentStatsQuery struct {
	From     string `query:"from"`
	To       string `query:"to"`
	Month    string `query:"month"`
	Category string `query:"category"`
	Branch   string `query:"branch"`
}

func (q StudentStatsQuery) Range() (service.DateRange, error) {
	return DateRangeQuery{From: q.From, To: q.To, Month: q.Month}.Resolve()
}
