package people

import (
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"institute_backend/internals/features/people/model"
	"institute_backend/internals/features/people/repository"
)

type BatchSeed struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Name     string    `json:"batch_name"`
	Category string    `json:"batch_category"`
	Branch   *string   `json:"batch_branch"`
}

type StudentSeed struct {
	StudentID uuid.UUID  `json:"student_id"`
	UserID    *uuid.UUID `json:"student_user_id"`
	Name      string     `json:"student_name"`
	BatchID   *uuid.UUID `json:"student_batch_id"`
	Category  string     `json:"student_category"`
	Branch    *string    `json:"student_branch"`
}

type StaffSeed struct {
	StaffID uuid.UUID  `json:"staff_id"`
	UserID  *uuid.UUID `json:"staff_user_id"`
	Name    string     `json:"staff_name"`
	Branch  *string    `json:"staff_branch"`
	Role    string     `json:"staff_role"`
}

type PeopleSeed struct {
	Batches  []BatchSeed   `json:"batches"`
	Students []StudentSeed `json:"students"`
	Staff    []StaffSeed   `json:"staff"`
}

func SeedPeopleFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("gagal membaca file JSON: %w", err)
	}

	var data PeopleSeed
	if err := sonic.Unmarshal(file, &data); err != nil {
		return fmt.Errorf("gagal decode JSON: %w", err)
	}
	return SeedPeople(db, data)
}

// SeedPeople: idempotent, baris yang sudah ada (by id) dilewati.
func SeedPeople(db *gorm.DB, data PeopleSeed) error {
	for _, b := range data.Batches {
		if b.BatchID != uuid.Nil {
			if existing, err := repository.BatchByID(db, b.BatchID); err != nil {
				return err
			} else if existing != nil {
				log.Printf("ℹ️ Batch %s sudah ada, lewati...", b.Name)
				continue
			}
		}
		row := model.BatchModel{BatchID: b.BatchID, BatchName: b.Name, BatchCategory: b.Category, BatchBranch: b.Branch}
		if err := repository.CreateBatch(db, &row); err != nil {
			log.Printf("❌ Gagal insert batch %s: %v", b.Name, err)
			continue
		}
		log.Printf("✅ Berhasil insert batch %s", b.Name)
	}

	for _, s := range data.Students {
		if s.StudentID != uuid.Nil {
			if existing, err := repository.StudentByID(db, s.StudentID); err != nil {
				return err
			} else if existing != nil {
				log.Printf("ℹ️ Murid %s sudah ada, lewati...", s.Name)
				continue
			}
		}
		row := model.StudentModel{
			StudentID:       s.StudentID,
			StudentUserID:   s.UserID,
			StudentName:     s.Name,
			StudentBatchID:  s.BatchID,
			StudentCategory: s.Category,
			StudentBranch:   s.Branch,
		}
		if err := repository.CreateStudent(db, &row); err != nil {
			log.Printf("❌ Gagal insert murid %s: %v", s.Name, err)
			continue
		}
		log.Printf("✅ Berhasil insert murid %s", s.Name)
	}

	for _, s := range data.Staff {
		if s.UserID != nil {
			if existing, err := repository.StaffByUser(db, *s.UserID); err != nil {
				return err
			} else if existing != nil {
				log.Printf("ℹ️ Staff %s sudah ada, lewati...", s.Name)
				continue
			}
		}
		role := s.Role
		if role == "" {
			role = "staff"
		}
		row := model.StaffModel{StaffID: s.StaffID, StaffUserID: s.UserID, StaffName: s.Name, StaffBranch: s.Branch, StaffRole: role}
		if err := repository.CreateStaff(db, &row); err != nil {
			log.Printf("❌ Gagal insert staff %s: %v", s.Name, err)
			continue
		}
		log.Printf("✅ Berhasil insert staff %s", s.Name)
	}
	return nil
}
