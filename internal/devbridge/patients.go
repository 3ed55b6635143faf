package devbridge

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type patientRepo struct {
	db *gorm.DB
}

func (r *patientRepo) List(ctx context.Context) ([]types.Patient, error) {
	var rows []Patient
	if err := r.db.WithContext(ctx).Order("full_name ASC").Find(&rows).Error; err != nil {
		return nil, mapErr(err, "patient")
	}
	out := make([]types.Patient, len(rows))
	for i, row := range rows {
		out[i] = toPatient(row)
	}
	return out, nil
}

func (r *patientRepo) Create(ctx context.Context, input types.PatientInput) (types.Patient, error) {
	row := Patient{
		FullName:    input.FullName,
		Phone:       input.Phone,
		Email:       input.Email,
		Gender:      input.Gender,
		DateOfBirth: input.DateOfBirth,
		Address:     input.Address,
		Notes:       input.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return types.Patient{}, mapErr(err, "patient")
	}
	return toPatient(row), nil
}

func (r *patientRepo) Update(ctx context.Context, id uuid.UUID, patch types.PatientPatch) (types.Patient, error) {
	var row Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return types.Patient{}, mapErr(err, "patient")
	}
	if patch.FullName != nil {
		row.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		row.Phone = *patch.Phone
	}
	if patch.Email != nil {
		row.Email = *patch.Email
	}
	if patch.Gender != nil {
		row.Gender = *patch.Gender
	}
	if patch.DateOfBirth != nil {
		row.DateOfBirth = patch.DateOfBirth
	}
	if patch.Address != nil {
		row.Address = *patch.Address
	}
	if patch.Notes != nil {
		row.Notes = *patch.Notes
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return types.Patient{}, mapErr(err, "patient")
	}
	return toPatient(row), nil
}

// Delete removes the patient and every dependent row in one transaction, the
// same cascade the host bridge performs.
func (r *patientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Patient{})
		if res.Error != nil {
			return mapErr(res.Error, "patient")
		}
		if res.RowsAffected == 0 {
			return mapErr(gorm.ErrRecordNotFound, "patient")
		}
		for _, dependent := range []any{&Appointment{}, &Payment{}, &LabOrder{}} {
			if err := tx.Where("patient_id = ?", id).Delete(dependent).Error; err != nil {
				return mapErr(err, "patient dependents")
			}
		}
		return nil
	})
}

func toPatient(row Patient) types.Patient {
	return types.Patient{
		ID:          row.ID,
		FullName:    row.FullName,
		Phone:       row.Phone,
		Email:       row.Email,
		Gender:      row.Gender,
		DateOfBirth: row.DateOfBirth,
		Address:     row.Address,
		Notes:       row.Notes,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
