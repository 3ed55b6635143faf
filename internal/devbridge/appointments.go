package devbridge

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type appointmentRepo struct {
	db *gorm.DB
}

func (r *appointmentRepo) List(ctx context.Context) ([]types.Appointment, error) {
	var rows []Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapErr(err, "appointment")
	}
	out := make([]types.Appointment, len(rows))
	for i, row := range rows {
		out[i] = toAppointment(row)
	}
	return out, nil
}

func (r *appointmentRepo) Create(ctx context.Context, input types.AppointmentInput) (types.Appointment, error) {
	var patient Patient
	if err := r.db.WithContext(ctx).Where("id = ?", input.PatientID).First(&patient).Error; err != nil {
		return types.Appointment{}, mapErr(err, "patient")
	}

	row := Appointment{
		PatientID: input.PatientID,
		Title:     input.Title,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    enums.AppointmentStatusScheduled,
		Cost:      input.Cost,
		Notes:     input.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return types.Appointment{}, mapErr(err, "appointment")
	}
	row.Patient = &patient
	return toAppointment(row), nil
}

func (r *appointmentRepo) Update(ctx context.Context, id uuid.UUID, patch types.AppointmentPatch) (types.Appointment, error) {
	var row Appointment
	if err := r.db.WithContext(ctx).Preload("Patient").Where("id = ?", id).First(&row).Error; err != nil {
		return types.Appointment{}, mapErr(err, "appointment")
	}
	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.StartTime != nil {
		row.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		row.EndTime = *patch.EndTime
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return types.Appointment{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown appointment status")
		}
		row.Status = *patch.Status
	}
	if patch.Cost != nil {
		row.Cost = *patch.Cost
	}
	if patch.Notes != nil {
		row.Notes = *patch.Notes
	}
	if !row.EndTime.After(row.StartTime) {
		return types.Appointment{}, pkgerrors.New(pkgerrors.CodeValidation, "end time must be after start time")
	}
	if err := r.db.WithContext(ctx).Omit("Patient").Save(&row).Error; err != nil {
		return types.Appointment{}, mapErr(err, "appointment")
	}
	return toAppointment(row), nil
}

func (r *appointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Appointment{})
	if res.Error != nil {
		return mapErr(res.Error, "appointment")
	}
	if res.RowsAffected == 0 {
		return mapErr(gorm.ErrRecordNotFound, "appointment")
	}
	return nil
}

func toAppointment(row Appointment) types.Appointment {
	out := types.Appointment{
		ID:        row.ID,
		PatientID: row.PatientID,
		Title:     row.Title,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Status:    row.Status,
		Cost:      row.Cost,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Patient != nil {
		patient := toPatient(*row.Patient)
		out.Patient = &patient
		out.PatientName = patient.FullName
	}
	return out
}
