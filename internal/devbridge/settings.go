package devbridge

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type settingsRepo struct {
	db *gorm.DB
}

// Get returns the single settings row, seeding a default one on first use.
func (r *settingsRepo) Get(ctx context.Context) (types.ClinicSettings, error) {
	row, err := r.loadOrSeed(ctx)
	if err != nil {
		return types.ClinicSettings{}, err
	}
	return toClinicSettings(row), nil
}

func (r *settingsRepo) Update(ctx context.Context, patch types.ClinicSettingsPatch) (types.ClinicSettings, error) {
	row, err := r.loadOrSeed(ctx)
	if err != nil {
		return types.ClinicSettings{}, err
	}
	if patch.ClinicName != nil {
		row.ClinicName = *patch.ClinicName
	}
	if patch.DoctorName != nil {
		row.DoctorName = *patch.DoctorName
	}
	if patch.Phone != nil {
		row.Phone = *patch.Phone
	}
	if patch.Address != nil {
		row.Address = *patch.Address
	}
	if patch.Currency != nil {
		row.Currency = *patch.Currency
	}
	if patch.Language != nil {
		row.Language = *patch.Language
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return types.ClinicSettings{}, mapErr(err, "settings")
	}
	return toClinicSettings(row), nil
}

func (r *settingsRepo) loadOrSeed(ctx context.Context) (ClinicSettings, error) {
	var row ClinicSettings
	err := r.db.WithContext(ctx).First(&row).Error
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ClinicSettings{}, mapErr(err, "settings")
	}
	row = ClinicSettings{
		ClinicName: "My Clinic",
		Currency:   "JOD",
		Language:   "ar",
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ClinicSettings{}, mapErr(err, "settings")
	}
	return row, nil
}

func toClinicSettings(row ClinicSettings) types.ClinicSettings {
	return types.ClinicSettings{
		ID:         row.ID,
		ClinicName: row.ClinicName,
		DoctorName: row.DoctorName,
		Phone:      row.Phone,
		Address:    row.Address,
		Currency:   row.Currency,
		Language:   row.Language,
		UpdatedAt:  row.UpdatedAt,
	}
}
