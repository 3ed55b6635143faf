package devbridge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

const receiptPrefix = "RCP-"

type paymentRepo struct {
	db *gorm.DB
}

func (r *paymentRepo) List(ctx context.Context) ([]types.Payment, error) {
	var rows []Payment
	if err := r.db.WithContext(ctx).Order("payment_date DESC").Find(&rows).Error; err != nil {
		return nil, mapErr(err, "payment")
	}
	return r.decorate(ctx, rows)
}

func (r *paymentRepo) Create(ctx context.Context, input types.PaymentInput) (types.Payment, error) {
	receipt, err := r.nextReceiptNumber(ctx)
	if err != nil {
		return types.Payment{}, err
	}

	row := Payment{
		PatientID:        input.PatientID,
		AppointmentID:    input.AppointmentID,
		ToothTreatmentID: input.ToothTreatmentID,
		Amount:           input.Amount,
		Discount:         input.Discount,
		Tax:              input.Tax,
		Method:           input.Method,
		ReceiptNumber:    receipt,
		PaymentDate:      input.PaymentDate,
		Notes:            input.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return types.Payment{}, mapErr(err, "payment")
	}
	return r.decorateOne(ctx, row)
}

func (r *paymentRepo) Update(ctx context.Context, id uuid.UUID, patch types.PaymentPatch) (types.Payment, error) {
	var row Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return types.Payment{}, mapErr(err, "payment")
	}
	if patch.Amount != nil {
		row.Amount = *patch.Amount
	}
	if patch.Discount != nil {
		row.Discount = *patch.Discount
	}
	if patch.Tax != nil {
		row.Tax = *patch.Tax
	}
	if patch.Method != nil {
		row.Method = *patch.Method
	}
	if patch.PaymentDate != nil {
		row.PaymentDate = *patch.PaymentDate
	}
	if patch.Notes != nil {
		row.Notes = *patch.Notes
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return types.Payment{}, mapErr(err, "payment")
	}
	return r.decorateOne(ctx, row)
}

func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Payment{})
	if res.Error != nil {
		return mapErr(res.Error, "payment")
	}
	if res.RowsAffected == 0 {
		return mapErr(gorm.ErrRecordNotFound, "payment")
	}
	return nil
}

// nextReceiptNumber continues the sequence from the highest issued number.
// Zero-padded numbers sort lexicographically, so the column max is the last
// issued receipt even after older rows are deleted.
func (r *paymentRepo) nextReceiptNumber(ctx context.Context) (string, error) {
	var last string
	err := r.db.WithContext(ctx).Model(&Payment{}).
		Select("COALESCE(MAX(receipt_number), '')").
		Scan(&last).Error
	if err != nil {
		return "", mapErr(err, "payment")
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(last, receiptPrefix))
	if err != nil {
		seq = 0
	}
	return fmt.Sprintf("%s%06d", receiptPrefix, seq+1), nil
}

// decorate derives the patient-level balance figures: total due is the sum
// of the patient's appointment costs, paid is the net of the sibling receipt
// rows, remaining is the difference.
func (r *paymentRepo) decorate(ctx context.Context, rows []Payment) ([]types.Payment, error) {
	patientIDs := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for _, row := range rows {
		if !seen[row.PatientID] {
			seen[row.PatientID] = true
			patientIDs = append(patientIDs, row.PatientID)
		}
	}

	dueByPatient := map[uuid.UUID]decimal.Decimal{}
	if len(patientIDs) > 0 {
		var appts []Appointment
		err := r.db.WithContext(ctx).
			Select("patient_id", "cost").
			Where("patient_id IN ?", patientIDs).
			Find(&appts).Error
		if err != nil {
			return nil, mapErr(err, "appointment")
		}
		for _, appt := range appts {
			dueByPatient[appt.PatientID] = dueByPatient[appt.PatientID].Add(appt.Cost)
		}
	}

	paidByPatient := map[uuid.UUID]decimal.Decimal{}
	for _, row := range rows {
		paidByPatient[row.PatientID] = paidByPatient[row.PatientID].Add(netAmount(row))
	}

	out := make([]types.Payment, len(rows))
	for i, row := range rows {
		out[i] = toPayment(row, dueByPatient[row.PatientID], paidByPatient[row.PatientID])
	}
	return out, nil
}

func (r *paymentRepo) decorateOne(ctx context.Context, row Payment) (types.Payment, error) {
	var siblings []Payment
	err := r.db.WithContext(ctx).Where("patient_id = ?", row.PatientID).Find(&siblings).Error
	if err != nil {
		return types.Payment{}, mapErr(err, "payment")
	}
	decorated, err := r.decorate(ctx, siblings)
	if err != nil {
		return types.Payment{}, err
	}
	for _, payment := range decorated {
		if payment.ID == row.ID {
			return payment, nil
		}
	}
	return types.Payment{}, mapErr(gorm.ErrRecordNotFound, "payment")
}

func netAmount(row Payment) decimal.Decimal {
	return row.Amount.Sub(row.Discount).Add(row.Tax)
}

func toPayment(row Payment, totalDue, totalPaid decimal.Decimal) types.Payment {
	remaining := totalDue.Sub(totalPaid)
	return types.Payment{
		ID:               row.ID,
		PatientID:        row.PatientID,
		AppointmentID:    row.AppointmentID,
		ToothTreatmentID: row.ToothTreatmentID,
		Amount:           row.Amount,
		Discount:         row.Discount,
		Tax:              row.Tax,
		TotalAmountDue:   totalDue,
		AmountPaid:       totalPaid,
		RemainingBalance: remaining,
		Status:           classifyPayment(totalDue, totalPaid, remaining),
		Method:           row.Method,
		ReceiptNumber:    row.ReceiptNumber,
		PaymentDate:      row.PaymentDate,
		Notes:            row.Notes,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func classifyPayment(totalDue, totalPaid, remaining decimal.Decimal) enums.PaymentStatus {
	switch {
	case remaining.LessThanOrEqual(decimal.Zero) && totalDue.GreaterThan(decimal.Zero):
		return enums.PaymentStatusCompleted
	case totalPaid.GreaterThan(decimal.Zero) && remaining.GreaterThan(decimal.Zero):
		return enums.PaymentStatusPartial
	default:
		return enums.PaymentStatusPending
	}
}
