package devbridge

import (
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/bridge"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
)

var _ bridge.Bridge = (*Client)(nil)

func (c *Client) Appointments() bridge.AppointmentBridge {
	return &appointmentRepo{db: c.conn}
}

func (c *Client) Patients() bridge.PatientBridge {
	return &patientRepo{db: c.conn}
}

func (c *Client) Inventory() bridge.InventoryBridge {
	return &inventoryRepo{db: c.conn}
}

func (c *Client) Payments() bridge.PaymentBridge {
	return &paymentRepo{db: c.conn}
}

func (c *Client) LabOrders() bridge.LabOrderBridge {
	return &labOrderRepo{db: c.conn}
}

func (c *Client) Settings() bridge.SettingsBridge {
	return &settingsRepo{db: c.conn}
}

func mapErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, entity+" query failed")
}
