package events

import (
	"strconv"
	"time"
)

const EquipmentCreatedName = "equipment.created"

// EquipmentCreatedEvent - сигнал фоновой генерации описаний.
type EquipmentCreatedEvent struct {
	EquipmentID uint64
	OccurredAt  time.Time
}

func (e EquipmentCreatedEvent) Name() string { return EquipmentCreatedName }

func (e EquipmentCreatedEvent) Key() string { return strconv.FormatUint(e.EquipmentID, 10) }

func NewEquipmentCreatedEvent(equipmentID uint64) EquipmentCreatedEvent {
	return EquipmentCreatedEvent{EquipmentID: equipmentID, OccurredAt: time.Now()}
}
