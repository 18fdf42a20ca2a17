package constants

// Статусы брони. Машина состояний:
// pending -> approved | rejected | cancelled; approved -> completed | cancelled.
// rejected, completed и cancelled - терминальные.
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Административные статусы оборудования. Бронь статус оборудования не меняет.
const (
	EquipmentStatusAvailable   = "available"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusBroken      = "broken"
	EquipmentStatusReserved    = "reserved"
)

// Роли пользователей. Персонал (staff) - это teacher и admin.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// IsStaff сообщает, является ли роль персоналом лаборатории.
func IsStaff(role string) bool {
	return role == RoleTeacher || role == RoleAdmin
}

// IsActiveBookingStatus - активные брони участвуют в проверке конфликтов.
func IsActiveBookingStatus(status string) bool {
	return status == BookingStatusPending || status == BookingStatusApproved
}
