package dto

// GroupStatsDTO - агрегат по срезу (подразделение, роль).
type GroupStatsDTO struct {
	Department       string  `json:"department"`
	Role             string  `json:"role"`
	BookingCount     int     `json:"booking_count"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
	ApprovalRate     float64 `json:"approval_rate"`
}

// EquipmentStatsDTO - агрегат по единице оборудования.
type EquipmentStatsDTO struct {
	EquipmentID      uint64  `json:"equipment_id"`
	EquipmentName    string  `json:"equipment_name"`
	BookingCount     int     `json:"booking_count"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
	ApprovalRate     float64 `json:"approval_rate"`
}

// AnalyticsSnapshotDTO - сводка использования за отчётное окно.
type AnalyticsSnapshotDTO struct {
	GeneratedAt string              `json:"generated_at"`
	WindowDays  int                 `json:"window_days"`
	Groups      []GroupStatsDTO     `json:"groups"`
	Equipment   []EquipmentStatsDTO `json:"equipment"`
}
