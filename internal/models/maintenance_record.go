package models

import "time"

// MaintenanceRecord 运维任务执行台账。任务名唯一，已记录的任务不会重复执行，
// 保证维护/修复任务的幂等性。
type MaintenanceRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Name      string    `gorm:"uniqueIndex;not null" json:"name"` // 任务名
	AppliedAt time.Time `gorm:"not null" json:"applied_at"`       // 执行时间
}

// TableName 指定表名
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}
