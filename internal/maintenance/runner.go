package maintenance

import (
	"fmt"
	"time"

	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"gorm.io/gorm"
)

// Task 一次性维护任务。通过台账保证幂等：
// 已登记的任务在后续启动中直接跳过，不依赖任何隐式加载时机。
type Task struct {
	Name string
	Run  func(tx *gorm.DB) error
}

// Runner 维护任务执行器
type Runner struct {
	db   *gorm.DB
	repo repository.MaintenanceRepository
}

// NewRunner 创建执行器
func NewRunner(db *gorm.DB, repo repository.MaintenanceRepository) *Runner {
	return &Runner{db: db, repo: repo}
}

// RunAll 依次执行未登记的任务，任务与登记同事务提交
func (r *Runner) RunAll(tasks []Task) error {
	for _, task := range tasks {
		if task.Name == "" || task.Run == nil {
			return fmt.Errorf("maintenance task missing name or run func")
		}
		applied, err := r.repo.GetByName(task.Name)
		if err != nil {
			return fmt.Errorf("maintenance ledger lookup %s: %w", task.Name, err)
		}
		if applied != nil {
			logger.Debugw("maintenance_task_skipped", "name", task.Name)
			continue
		}
		err = r.db.Transaction(func(tx *gorm.DB) error {
			if err := task.Run(tx); err != nil {
				return err
			}
			return r.repo.WithTx(tx).Create(&models.MaintenanceRecord{
				Name:      task.Name,
				AppliedAt: time.Now(),
			})
		})
		if err != nil {
			return fmt.Errorf("maintenance task %s: %w", task.Name, err)
		}
		logger.Infow("maintenance_task_applied", "name", task.Name)
	}
	return nil
}

// DefaultTasks 随启动执行的维护任务集合
func DefaultTasks() []Task {
	return []Task{
		{Name: "2026_01_normalize_user_ceps", Run: normalizeUserCEPs},
		{Name: "2026_01_normalize_zone_ceps", Run: normalizeZoneCEPs},
	}
}

// normalizeUserCEPs 清洗历史用户 CEP：去掉分隔符，清空无法修复的值
func normalizeUserCEPs(tx *gorm.DB) error {
	var users []models.User
	if err := tx.Where("cep != ''").Find(&users).Error; err != nil {
		return err
	}
	for i := range users {
		normalized := digitsOnly(users[i].CEP)
		if len(normalized) != 8 {
			normalized = ""
		}
		if normalized == users[i].CEP {
			continue
		}
		if err := tx.Model(&models.User{}).Where("id = ?", users[i].ID).
			Update("cep", normalized).Error; err != nil {
			return err
		}
	}
	return nil
}

// normalizeZoneCEPs 清洗配送区间边界并保证 start <= end
func normalizeZoneCEPs(tx *gorm.DB) error {
	var zones []models.DeliveryZone
	if err := tx.Find(&zones).Error; err != nil {
		return err
	}
	for i := range zones {
		start := digitsOnly(zones[i].CEPStart)
		end := digitsOnly(zones[i].CEPEnd)
		if len(start) != 8 || len(end) != 8 {
			continue
		}
		if start > end {
			start, end = end, start
		}
		if start == zones[i].CEPStart && end == zones[i].CEPEnd {
			continue
		}
		updates := map[string]interface{}{"cep_start": start, "cep_end": end}
		if err := tx.Model(&models.DeliveryZone{}).Where("id = ?", zones[i].ID).
			Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
