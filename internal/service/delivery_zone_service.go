package service

import (
	"strconv"
	"strings"

	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"
)

// DeliveryZoneService 配送范围服务，按 CEP 数值区间判定商家是否可送达
type DeliveryZoneService struct {
	repo repository.DeliveryZoneRepository
}

// NewDeliveryZoneService 创建配送范围服务
func NewDeliveryZoneService(repo repository.DeliveryZoneRepository) *DeliveryZoneService {
	return &DeliveryZoneService{repo: repo}
}

// NormalizeCEP 清洗 CEP：去掉分隔符，必须剩下 8 位数字
func NormalizeCEP(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cep := b.String()
	if len(cep) != 8 {
		return "", ErrInvalidCEP
	}
	return cep, nil
}

// zoneCovers CEP 是否落在区间内（闭区间，数值比较）
func zoneCovers(zone *models.DeliveryZone, cep string) bool {
	value, err := strconv.ParseInt(cep, 10, 64)
	if err != nil {
		return false
	}
	start, err := strconv.ParseInt(zone.CEPStart, 10, 64)
	if err != nil {
		return false
	}
	end, err := strconv.ParseInt(zone.CEPEnd, 10, 64)
	if err != nil {
		return false
	}
	return value >= start && value <= end
}

// StoreDelivers 判断商家是否配送到指定 CEP；商家未配置任何区间时视为全域配送
func (s *DeliveryZoneService) StoreDelivers(storeID uint, rawCEP string) (bool, error) {
	cep, err := NormalizeCEP(rawCEP)
	if err != nil {
		return false, err
	}
	zones, err := s.repo.ListByStore(storeID)
	if err != nil {
		return false, err
	}
	active := 0
	for i := range zones {
		if !zones[i].IsActive {
			continue
		}
		active++
		if zoneCovers(&zones[i], cep) {
			return true, nil
		}
	}
	return active == 0, nil
}

// StoreIDsCovering 返回配送到指定 CEP 的商家ID集合；
// 未配置区间的商家不在 map 里，由调用方按全域配送处理
func (s *DeliveryZoneService) StoreIDsCovering(rawCEP string) (map[uint]bool, map[uint]bool, error) {
	cep, err := NormalizeCEP(rawCEP)
	if err != nil {
		return nil, nil, err
	}
	zones, err := s.repo.ListActive()
	if err != nil {
		return nil, nil, err
	}
	configured := make(map[uint]bool)
	covering := make(map[uint]bool)
	for i := range zones {
		configured[zones[i].StoreID] = true
		if zoneCovers(&zones[i], cep) {
			covering[zones[i].StoreID] = true
		}
	}
	return covering, configured, nil
}

// ListByStore 商家的全部配送区间
func (s *DeliveryZoneService) ListByStore(storeID uint) ([]models.DeliveryZone, error) {
	if storeID == 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByStore(storeID)
}

// ZoneInput 配送区间输入
type ZoneInput struct {
	StoreID  uint
	Label    string
	CEPStart string
	CEPEnd   string
	IsActive *bool
}

// Create 新建配送区间
func (s *DeliveryZoneService) Create(input ZoneInput) (*models.DeliveryZone, error) {
	zone, err := buildZone(input, &models.DeliveryZone{IsActive: true})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

// Update 更新配送区间
func (s *DeliveryZoneService) Update(id uint, input ZoneInput) (*models.DeliveryZone, error) {
	zone, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, ErrNotFound
	}
	zone, err = buildZone(input, zone)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

// Delete 删除配送区间
func (s *DeliveryZoneService) Delete(id uint) error {
	zone, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if zone == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func buildZone(input ZoneInput, zone *models.DeliveryZone) (*models.DeliveryZone, error) {
	if input.StoreID == 0 {
		return nil, ErrInvalidInput
	}
	start, err := NormalizeCEP(input.CEPStart)
	if err != nil {
		return nil, err
	}
	end, err := NormalizeCEP(input.CEPEnd)
	if err != nil {
		return nil, err
	}
	if start > end {
		start, end = end, start
	}
	zone.StoreID = input.StoreID
	zone.Label = strings.TrimSpace(input.Label)
	zone.CEPStart = start
	zone.CEPEnd = end
	if input.IsActive != nil {
		zone.IsActive = *input.IsActive
	}
	return zone, nil
}
