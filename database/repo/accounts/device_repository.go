package accounts

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/anoixa/media-studio/database/models"
)

// DeviceRepository 登录设备（refresh token 会话）仓库
type DeviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository 创建设备仓库
func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// CreateDevice 记录新的登录会话
func (r *DeviceRepository) CreateDevice(device *models.Device) error {
	return r.db.Create(device).Error
}

// GetByDeviceID 按设备 ID 查会话，不存在时返回 (nil, nil)
func (r *DeviceRepository) GetByDeviceID(deviceID string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("device_id = ?", deviceID).First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// GetByRefreshTokenAndDeviceID 刷新流程中校验会话，不存在时返回 (nil, nil)
func (r *DeviceRepository) GetByRefreshTokenAndDeviceID(refreshToken, deviceID string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("refresh_token = ? AND device_id = ? AND expiry > ?", refreshToken, deviceID, time.Now()).
		First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// RotateRefreshToken 轮换 refresh token 并延长过期时间
func (r *DeviceRepository) RotateRefreshToken(deviceID, newToken string, expiry time.Time) error {
	return r.db.Model(&models.Device{}).
		Where("device_id = ?", deviceID).
		Updates(map[string]any{
			"refresh_token": newToken,
			"expiry":        expiry,
		}).Error
}

// DeleteByDeviceID 注销会话
func (r *DeviceRepository) DeleteByDeviceID(deviceID string) error {
	return r.db.Where("device_id = ?", deviceID).Delete(&models.Device{}).Error
}

// DeleteExpired 清理过期会话
func (r *DeviceRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("expiry < ?", time.Now()).Delete(&models.Device{})
	return result.RowsAffected, result.Error
}
