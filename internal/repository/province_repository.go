package repository

import (
	"github.com/hoangtm/task-admin-api/internal/models"
	"gorm.io/gorm"
)

// GormProvinceRepository is a GORM implementation of ProvinceRepository
type GormProvinceRepository struct {
	db *gorm.DB
}

// NewProvinceRepository creates a new ProvinceRepository
func NewProvinceRepository(db *gorm.DB) ProvinceRepository {
	return &GormProvinceRepository{db: db}
}

// Create creates a new province
func (r *GormProvinceRepository) Create(province *models.Province) error {
	return r.db.Create(province).Error
}

// FindByID finds a province by ID with optional preloading
func (r *GormProvinceRepository) FindByID(id uint64, preload ...string) (*models.Province, error) {
	var province models.Province
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&province, id).Error; err != nil {
		return nil, err
	}
	return &province, nil
}

// List returns all provinces
func (r *GormProvinceRepository) List() ([]models.Province, error) {
	var provinces []models.Province
	if err := r.db.Order("name ASC").Find(&provinces).Error; err != nil {
		return nil, err
	}
	return provinces, nil
}

// Update updates a province
func (r *GormProvinceRepository) Update(province *models.Province) error {
	return r.db.Save(province).Error
}

// Delete removes a province
func (r *GormProvinceRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Province{}, id).Error
}
