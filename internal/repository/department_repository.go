package repository

import (
	"github.com/hoangtm/task-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// Create creates a new department
func (r *GormDepartmentRepository) Create(dept *models.Department) error {
	return r.db.Create(dept).Error
}

// FindByID finds a department by ID with optional preloading
func (r *GormDepartmentRepository) FindByID(id uint64, preload ...string) (*models.Department, error) {
	var dept models.Department
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

// List returns departments, optionally filtered by province
func (r *GormDepartmentRepository) List(provinceID *uint64) ([]models.Department, error) {
	var depts []models.Department
	query := r.db.Preload("Province").Order("name ASC")
	if provinceID != nil {
		query = query.Where("province_id = ?", *provinceID)
	}
	if err := query.Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

// Update updates a department
func (r *GormDepartmentRepository) Update(dept *models.Department) error {
	return r.db.Save(dept).Error
}

// Delete removes a department and its membership rows
func (r *GormDepartmentRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("department_id = ?", id).Delete(&models.DepartmentMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("department_id = ?", id).Delete(&models.DepartmentHead{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Department{}, id).Error
	})
}

// AddMember inserts a membership row; duplicates are ignored
func (r *GormDepartmentRepository) AddMember(departmentID, userID uint64) error {
	row := models.DepartmentMember{DepartmentID: departmentID, UserID: userID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// RemoveMember removes a membership row
func (r *GormDepartmentRepository) RemoveMember(departmentID, userID uint64) error {
	return r.db.Where("department_id = ? AND user_id = ?", departmentID, userID).
		Delete(&models.DepartmentMember{}).Error
}

// AddHead inserts a head row; duplicates are ignored
func (r *GormDepartmentRepository) AddHead(departmentID, userID uint64) error {
	row := models.DepartmentHead{DepartmentID: departmentID, UserID: userID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// RemoveHead removes a head row
func (r *GormDepartmentRepository) RemoveHead(departmentID, userID uint64) error {
	return r.db.Where("department_id = ? AND user_id = ?", departmentID, userID).
		Delete(&models.DepartmentHead{}).Error
}

// HeadUserIDs returns the distinct head users of the given departments
func (r *GormDepartmentRepository) HeadUserIDs(departmentIDs []uint64) ([]uint64, error) {
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := r.db.Model(&models.DepartmentHead{}).
		Where("department_id IN ?", departmentIDs).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

// IsMemberOfAny reports whether the user is a member or head of any of the
// given departments
func (r *GormDepartmentRepository) IsMemberOfAny(userID uint64, departmentIDs []uint64) (bool, error) {
	if len(departmentIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.Model(&models.DepartmentMember{}).
		Where("department_id IN ? AND user_id = ?", departmentIDs, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err = r.db.Model(&models.DepartmentHead{}).
		Where("department_id IN ? AND user_id = ?", departmentIDs, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountInProvince counts how many of the given departments belong to the province
func (r *GormDepartmentRepository) CountInProvince(departmentIDs []uint64, provinceID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Department{}).
		Where("id IN ? AND province_id = ?", departmentIDs, provinceID).
		Count(&count).Error
	return count, err
}

// CountByIDs counts how many of the given department IDs exist
func (r *GormDepartmentRepository) CountByIDs(departmentIDs []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Department{}).
		Where("id IN ?", departmentIDs).
		Count(&count).Error
	return count, err
}
