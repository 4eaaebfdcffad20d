package services

import (
	"errors"
	"fmt"

	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrProvinceNotFound   = errors.New("province not found")
	ErrNameRequired       = errors.New("name is required")
)

// OrgService manages the organisational structure: provinces, departments,
// and department membership.
type OrgService struct {
	deptRepo     repository.DepartmentRepository
	provinceRepo repository.ProvinceRepository
	userRepo     repository.UserRepository
}

// NewOrgService creates a new OrgService
func NewOrgService(deptRepo repository.DepartmentRepository, provinceRepo repository.ProvinceRepository, userRepo repository.UserRepository) *OrgService {
	return &OrgService{
		deptRepo:     deptRepo,
		provinceRepo: provinceRepo,
		userRepo:     userRepo,
	}
}

// CreateDepartment creates a department, optionally under a province.
func (s *OrgService) CreateDepartment(name, description string, provinceID *uint64) (*models.Department, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if provinceID != nil {
		if _, err := s.provinceRepo.FindByID(*provinceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProvinceNotFound
			}
			return nil, fmt.Errorf("failed to find province: %w", err)
		}
	}

	dept := &models.Department{
		Name:        name,
		Description: description,
		ProvinceID:  provinceID,
	}
	if err := s.deptRepo.Create(dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

// GetDepartment returns a department with members and heads preloaded.
func (s *OrgService) GetDepartment(id uint64) (*models.Department, error) {
	dept, err := s.deptRepo.FindByID(id, "Province", "Members", "Heads")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}
	return dept, nil
}

// ListDepartments lists departments, optionally filtered by province.
func (s *OrgService) ListDepartments(provinceID *uint64) ([]models.Department, error) {
	depts, err := s.deptRepo.List(provinceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

// UpdateDepartment applies a partial update to a department.
func (s *OrgService) UpdateDepartment(id uint64, name, description *string, provinceID *uint64, provinceSet bool) (*models.Department, error) {
	dept, err := s.GetDepartment(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, ErrNameRequired
		}
		dept.Name = *name
	}
	if description != nil {
		dept.Description = *description
	}
	if provinceSet {
		if provinceID != nil {
			if _, err := s.provinceRepo.FindByID(*provinceID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrProvinceNotFound
				}
				return nil, fmt.Errorf("failed to find province: %w", err)
			}
		}
		dept.ProvinceID = provinceID
	}

	if err := s.deptRepo.Update(dept); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return s.GetDepartment(id)
}

// DeleteDepartment removes a department.
func (s *OrgService) DeleteDepartment(id uint64) error {
	if _, err := s.GetDepartment(id); err != nil {
		return err
	}
	if err := s.deptRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

// AddMember adds a user to a department.
func (s *OrgService) AddMember(departmentID, userID uint64) error {
	return s.changeMembership(departmentID, userID, s.deptRepo.AddMember)
}

// RemoveMember removes a user from a department.
func (s *OrgService) RemoveMember(departmentID, userID uint64) error {
	return s.changeMembership(departmentID, userID, s.deptRepo.RemoveMember)
}

// AddHead designates a user as head of a department.
func (s *OrgService) AddHead(departmentID, userID uint64) error {
	return s.changeMembership(departmentID, userID, s.deptRepo.AddHead)
}

// RemoveHead removes a user from the heads of a department.
func (s *OrgService) RemoveHead(departmentID, userID uint64) error {
	return s.changeMembership(departmentID, userID, s.deptRepo.RemoveHead)
}

func (s *OrgService) changeMembership(departmentID, userID uint64, apply func(uint64, uint64) error) error {
	if _, err := s.deptRepo.FindByID(departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to find department: %w", err)
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if err := apply(departmentID, userID); err != nil {
		return fmt.Errorf("failed to change membership: %w", err)
	}
	return nil
}

// CreateProvince creates a province.
func (s *OrgService) CreateProvince(name, code string) (*models.Province, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	province := &models.Province{Name: name, Code: code}
	if err := s.provinceRepo.Create(province); err != nil {
		return nil, fmt.Errorf("failed to create province: %w", err)
	}
	return province, nil
}

// GetProvince returns a province by ID.
func (s *OrgService) GetProvince(id uint64) (*models.Province, error) {
	province, err := s.provinceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProvinceNotFound
		}
		return nil, fmt.Errorf("failed to find province: %w", err)
	}
	return province, nil
}

// ListProvinces lists all provinces.
func (s *OrgService) ListProvinces() ([]models.Province, error) {
	provinces, err := s.provinceRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}
	return provinces, nil
}

// UpdateProvince applies a partial update to a province.
func (s *OrgService) UpdateProvince(id uint64, name, code *string) (*models.Province, error) {
	province, err := s.GetProvince(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, ErrNameRequired
		}
		province.Name = *name
	}
	if code != nil {
		province.Code = *code
	}

	if err := s.provinceRepo.Update(province); err != nil {
		return nil, fmt.Errorf("failed to update province: %w", err)
	}
	return province, nil
}

// DeleteProvince removes a province.
func (s *OrgService) DeleteProvince(id uint64) error {
	if _, err := s.GetProvince(id); err != nil {
		return err
	}
	if err := s.provinceRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete province: %w", err)
	}
	return nil
}
