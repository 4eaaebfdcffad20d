package services

import (
	"errors"
	"fmt"

	"github.com/hoangtm/task-admin-api/internal/models"
)

var (
	ErrAssignmentConflict         = errors.New("user and department assignments are mutually exclusive")
	ErrProvinceWithoutDepartments = errors.New("a province assignment requires a non-empty department set")
	ErrProvinceWithUsers          = errors.New("a province cannot be combined with user assignments")
	ErrDepartmentsNotInProvince   = errors.New("one or more departments do not belong to the assigned province")
	ErrInvalidAssignee            = errors.New("one or more assigned users do not exist or are inactive")
	ErrInvalidDepartment          = errors.New("one or more assigned departments do not exist")
	ErrTaskTypeImmutable          = errors.New("assignment update would change the task type")
)

// AssignmentUpdate carries the assignment fields of a create or patch
// request. A nil slice pointer means the field was absent from the request;
// a pointer to an empty slice is an explicit clear. ProvinceSet marks the
// province field as present even when its value is null.
type AssignmentUpdate struct {
	UserIDs       *[]uint64
	DepartmentIDs *[]uint64
	ProvinceID    *uint64
	ProvinceSet   bool
}

// ResolvedAssignment is the validated post-update assignment state.
type ResolvedAssignment struct {
	Type          models.TaskType
	UserIDs       []uint64
	DepartmentIDs []uint64
	ProvinceID    *uint64
}

// resolveAssignment merges an update onto the current assignment state and
// derives the task type. Inconsistent combinations are rejected outright,
// never silently normalized: callers that change the shape of an assignment
// must explicitly clear the fields of the old shape.
func (s *TaskService) resolveAssignment(current ResolvedAssignment, update AssignmentUpdate) (ResolvedAssignment, error) {
	result := current
	if update.UserIDs != nil {
		result.UserIDs = uniqueUint64(*update.UserIDs)
	}
	if update.DepartmentIDs != nil {
		result.DepartmentIDs = uniqueUint64(*update.DepartmentIDs)
	}
	if update.ProvinceSet {
		result.ProvinceID = update.ProvinceID
	}

	hasUsers := len(result.UserIDs) > 0
	hasDepartments := len(result.DepartmentIDs) > 0
	hasProvince := result.ProvinceID != nil

	switch {
	case hasUsers && hasDepartments:
		return ResolvedAssignment{}, ErrAssignmentConflict
	case hasUsers && hasProvince:
		return ResolvedAssignment{}, ErrProvinceWithUsers
	case hasProvince && !hasDepartments:
		return ResolvedAssignment{}, ErrProvinceWithoutDepartments
	case hasUsers:
		result.Type = models.TaskTypeUser
	case hasDepartments && hasProvince:
		result.Type = models.TaskTypeProvinceDepartment
	case hasDepartments:
		result.Type = models.TaskTypeDepartment
	default:
		result.Type = models.TaskTypePersonal
	}

	if hasUsers {
		count, err := s.userRepo.CountByIDs(result.UserIDs)
		if err != nil {
			return ResolvedAssignment{}, fmt.Errorf("failed to verify assignees: %w", err)
		}
		if int(count) != len(result.UserIDs) {
			return ResolvedAssignment{}, ErrInvalidAssignee
		}
	}

	if hasDepartments {
		count, err := s.deptRepo.CountByIDs(result.DepartmentIDs)
		if err != nil {
			return ResolvedAssignment{}, fmt.Errorf("failed to verify departments: %w", err)
		}
		if int(count) != len(result.DepartmentIDs) {
			return ResolvedAssignment{}, ErrInvalidDepartment
		}
	}

	// Every department must belong to the named province
	if result.Type == models.TaskTypeProvinceDepartment {
		count, err := s.deptRepo.CountInProvince(result.DepartmentIDs, *result.ProvinceID)
		if err != nil {
			return ResolvedAssignment{}, fmt.Errorf("failed to verify province departments: %w", err)
		}
		if int(count) != len(result.DepartmentIDs) {
			return ResolvedAssignment{}, ErrDepartmentsNotInProvince
		}
	}

	return result, nil
}

// uniqueUint64 removes duplicate values while preserving order
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// addedIDs returns the values present in next but not in prev.
func addedIDs(prev, next []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(prev))
	for _, v := range prev {
		seen[v] = struct{}{}
	}
	var added []uint64
	for _, v := range next {
		if _, exists := seen[v]; !exists {
			added = append(added, v)
		}
	}
	return added
}
