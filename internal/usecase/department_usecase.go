package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/infrastructure/cache"
	"hospital-management/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentCodeExists   = errors.New("department code already exists")
	ErrDepartmentNameExists   = errors.New("department name already exists")
	ErrDepartmentHasDoctors   = errors.New("department still has doctors assigned")
	ErrDepartmentInactive     = errors.New("department is inactive")
	ErrSpecialtyNotFound      = errors.New("specialty not found")
	ErrSpecialtyExists        = errors.New("specialty already exists in this department")
	ErrSpecialtyNotInDept     = errors.New("specialty does not belong to the department")
	ErrSpecialtyInUse         = errors.New("specialty is still assigned to doctors")
	ErrRoomNotFound           = errors.New("room not found")
	ErrRoomNumberExists       = errors.New("room number already exists")
	ErrRoomInUse              = errors.New("room is still referenced by appointments")
	ErrInvalidDepartmentQuery = errors.New("invalid department_id")
)

const departmentCacheTTL = 10 * time.Minute

var departmentCacheKeys = []string{"departments:all", "departments:active", "departments:inactive"}

type DepartmentUsecase interface {
	ListDepartments(ctx context.Context, active *bool) ([]dto.DepartmentResponse, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*dto.DepartmentResponse, error)
	CreateDepartment(ctx context.Context, actor Actor, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, actor Actor, id uuid.UUID) error

	ListSpecialties(ctx context.Context, departmentID string) ([]dto.SpecialtyResponse, error)
	CreateSpecialty(ctx context.Context, req *dto.CreateSpecialtyRequest) (*dto.SpecialtyResponse, error)
	UpdateSpecialty(ctx context.Context, id uuid.UUID, req *dto.UpdateSpecialtyRequest) (*dto.SpecialtyResponse, error)
	DeleteSpecialty(ctx context.Context, id uuid.UUID) error

	ListRooms(ctx context.Context, filter entity.RoomFilter) ([]dto.RoomResponse, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*dto.RoomResponse, error)
	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)
	UpdateRoomStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomStatusRequest) (*dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type departmentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	departmentRepo repository.DepartmentRepository
	specialtyRepo  repository.SpecialtyRepository
	roomRepo       repository.RoomRepository
	auditService   service.AuditService
	cache          cache.Cache
}

// NewDepartmentUsecase builds the usecase. listCache may be nil.
func NewDepartmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	departmentRepo repository.DepartmentRepository,
	specialtyRepo repository.SpecialtyRepository,
	roomRepo repository.RoomRepository,
	auditService service.AuditService,
	listCache cache.Cache,
) DepartmentUsecase {
	return &departmentUsecase{
		db:             db,
		log:            log,
		departmentRepo: departmentRepo,
		specialtyRepo:  specialtyRepo,
		roomRepo:       roomRepo,
		auditService:   auditService,
		cache:          listCache,
	}
}

func departmentCacheKey(active *bool) string {
	switch {
	case active == nil:
		return departmentCacheKeys[0]
	case *active:
		return departmentCacheKeys[1]
	default:
		return departmentCacheKeys[2]
	}
}

func (u *departmentUsecase) ListDepartments(ctx context.Context, active *bool) ([]dto.DepartmentResponse, error) {
	key := departmentCacheKey(active)
	if u.cache != nil {
		var cached []dto.DepartmentResponse
		hit, err := u.cache.Get(ctx, key, &cached)
		if err != nil {
			u.log.Warnf("Failed to read department cache: %+v", err)
		} else if hit {
			return cached, nil
		}
	}

	departments, err := u.departmentRepo.FindAll(u.db.WithContext(ctx), active)
	if err != nil {
		u.log.Warnf("Failed to find departments: %+v", err)
		return nil, err
	}

	responses := converter.DepartmentsToResponses(departments)
	if u.cache != nil {
		if err := u.cache.Set(ctx, key, responses, departmentCacheTTL); err != nil {
			u.log.Warnf("Failed to write department cache: %+v", err)
		}
	}
	return responses, nil
}

func (u *departmentUsecase) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, departmentCacheKeys...); err != nil {
		u.log.Warnf("Failed to invalidate department cache: %+v", err)
	}
}

func (u *departmentUsecase) GetDepartment(ctx context.Context, id uuid.UUID) (*dto.DepartmentResponse, error) {
	department, err := u.departmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find department by ID: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) CreateDepartment(ctx context.Context, actor Actor, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.departmentRepo.FindByCode(tx, req.Code)
	if err != nil {
		u.log.Warnf("Failed to find department by code: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentCodeExists
	}

	name := strings.TrimSpace(req.Name)
	existing, err = u.departmentRepo.FindByName(tx, name)
	if err != nil {
		u.log.Warnf("Failed to find department by name: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	department := &entity.Department{
		Code:        req.Code,
		Name:        name,
		Description: req.Description,
		Location:    req.Location,
	}
	if err := u.departmentRepo.Create(tx, department); err != nil {
		if isDuplicateKeyError(err, "code") {
			return nil, ErrDepartmentCodeExists
		}
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDepartmentNameExists
		}
		u.log.Warnf("Failed to create department: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, actor.ref(), entity.AuditActionDepartmentCreate, "department", department.ID.String(), department)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.invalidate(ctx)

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) UpdateDepartment(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department, err := u.departmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find department by ID: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	before := *department

	if name := strings.TrimSpace(req.Name); name != "" && name != department.Name {
		existing, err := u.departmentRepo.FindByName(tx, name)
		if err != nil {
			u.log.Warnf("Failed to find department by name: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrDepartmentNameExists
		}
		department.Name = name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if req.Location != nil {
		department.Location = *req.Location
	}
	if req.IsActive != nil {
		department.IsActive = entity.BoolPtr(*req.IsActive)
	}

	if err := u.departmentRepo.Update(tx, department); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDepartmentNameExists
		}
		u.log.Warnf("Failed to update department: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(ctx, tx, actor.ref(), entity.AuditActionDepartmentUpdate, "department", id.String(), before, department)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.invalidate(ctx)

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) DeleteDepartment(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department, err := u.departmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find department by ID: %+v", err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}

	doctors, err := u.departmentRepo.CountDoctors(tx, id)
	if err != nil {
		u.log.Warnf("Failed to count department doctors: %+v", err)
		return err
	}
	if doctors > 0 {
		return ErrDepartmentHasDoctors
	}

	if _, err := u.departmentRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "department") {
			return ErrDepartmentHasDoctors
		}
		u.log.Warnf("Failed to delete department: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actor.ref(), entity.AuditActionDepartmentDelete, "department", id.String(), department)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	u.invalidate(ctx)

	return nil
}

func (u *departmentUsecase) ListSpecialties(ctx context.Context, departmentID string) ([]dto.SpecialtyResponse, error) {
	deptID, err := parseUUIDPtr(departmentID)
	if err != nil {
		return nil, ErrInvalidDepartmentQuery
	}

	specialties, err := u.specialtyRepo.FindAll(u.db.WithContext(ctx), deptID)
	if err != nil {
		u.log.Warnf("Failed to find specialties: %+v", err)
		return nil, err
	}
	return converter.SpecialtiesToResponses(specialties), nil
}

func (u *departmentUsecase) CreateSpecialty(ctx context.Context, req *dto.CreateSpecialtyRequest) (*dto.SpecialtyResponse, error) {
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, ErrInvalidDepartmentQuery
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department, err := u.departmentRepo.FindByID(tx, departmentID)
	if err != nil {
		u.log.Warnf("Failed to find department by ID: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	name := strings.TrimSpace(req.Name)
	existing, err := u.specialtyRepo.FindByDepartmentAndName(tx, departmentID, name)
	if err != nil {
		u.log.Warnf("Failed to find specialty: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrSpecialtyExists
	}

	specialty := &entity.Specialty{
		DepartmentID: departmentID,
		Name:         name,
		Description:  req.Description,
	}
	if err := u.specialtyRepo.Create(tx, specialty); err != nil {
		if isDuplicateKeyError(err, "specialties_department_name") {
			return nil, ErrSpecialtyExists
		}
		u.log.Warnf("Failed to create specialty: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	specialty.Department = *department
	return converter.SpecialtyToResponse(specialty), nil
}

func (u *departmentUsecase) UpdateSpecialty(ctx context.Context, id uuid.UUID, req *dto.UpdateSpecialtyRequest) (*dto.SpecialtyResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty, err := u.specialtyRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find specialty by ID: %+v", err)
		return nil, err
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != specialty.Name {
		existing, err := u.specialtyRepo.FindByDepartmentAndName(tx, specialty.DepartmentID, name)
		if err != nil {
			u.log.Warnf("Failed to find specialty: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrSpecialtyExists
		}
		specialty.Name = name
	}
	if req.Description != nil {
		specialty.Description = *req.Description
	}

	if err := u.specialtyRepo.Update(tx, specialty); err != nil {
		if isDuplicateKeyError(err, "specialties_department_name") {
			return nil, ErrSpecialtyExists
		}
		u.log.Warnf("Failed to update specialty: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.SpecialtyToResponse(specialty), nil
}

func (u *departmentUsecase) DeleteSpecialty(ctx context.Context, id uuid.UUID) error {
	affected, err := u.specialtyRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "specialty") {
			return ErrSpecialtyInUse
		}
		u.log.Warnf("Failed to delete specialty: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrSpecialtyNotFound
	}
	return nil
}

func (u *departmentUsecase) ListRooms(ctx context.Context, filter entity.RoomFilter) ([]dto.RoomResponse, error) {
	rooms, err := u.roomRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find rooms: %+v", err)
		return nil, err
	}
	return converter.RoomsToResponses(rooms), nil
}

func (u *departmentUsecase) GetRoom(ctx context.Context, id uuid.UUID) (*dto.RoomResponse, error) {
	room, err := u.roomRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find room by ID: %+v", err)
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return converter.RoomToResponse(room), nil
}

func (u *departmentUsecase) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, ErrInvalidDepartmentQuery
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	department, err := u.departmentRepo.FindByID(tx, departmentID)
	if err != nil {
		u.log.Warnf("Failed to find department by ID: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	existing, err := u.roomRepo.FindByNumber(tx, req.RoomNumber)
	if err != nil {
		u.log.Warnf("Failed to find room by number: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrRoomNumberExists
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 1
	}
	room := &entity.Room{
		RoomNumber:   req.RoomNumber,
		DepartmentID: departmentID,
		Type:         req.Type,
		Floor:        req.Floor,
		Capacity:     capacity,
		Status:       entity.RoomStatusAvailable,
	}
	if err := u.roomRepo.Create(tx, room); err != nil {
		if isDuplicateKeyError(err, "room_number") {
			return nil, ErrRoomNumberExists
		}
		u.log.Warnf("Failed to create room: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	room.Department = *department
	return converter.RoomToResponse(room), nil
}

func (u *departmentUsecase) UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	room, err := u.roomRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find room by ID: %+v", err)
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if req.Type != "" {
		room.Type = req.Type
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}

	if err := u.roomRepo.Update(tx, room); err != nil {
		u.log.Warnf("Failed to update room: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.RoomToResponse(room), nil
}

func (u *departmentUsecase) UpdateRoomStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomStatusRequest) (*dto.RoomResponse, error) {
	db := u.db.WithContext(ctx)

	affected, err := u.roomRepo.UpdateStatus(db, id, entity.RoomStatus(req.Status))
	if err != nil {
		u.log.Warnf("Failed to update room status: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrRoomNotFound
	}

	return u.GetRoom(ctx, id)
}

func (u *departmentUsecase) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	affected, err := u.roomRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "room") {
			return ErrRoomInUse
		}
		u.log.Warnf("Failed to delete room: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}
