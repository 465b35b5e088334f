package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/infrastructure/cache"
	"hospital-management/internal/service"
	"hospital-management/pkg/idgen"
	"hospital-management/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("old password is incorrect")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error
}

type authUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	userRepo         repository.UserRepository
	patientRepo      repository.PatientRepository
	doctorRepo       repository.DoctorRepository
	receptionistRepo repository.ReceptionistRepository
	sequenceRepo     repository.SequenceRepository
	auditService     service.AuditService
	jwtService       *jwt.JWTService
	tokenStore       cache.TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	receptionistRepo repository.ReceptionistRepository,
	sequenceRepo repository.SequenceRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore cache.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:               db,
		log:              log,
		userRepo:         userRepo,
		patientRepo:      patientRepo,
		doctorRepo:       doctorRepo,
		receptionistRepo: receptionistRepo,
		sequenceRepo:     sequenceRepo,
		auditService:     auditService,
		jwtService:       jwtService,
		tokenStore:       tokenStore,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegisterResponse, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if dob.After(today()) {
		return nil, ErrDateOfBirthInFuture
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	user := &entity.User{
		Email:    req.Email,
		Password: hashedPassword,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    req.Phone,
		RoleID:   entity.RoleIDPatient,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	patientID, err := nextID(tx, u.sequenceRepo, idgen.KindPatient, "")
	if err != nil {
		u.log.Warnf("Failed to generate patient ID: %+v", err)
		return nil, err
	}

	patient := &entity.Patient{
		ID:          patientID,
		UserID:      &user.ID,
		FullName:    user.FullName,
		DateOfBirth: dob,
		Gender:      req.Gender,
		BloodType:   req.BloodType,
		Phone:       req.Phone,
		Email:       user.Email,
		Address:     req.Address,
	}
	if err := u.patientRepo.Create(tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "patient", patient.ID, patient)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	userResponse := converter.UserToResponse(user)
	userResponse.PatientID = patient.ID

	return &dto.RegisterResponse{
		User:      *userResponse,
		PatientID: patient.ID,
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// Find user by email (read-only, no transaction needed)
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	token, err := u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil)
	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit login audit: %+v", err)
	}

	userResponse, err := u.describe(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User:  *userResponse,
		Token: *token,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error {
	if err := u.tokenStore.Revoke(ctx, userID, jwt.AccessToken, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateToken(req.RefreshToken)
		// A refresh token that is invalid or belongs to someone else is ignored.
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.tokenStore.Revoke(ctx, userID, jwt.RefreshToken, claims.TokenID); err != nil {
				u.log.Warnf("Failed to revoke refresh token: %+v", err)
				return err
			}
		}
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use.
	if err := u.tokenStore.Revoke(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return u.describe(ctx, user)
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := hashPassword(req.NewPassword)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	if err := u.userRepo.UpdatePassword(tx, userID, hashedPassword); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionPasswordChange, "user", userID.String(), nil, nil)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	// Every session has to log in again with the new password.
	if err := u.tokenStore.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke tokens after password change: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, userID, jwt.AccessToken, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Store(ctx, userID, jwt.RefreshToken, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// describe adds the ID of the role specific record linked to the user.
func (u *authUsecase) describe(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)
	response := converter.UserToResponse(user)

	switch user.RoleID {
	case entity.RoleIDDoctor:
		doctor, err := u.doctorRepo.FindByUserID(db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor by user ID: %+v", err)
			return nil, err
		}
		if doctor != nil {
			response.DoctorID = doctor.ID
		}
	case entity.RoleIDPatient:
		patient, err := u.patientRepo.FindByUserID(db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find patient by user ID: %+v", err)
			return nil, err
		}
		if patient != nil {
			response.PatientID = patient.ID
		}
	case entity.RoleIDReceptionist:
		receptionist, err := u.receptionistRepo.FindByUserID(db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find receptionist by user ID: %+v", err)
			return nil, err
		}
		if receptionist != nil {
			response.ReceptionistID = receptionist.ID
		}
	}

	return response, nil
}
