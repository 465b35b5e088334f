//go:build integration

package database_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/infrastructure/database"
	"hospital-management/internal/repository"
	"hospital-management/internal/seeder"
	"hospital-management/internal/service"
	"hospital-management/internal/testutil"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// startPostgres runs a throwaway postgres and returns its postgres:// URL.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("hms_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return url
}

func TestMigrations_UpDownUp(t *testing.T) {
	url := startPostgres(t)

	migrator, err := database.NewMigratorFromURL(strings.Replace(url, "postgres://", "pgx5://", 1))
	require.NoError(t, err)
	defer migrator.Close()

	require.NoError(t, migrator.Up())
	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	assert.False(t, dirty)

	db, err := gorm.Open(gormPostgres.Open(url), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	var slotIndexes []string
	require.NoError(t, db.Raw(
		"SELECT indexname FROM pg_indexes WHERE tablename = 'appointments' AND indexname LIKE 'uq_%' ORDER BY indexname",
	).Scan(&slotIndexes).Error)
	assert.Equal(t, []string{"uq_appointments_doctor_slot", "uq_appointments_patient_slot"}, slotIndexes)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// Up again is a no-op.
	require.NoError(t, migrator.Up())

	require.NoError(t, migrator.Down(0))
	version, _, err = migrator.Version()
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, migrator.Up())
}

func TestMigrations_SchemaServesUsecases(t *testing.T) {
	url := startPostgres(t)

	migrator, err := database.NewMigratorFromURL(strings.Replace(url, "postgres://", "pgx5://", 1))
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	db, err := gorm.Open(gormPostgres.Open(url), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	log := testutil.NewLogger()
	userRepo := repository.NewUserRepository()
	departmentRepo := repository.NewDepartmentRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	doctorRepo := repository.NewDoctorRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	sequenceRepo := repository.NewSequenceRepository()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	departments := usecase.NewDepartmentUsecase(db, log, departmentRepo, specialtyRepo, repository.NewRoomRepository(), auditService, nil)
	doctors := usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, scheduleRepo, departmentRepo, specialtyRepo, appointmentRepo, sequenceRepo, auditService, nil)
	patients := usecase.NewPatientUsecase(db, log, patientRepo, userRepo, appointmentRepo, sequenceRepo, auditService)

	s := seeder.New(db, log, repository.NewRoleRepository(), departmentRepo, departments, doctors, patients)
	result, err := s.Run(context.Background(), seeder.Options{Departments: true, Doctors: 4, Patients: 3, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Doctors)
	assert.Equal(t, 3, result.Patients)

	var doctorsInDB []entity.Doctor
	require.NoError(t, db.Order("id").Find(&doctorsInDB).Error)
	require.Len(t, doctorsInDB, 4)
	for _, d := range doctorsInDB {
		assert.True(t, idgen.IsDoctorID(d.ID), d.ID)
	}

	var auditRows int64
	require.NoError(t, db.Model(&entity.AuditLog{}).Count(&auditRows).Error)
	assert.Positive(t, auditRows)
}
