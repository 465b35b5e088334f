package main

import (
	"fmt"

	"hospital-management/internal/infrastructure/database"
	"hospital-management/internal/repository"
	"hospital-management/internal/seeder"
	"hospital-management/internal/service"
	"hospital-management/internal/usecase"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var opts seeder.Options

	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Insert deterministic demo data",
		Example: "  hms seed --departments --doctors 12 --patients 50 --seed 42",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewPostgresConnection(cfg.DB, false)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			userRepo := repository.NewUserRepository()
			departmentRepo := repository.NewDepartmentRepository()
			specialtyRepo := repository.NewSpecialtyRepository()
			doctorRepo := repository.NewDoctorRepository()
			patientRepo := repository.NewPatientRepository()
			appointmentRepo := repository.NewAppointmentRepository()
			sequenceRepo := repository.NewSequenceRepository()
			auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

			s := seeder.New(
				db,
				log,
				repository.NewRoleRepository(),
				departmentRepo,
				usecase.NewDepartmentUsecase(db, log, departmentRepo, specialtyRepo, repository.NewRoomRepository(), auditService, nil),
				usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, repository.NewDoctorScheduleRepository(), departmentRepo, specialtyRepo, appointmentRepo, sequenceRepo, auditService, nil),
				usecase.NewPatientUsecase(db, log, patientRepo, userRepo, appointmentRepo, sequenceRepo, auditService),
			)

			result, err := s.Run(cmd.Context(), opts)
			if result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "departments: %d, specialties: %d, doctors: %d, schedules: %d, patients: %d\n",
					result.Departments, result.Specialties, result.Doctors, result.Schedules, result.Patients)
			}
			if err != nil {
				return err
			}
			if result.Doctors > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "doctor accounts use the password %q\n", seeder.DefaultPassword)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Departments, "departments", false, "Create the standard departments and specialties")
	cmd.Flags().IntVar(&opts.Doctors, "doctors", 0, "Number of doctors to create, each with weekday schedules")
	cmd.Flags().IntVar(&opts.Patients, "patients", 0, "Number of walk-in patients to create")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "Random seed, the same seed yields the same data")
	return cmd
}
