package entity

import "gorm.io/gorm"

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Department{},
		&Specialty{},
		&Room{},
		&Doctor{},
		&DoctorSchedule{},
		&Patient{},
		&Receptionist{},
		&Appointment{},
		&MedicalRecord{},
		&MedicalRecordAttachment{},
		&Review{},
		&Payment{},
		&Notification{},
		&AuditLog{},
		&IDSequence{},
	}
}

// AutoMigrate creates or updates the schema from the models and seeds the
// fixed roles. Production deployments use the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	for _, role := range DefaultRoles {
		role := role
		if err := db.FirstOrCreate(&role, Role{ID: role.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}
