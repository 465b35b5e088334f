package repository

import (
	"hospital-management/internal/domain/entity"
	domainRepo "hospital-management/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sequenceRepository struct{}

func NewSequenceRepository() domainRepo.SequenceRepository {
	return &sequenceRepository{}
}

// Next upserts the counter row and reads it back. The upsert takes a row
// lock in PostgreSQL, so concurrent transactions on the same prefix are
// serialized until the caller commits.
func (r *sequenceRepository) Next(db *gorm.DB, prefix string) (int64, error) {
	seq := entity.IDSequence{Prefix: prefix, LastValue: 1}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_value": gorm.Expr("id_sequences.last_value + 1"),
		}),
	}).Create(&seq).Error
	if err != nil {
		return 0, err
	}

	var current entity.IDSequence
	if err := db.Where("prefix = ?", prefix).First(&current).Error; err != nil {
		return 0, err
	}
	return current.LastValue, nil
}
