package entity

// IDSequence is the counter behind one identifier prefix such as CARD-DOC-202506.
type IDSequence struct {
	Prefix    string `gorm:"type:varchar(32);primaryKey" json:"prefix"`
	LastValue int64  `gorm:"not null;default:0" json:"last_value"`
}

func (IDSequence) TableName() string {
	return "id_sequences"
}
