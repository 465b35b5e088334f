package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june2025 = time.Date(2025, time.June, 14, 9, 30, 0, 0, time.UTC)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		dept string
		seq  int64
		want string
	}{
		{"doctor", KindDoctor, "CARD", 1, "CARD-DOC-202506-001"},
		{"appointment", KindAppointment, "NEURO", 42, "NEURO-APT-202506-042"},
		{"patient ignores department", KindPatient, "CARD", 7, "PAT-202506-007"},
		{"medical record", KindMedicalRecord, "", 12, "MR-202506-012"},
		{"sequence widens past 999", KindPayment, "", 1234, "PAY-202506-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.kind, tt.dept, june2025, tt.seq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, Validate(tt.kind, got), "formatted id must validate")
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	_, err := Format(KindDoctor, "cardio", june2025, 1)
	assert.Error(t, err)

	_, err = Format(KindPatient, "", june2025, 0)
	assert.Error(t, err)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "CARD-DOC-202506", Prefix(KindDoctor, "CARD", june2025))
	assert.Equal(t, "PAT-202506", Prefix(KindPatient, "CARD", june2025))
	assert.Equal(t, "REC-202601", Prefix(KindReceptionist, "", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestValidate(t *testing.T) {
	assert.True(t, IsDoctorID("CARD-DOC-202506-001"))
	assert.False(t, IsDoctorID("card-DOC-202506-001"))
	assert.False(t, IsDoctorID("CARD-DOC-2025-001"))
	assert.False(t, IsDoctorID("CARD-APT-202506-001"))
	assert.False(t, IsDoctorID("CARDIOLOGY-DOC-202506-001"))

	assert.True(t, IsPatientID("PAT-202506-001"))
	assert.False(t, IsPatientID("PAT-202506-01"))
	assert.False(t, IsPatientID(" PAT-202506-001"))

	assert.True(t, IsAppointmentID("ER-APT-202512-100"))
	assert.True(t, IsMedicalRecordID("MR-202506-001"))
	assert.True(t, IsPaymentID("PAY-202506-001"))
	assert.True(t, IsReceptionistID("REC-202506-001"))

	assert.False(t, Validate(Kind("XYZ"), "XYZ-202506-001"))
}

func TestIsDepartmentCode(t *testing.T) {
	assert.True(t, IsDepartmentCode("ER"))
	assert.True(t, IsDepartmentCode("ORTHO"))
	assert.False(t, IsDepartmentCode("E"))
	assert.False(t, IsDepartmentCode("PEDIATR"))
	assert.False(t, IsDepartmentCode("Card"))
}

func TestParseKind(t *testing.T) {
	kind, ok := ParseKind("doctor")
	assert.True(t, ok)
	assert.Equal(t, KindDoctor, kind)

	kind, ok = ParseKind("MR")
	assert.True(t, ok)
	assert.Equal(t, KindMedicalRecord, kind)

	_, ok = ParseKind("nurse")
	assert.False(t, ok)
}
