package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mountainthreads/rental-ops/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) SubmissionData {
	t.Helper()
	var d SubmissionData
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func TestSubmissionData_DecodePicksVariant(t *testing.T) {
	d := decode(t, `{
		"firstName": "Mike", "lastName": "Tyson", "clothingType": "mens",
		"shoeSize": "10", "jacketSize": "L", "pantSize": "L", "gloveSize": "L", "helmetSize": "L",
		"goggles": "standard", "rentalStartDate": "2025-01-10", "rentalEndDate": "2025-01-15",
		"skiResort": "Big Sky"
	}`)

	sizing, ok := d.Sizing.(MensSizing)
	require.True(t, ok)
	assert.Equal(t, "L", sizing.PantSize)
	assert.Equal(t, catalog.Mens, d.ClothingType())
	require.NotNil(t, d.Rental)
	assert.Equal(t, "2025-01-10", d.Rental.StartDate.String())
	assert.Equal(t, "2025-01-15", d.Rental.EndDate.String())
	assert.Equal(t, "Big Sky", *d.Rental.SkiResort)
	assert.NoError(t, d.Validate())
}

func TestSubmissionData_RoundTrip(t *testing.T) {
	raw := `{"firstName":"Ava","lastName":"Tyson","clothingType":"youth","youthGender":"girls",
		"jacketSize":"M","bibSize":"M","handwearType":"mittens","helmetSize":"kid-S"}`
	d := decode(t, raw)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(b))
}

func TestSubmissionData_NoRentalBlockWhenAbsent(t *testing.T) {
	d := decode(t, `{"firstName":"A","lastName":"B","clothingType":"toddler","toddlerSetSize":"3T"}`)
	assert.Nil(t, d.Rental)
	assert.Equal(t, ToddlerSizing{SetSize: "3T"}, d.Sizing)
}

func TestSubmissionData_UnknownClothingTypeFailsValidation(t *testing.T) {
	d := decode(t, `{"firstName":"A","lastName":"B","clothingType":"alien"}`)
	assert.Nil(t, d.Sizing)
	assert.True(t, errors.Is(d.Validate(), ErrInvalidSubmissionData))
}

func TestSubmissionData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"missing first name", `{"lastName":"B","clothingType":"mens"}`, "firstName"},
		{"bad email", `{"firstName":"A","lastName":"B","email":"nope","clothingType":"mens"}`, "email"},
		{"youth without gender", `{"firstName":"A","lastName":"B","clothingType":"youth"}`, "youthGender"},
		{"pant size on wrong table", `{"firstName":"A","lastName":"B","clothingType":"womens","pantSize":"34"}`, "pantSize"},
		{"adult helmet token for mens", `{"firstName":"A","lastName":"B","clothingType":"mens","helmetSize":"kid-XS"}`, "helmetSize"},
		{"bad handwear", `{"firstName":"A","lastName":"B","clothingType":"womens","handwearType":"paws"}`, "handwearType"},
		{"bad goggles", `{"firstName":"A","lastName":"B","clothingType":"mens","goggles":"laser"}`, "goggles"},
		{"dates reversed", `{"firstName":"A","lastName":"B","clothingType":"mens","rentalStartDate":"2025-01-15","rentalEndDate":"2025-01-10"}`, "rentalEndDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decode(t, tt.raw).Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSubmissionData)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSubmissionData_BadDateIsDecodeError(t *testing.T) {
	var d SubmissionData
	err := json.Unmarshal([]byte(`{"firstName":"A","lastName":"B","clothingType":"mens","rentalStartDate":"soon"}`), &d)
	assert.Error(t, err)
}

func TestGroup_Stage(t *testing.T) {
	assert.Equal(t, StageUnpaid, (&Group{}).Stage())
	assert.Equal(t, StagePaid, (&Group{Paid: true}).Stage())
	assert.Equal(t, StagePickedUp, (&Group{Paid: true, PickedUp: true}).Stage())
	assert.Equal(t, StageReturned, (&Group{Paid: true, PickedUp: true, Returned: true, Archived: true}).Stage())
	assert.Equal(t, StageArchived, (&Group{Archived: true}).Stage())
	assert.False(t, (&Group{Archived: true}).AcceptsSubmissions())
}
