package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mountainthreads/rental-ops/internal/catalog"
	"github.com/mountainthreads/rental-ops/internal/models"
)

var ErrUnknownField = errors.New("unknown form field")

// Person is one renter's answers as typed into the form. Key identifies the
// person across retries and becomes the submission's idempotency key;
// SubmissionID is set once the person is stored, after which the person is
// locked.
type Person struct {
	Key            string               `json:"key"`
	SubmissionID   string               `json:"submissionId,omitempty"`
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	ClothingType   catalog.ClothingType `json:"clothingType"`
	YouthGender    catalog.YouthGender  `json:"youthGender"`
	ShoeSize       string               `json:"shoeSize"`
	JacketSize     string               `json:"jacketSize"`
	PantSize       string               `json:"pantSize"`
	BibSize        string               `json:"bibSize"`
	ToddlerSetSize string               `json:"toddlerSetSize"`
	HandwearType   catalog.Handwear     `json:"handwearType"`
	GloveSize      string               `json:"gloveSize"`
	HelmetSize     string               `json:"helmetSize"`
	Goggles        string               `json:"goggles"`
	SizingNotes    string               `json:"sizingNotes"`
	PaymentMethod  string               `json:"paymentMethod"`
	PaysSeparately bool                 `json:"paysSeparately"`
}

// Apply sets one field. Changing clothing type clears the gender and every
// size; changing youth gender clears the jacket and bottoms only.
func (p *Person) Apply(field Field, value string) error {
	switch field {
	case FieldFirstName:
		p.FirstName = value
	case FieldLastName:
		p.LastName = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldClothingType:
		p.ClothingType = catalog.ClothingType(value)
		p.YouthGender = ""
		p.clearSizes()
	case FieldYouthGender:
		p.YouthGender = catalog.YouthGender(value)
		p.JacketSize = ""
		p.PantSize = ""
		p.BibSize = ""
	case FieldShoeSize:
		p.ShoeSize = value
	case FieldJacketSize:
		p.JacketSize = value
	case FieldPantSize:
		p.PantSize = value
	case FieldBibSize:
		p.BibSize = value
	case FieldToddlerSetSize:
		p.ToddlerSetSize = value
	case FieldHandwearType:
		p.HandwearType = catalog.Handwear(value)
	case FieldGloveSize:
		p.GloveSize = value
	case FieldHelmetSize:
		p.HelmetSize = value
	case FieldGoggles:
		p.Goggles = value
	case FieldSizingNotes:
		p.SizingNotes = value
	case FieldPaymentMethod:
		p.PaymentMethod = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func (p *Person) clearSizes() {
	p.ShoeSize = ""
	p.JacketSize = ""
	p.PantSize = ""
	p.BibSize = ""
	p.ToddlerSetSize = ""
	p.HandwearType = ""
	p.GloveSize = ""
	p.HelmetSize = ""
}

// SubmissionData converts the answers into the typed payload. Answers for
// fields hidden by the layout are dropped.
func (p Person) SubmissionData(rental *models.RentalDetails) models.SubmissionData {
	d := models.SubmissionData{
		Person: models.Person{
			FirstName: strings.TrimSpace(p.FirstName),
			LastName:  strings.TrimSpace(p.LastName),
			Email:     strings.TrimSpace(p.Email),
			Phone:     strings.TrimSpace(p.Phone),
		},
		Goggles:       p.Goggles,
		SizingNotes:   p.SizingNotes,
		PaymentMethod: p.PaymentMethod,
		Rental:        rental,
	}

	switch p.ClothingType {
	case catalog.Mens:
		d.Sizing = models.MensSizing{
			ShoeSize: p.ShoeSize, JacketSize: p.JacketSize, PantSize: p.PantSize,
			GloveSize: p.GloveSize, HelmetSize: p.HelmetSize,
		}
	case catalog.Womens:
		d.Sizing = models.WomensSizing{
			ShoeSize: p.ShoeSize, JacketSize: p.JacketSize, PantSize: p.PantSize,
			Handwear: p.HandwearType, GloveSize: p.GloveSize, HelmetSize: p.HelmetSize,
		}
	case catalog.Youth:
		d.Sizing = models.YouthSizing{
			Gender: p.YouthGender, ShoeSize: p.ShoeSize, JacketSize: p.JacketSize, BibSize: p.BibSize,
			Handwear: p.HandwearType, GloveSize: p.GloveSize, HelmetSize: p.HelmetSize,
		}
	case catalog.Toddler:
		d.Sizing = models.ToddlerSizing{
			ShoeSize: p.ShoeSize, SetSize: p.ToddlerSetSize, GloveSize: p.GloveSize, HelmetSize: p.HelmetSize,
		}
	}
	return d
}

// PrefillLeader splits a leader's display name into first and last name.
func PrefillLeader(name, email string) Person {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return Person{
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     strings.TrimSpace(email),
	}
}
