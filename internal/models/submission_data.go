package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mountainthreads/rental-ops/internal/catalog"
)

// ErrInvalidSubmissionData is wrapped by every SubmissionData validation failure.
var ErrInvalidSubmissionData = errors.New("invalid submission data")

var validate = validator.New()

// Person is the contact block of a submission.
type Person struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// RentalDetails is the trip metadata a group leader supplies.
type RentalDetails struct {
	StartDate *Date
	EndDate   *Date
	SkiResort *string
}

// Sizing is the clothing-type specific part of a submission. The concrete type is
// one of MensSizing, WomensSizing, YouthSizing or ToddlerSizing.
type Sizing interface {
	ClothingType() catalog.ClothingType
	check() error
	flatten(w *submissionWire)
}

// SubmissionData is the body of a form submission.
type SubmissionData struct {
	Person
	// Sizing is nil when the stored clothing type is unknown.
	Sizing        Sizing
	Goggles       string
	SizingNotes   string
	PaymentMethod string
	Rental        *RentalDetails
}

type MensSizing struct {
	ShoeSize   string
	JacketSize string
	PantSize   string
	GloveSize  string
	HelmetSize string
}

type WomensSizing struct {
	ShoeSize   string
	JacketSize string
	PantSize   string
	Handwear   catalog.Handwear
	GloveSize  string
	HelmetSize string
}

type YouthSizing struct {
	Gender     catalog.YouthGender
	ShoeSize   string
	JacketSize string
	BibSize    string
	Handwear   catalog.Handwear
	GloveSize  string
	HelmetSize string
}

type ToddlerSizing struct {
	ShoeSize   string
	SetSize    string
	GloveSize  string
	HelmetSize string
}

// submissionWire is the flat JSON object posted by the rental forms.
type submissionWire struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string `json:"phone,omitempty"`
	ClothingType    string `json:"clothingType" validate:"required,oneof=mens womens youth toddler"`
	YouthGender     string `json:"youthGender,omitempty"`
	ShoeSize        string `json:"shoeSize,omitempty"`
	JacketSize      string `json:"jacketSize,omitempty"`
	PantSize        string `json:"pantSize,omitempty"`
	BibSize         string `json:"bibSize,omitempty"`
	ToddlerSetSize  string `json:"toddlerSetSize,omitempty"`
	HandwearType    string `json:"handwearType,omitempty"`
	GloveSize       string `json:"gloveSize,omitempty"`
	HelmetSize      string `json:"helmetSize,omitempty"`
	Goggles         string `json:"goggles,omitempty" validate:"omitempty,oneof=standard over-glasses"`
	SizingNotes     string `json:"sizingNotes,omitempty"`
	PaymentMethod   string `json:"paymentMethod,omitempty" validate:"omitempty,oneof=individually family entire-group someone-else"`
	RentalStartDate string `json:"rentalStartDate,omitempty"`
	RentalEndDate   string `json:"rentalEndDate,omitempty"`
	SkiResort       string `json:"skiResort,omitempty"`
}

func (s MensSizing) ClothingType() catalog.ClothingType    { return catalog.Mens }
func (s WomensSizing) ClothingType() catalog.ClothingType  { return catalog.Womens }
func (s YouthSizing) ClothingType() catalog.ClothingType   { return catalog.Youth }
func (s ToddlerSizing) ClothingType() catalog.ClothingType { return catalog.Toddler }

func (s MensSizing) check() error {
	t := catalog.Mens
	return firstErr(
		inTable("shoeSize", s.ShoeSize, catalog.ShoeSizes(t)),
		inTable("jacketSize", s.JacketSize, catalog.JacketSizes(t)),
		inTable("pantSize", s.PantSize, catalog.PantSizes(t)),
		inTable("gloveSize", s.GloveSize, catalog.GloveSizes(t)),
		inTable("helmetSize", s.HelmetSize, catalog.HelmetSizes(t)),
	)
}

func (s WomensSizing) check() error {
	t := catalog.Womens
	return firstErr(
		inTable("shoeSize", s.ShoeSize, catalog.ShoeSizes(t)),
		inTable("jacketSize", s.JacketSize, catalog.JacketSizes(t)),
		inTable("pantSize", s.PantSize, catalog.PantSizes(t)),
		handwearErr(s.Handwear),
		inTable("gloveSize", s.GloveSize, catalog.GloveSizes(t)),
		inTable("helmetSize", s.HelmetSize, catalog.HelmetSizes(t)),
	)
}

func (s YouthSizing) check() error {
	t := catalog.Youth
	if !catalog.IsYouthGender(string(s.Gender)) {
		return fmt.Errorf("%w: youthGender is required for youth sizing", ErrInvalidSubmissionData)
	}
	return firstErr(
		inTable("shoeSize", s.ShoeSize, catalog.ShoeSizes(t)),
		inTable("jacketSize", s.JacketSize, catalog.JacketSizes(t)),
		inTable("bibSize", s.BibSize, catalog.BibSizes(t)),
		handwearErr(s.Handwear),
		inTable("gloveSize", s.GloveSize, catalog.GloveSizes(t)),
		inTable("helmetSize", s.HelmetSize, catalog.HelmetSizes(t)),
	)
}

func (s ToddlerSizing) check() error {
	t := catalog.Toddler
	return firstErr(
		inTable("shoeSize", s.ShoeSize, catalog.ShoeSizes(t)),
		inTable("toddlerSetSize", s.SetSize, catalog.ToddlerSetSizes(t)),
		inTable("gloveSize", s.GloveSize, catalog.GloveSizes(t)),
		inTable("helmetSize", s.HelmetSize, catalog.HelmetSizes(t)),
	)
}

func (s MensSizing) flatten(w *submissionWire) {
	w.ShoeSize, w.JacketSize, w.PantSize, w.GloveSize, w.HelmetSize =
		s.ShoeSize, s.JacketSize, s.PantSize, s.GloveSize, s.HelmetSize
}

func (s WomensSizing) flatten(w *submissionWire) {
	w.ShoeSize, w.JacketSize, w.PantSize, w.GloveSize, w.HelmetSize =
		s.ShoeSize, s.JacketSize, s.PantSize, s.GloveSize, s.HelmetSize
	w.HandwearType = string(s.Handwear)
}

func (s YouthSizing) flatten(w *submissionWire) {
	w.YouthGender = string(s.Gender)
	w.ShoeSize, w.JacketSize, w.BibSize, w.GloveSize, w.HelmetSize =
		s.ShoeSize, s.JacketSize, s.BibSize, s.GloveSize, s.HelmetSize
	w.HandwearType = string(s.Handwear)
}

func (s ToddlerSizing) flatten(w *submissionWire) {
	w.ShoeSize, w.ToddlerSetSize, w.GloveSize, w.HelmetSize =
		s.ShoeSize, s.SetSize, s.GloveSize, s.HelmetSize
}

// Validate checks the contact fields and that every chosen size exists in the
// catalog table for the clothing type.
func (d SubmissionData) Validate() error {
	w := d.wire()
	if err := validate.Struct(w); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is invalid", ErrInvalidSubmissionData, lowerFirst(verrs[0].Field()))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSubmissionData, err)
	}
	if d.Sizing == nil {
		return fmt.Errorf("%w: clothingType is required", ErrInvalidSubmissionData)
	}
	if err := d.Sizing.check(); err != nil {
		return err
	}
	if r := d.Rental; r != nil && r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(r.StartDate.Time) {
		return fmt.Errorf("%w: rentalEndDate is before rentalStartDate", ErrInvalidSubmissionData)
	}
	return nil
}

// ClothingType returns the variant's clothing type, or "" when unknown.
func (d SubmissionData) ClothingType() catalog.ClothingType {
	if d.Sizing == nil {
		return ""
	}
	return d.Sizing.ClothingType()
}

func (d SubmissionData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

func (d *SubmissionData) UnmarshalJSON(b []byte) error {
	var w submissionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	out := SubmissionData{
		Person: Person{
			FirstName: w.FirstName,
			LastName:  w.LastName,
			Email:     w.Email,
			Phone:     w.Phone,
		},
		Goggles:       w.Goggles,
		SizingNotes:   w.SizingNotes,
		PaymentMethod: w.PaymentMethod,
	}

	switch catalog.ClothingType(w.ClothingType) {
	case catalog.Mens:
		out.Sizing = MensSizing{
			ShoeSize: w.ShoeSize, JacketSize: w.JacketSize, PantSize: w.PantSize,
			GloveSize: w.GloveSize, HelmetSize: w.HelmetSize,
		}
	case catalog.Womens:
		out.Sizing = WomensSizing{
			ShoeSize: w.ShoeSize, JacketSize: w.JacketSize, PantSize: w.PantSize,
			Handwear: catalog.Handwear(w.HandwearType), GloveSize: w.GloveSize, HelmetSize: w.HelmetSize,
		}
	case catalog.Youth:
		out.Sizing = YouthSizing{
			Gender: catalog.YouthGender(w.YouthGender), ShoeSize: w.ShoeSize, JacketSize: w.JacketSize,
			BibSize: w.BibSize, Handwear: catalog.Handwear(w.HandwearType), GloveSize: w.GloveSize,
			HelmetSize: w.HelmetSize,
		}
	case catalog.Toddler:
		out.Sizing = ToddlerSizing{
			ShoeSize: w.ShoeSize, SetSize: w.ToddlerSetSize, GloveSize: w.GloveSize, HelmetSize: w.HelmetSize,
		}
	}

	if w.RentalStartDate != "" || w.RentalEndDate != "" || w.SkiResort != "" {
		start, err := ParseDatePtr(w.RentalStartDate)
		if err != nil {
			return fmt.Errorf("rentalStartDate: %w", err)
		}
		end, err := ParseDatePtr(w.RentalEndDate)
		if err != nil {
			return fmt.Errorf("rentalEndDate: %w", err)
		}
		rental := &RentalDetails{StartDate: start, EndDate: end}
		if resort := strings.TrimSpace(w.SkiResort); resort != "" {
			rental.SkiResort = &resort
		}
		out.Rental = rental
	}

	*d = out
	return nil
}

func (d SubmissionData) wire() submissionWire {
	w := submissionWire{
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Phone:         d.Phone,
		Goggles:       d.Goggles,
		SizingNotes:   d.SizingNotes,
		PaymentMethod: d.PaymentMethod,
	}
	if d.Sizing != nil {
		w.ClothingType = string(d.Sizing.ClothingType())
		d.Sizing.flatten(&w)
	}
	if r := d.Rental; r != nil {
		if r.StartDate != nil {
			w.RentalStartDate = r.StartDate.String()
		}
		if r.EndDate != nil {
			w.RentalEndDate = r.EndDate.String()
		}
		if r.SkiResort != nil {
			w.SkiResort = *r.SkiResort
		}
	}
	return w
}

func inTable(field, value string, table []string) error {
	if value == "" || slices.Contains(table, value) {
		return nil
	}
	return fmt.Errorf("%w: %s %q is not offered for this clothing type", ErrInvalidSubmissionData, field, value)
}

func handwearErr(h catalog.Handwear) error {
	if h == "" || catalog.IsHandwear(string(h)) {
		return nil
	}
	return fmt.Errorf("%w: handwearType must be gloves or mittens", ErrInvalidSubmissionData)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
