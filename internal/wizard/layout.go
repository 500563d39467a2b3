// Package wizard holds the conditional logic of the public rental forms:
// which sizing fields are shown for a clothing type, how a person's answers
// reset when their type changes, and how a session becomes submissions.
package wizard

import "github.com/mountainthreads/rental-ops/internal/catalog"

// Field names a form input. Values match the submission JSON keys.
type Field string

const (
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldClothingType   Field = "clothingType"
	FieldYouthGender    Field = "youthGender"
	FieldShoeSize       Field = "shoeSize"
	FieldJacketSize     Field = "jacketSize"
	FieldPantSize       Field = "pantSize"
	FieldBibSize        Field = "bibSize"
	FieldToddlerSetSize Field = "toddlerSetSize"
	FieldHandwearType   Field = "handwearType"
	FieldGloveSize      Field = "gloveSize"
	FieldHelmetSize     Field = "helmetSize"
	FieldGoggles        Field = "goggles"
	FieldSizingNotes    Field = "sizingNotes"
	FieldPaymentMethod  Field = "paymentMethod"
)

// FieldSpec describes one visible select in the sizing section.
type FieldSpec struct {
	Name      Field                 `json:"name"`
	Label     string                `json:"label"`
	Required  bool                  `json:"required"`
	Groups    []catalog.OptionGroup `json:"groups"`
	SizeGuide catalog.GuideItem     `json:"sizeGuide,omitempty"`
}

// UsesPants is true for mens and womens. Youth get bibs, toddlers a set.
func UsesPants(t catalog.ClothingType) bool {
	return catalog.UsesPants(t)
}

// HasHandwearChoice is true when the person picks gloves or mittens first.
func HasHandwearChoice(t catalog.ClothingType) bool {
	return catalog.HasHandwearChoice(t)
}

// Layout returns the ordered sizing fields visible for a clothing type and,
// for youth, a gender. Youth sizing stays hidden until a gender is chosen.
func Layout(t catalog.ClothingType, g catalog.YouthGender) []FieldSpec {
	fields := []FieldSpec{{
		Name:     FieldClothingType,
		Label:    "Clothing Type",
		Required: true,
		Groups:   []catalog.OptionGroup{{Options: catalog.ClothingTypeOptions()}},
	}}

	if !catalog.IsClothingType(string(t)) {
		return fields
	}

	if catalog.RequiresGender(t) {
		fields = append(fields, FieldSpec{
			Name:     FieldYouthGender,
			Label:    "Gender",
			Required: true,
			Groups:   []catalog.OptionGroup{{Options: catalog.YouthGenderOptions()}},
		})
		if !catalog.IsYouthGender(string(g)) {
			return fields
		}
	}

	label := catalog.SizingLabel(t, g)
	fields = append(fields, FieldSpec{
		Name:   FieldShoeSize,
		Label:  "Shoe Size",
		Groups: catalog.SizeOptions(label, catalog.ShoeSizes(t)),
	})

	switch {
	case catalog.UsesToddlerSet(t):
		fields = append(fields, FieldSpec{
			Name:   FieldToddlerSetSize,
			Label:  "Toddler Set Size",
			Groups: catalog.SizeOptions(label, catalog.ToddlerSetSizes(t)),
		})
	case UsesPants(t):
		fields = append(fields,
			sizeField(FieldJacketSize, "Jacket Size", label, catalog.JacketSizes(t), t, catalog.GuideJacket),
			sizeField(FieldPantSize, "Pant Size", label, catalog.PantSizes(t), t, catalog.GuidePants),
		)
	default:
		fields = append(fields,
			sizeField(FieldJacketSize, "Jacket Size", label, catalog.JacketSizes(t), t, catalog.GuideJacket),
			sizeField(FieldBibSize, "Bib Size", label, catalog.BibSizes(t), t, catalog.GuidePants),
		)
	}

	gloveLabel := "Glove Size"
	if HasHandwearChoice(t) {
		fields = append(fields, FieldSpec{
			Name:   FieldHandwearType,
			Label:  "Gloves or Mittens",
			Groups: []catalog.OptionGroup{{Options: catalog.HandwearOptions()}},
		})
		gloveLabel = "Glove/Mitten Size"
	}
	fields = append(fields, sizeField(FieldGloveSize, gloveLabel, label, catalog.GloveSizes(t), t, catalog.GuideGloves))

	helmet := FieldSpec{
		Name:   FieldHelmetSize,
		Label:  "Helmet Size",
		Groups: catalog.HelmetGroups(t),
	}
	if catalog.HasSizeGuide(t, catalog.GuideHelmet) {
		helmet.SizeGuide = catalog.GuideHelmet
	}
	fields = append(fields, helmet, FieldSpec{
		Name:   FieldGoggles,
		Label:  "Goggles",
		Groups: []catalog.OptionGroup{{Options: catalog.GoggleOptions}},
	})

	return fields
}

func sizeField(name Field, label, groupLabel string, sizes []string, t catalog.ClothingType, item catalog.GuideItem) FieldSpec {
	fs := FieldSpec{
		Name:   name,
		Label:  label,
		Groups: catalog.SizeOptions(groupLabel, sizes),
	}
	if catalog.HasSizeGuide(t, item) {
		fs.SizeGuide = item
	}
	return fs
}
