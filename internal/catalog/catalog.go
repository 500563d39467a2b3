// Package catalog holds the static sizing and option tables that drive the rental
// forms. Every table is read-only after init.
package catalog

import "slices"

type ClothingType string

const (
	Mens    ClothingType = "mens"
	Womens  ClothingType = "womens"
	Youth   ClothingType = "youth"
	Toddler ClothingType = "toddler"
)

// ClothingTypes is the display order of the clothing type select.
var ClothingTypes = []ClothingType{Mens, Womens, Youth, Toddler}

type YouthGender string

const (
	Boys  YouthGender = "boys"
	Girls YouthGender = "girls"
)

var YouthGenders = []YouthGender{Boys, Girls}

type Handwear string

const (
	Gloves  Handwear = "gloves"
	Mittens Handwear = "mittens"
)

var Handwears = []Handwear{Gloves, Mittens}

// Option is a value/label pair for a select input.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionGroup is a labeled run of options inside one select.
type OptionGroup struct {
	Label   string   `json:"label,omitempty"`
	Options []Option `json:"options"`
}

var clothingTypeLabels = map[ClothingType]string{
	Mens:    "Men's",
	Womens:  "Women's",
	Youth:   "Youth",
	Toddler: "Toddler",
}

var youthGenderLabels = map[YouthGender]string{
	Boys:  "Boys",
	Girls: "Girls",
}

var handwearLabels = map[Handwear]string{
	Gloves:  "Gloves",
	Mittens: "Mittens",
}

var shoeSizes = map[ClothingType][]string{
	Mens:    {"7", "7.5", "8", "8.5", "9", "9.5", "10", "10.5", "11", "11.5", "12", "12.5", "13", "14", "15"},
	Womens:  {"5", "5.5", "6", "6.5", "7", "7.5", "8", "8.5", "9", "9.5", "10", "10.5", "11", "11.5", "12"},
	Youth:   {"1", "1.5", "2", "2.5", "3", "3.5", "4", "4.5", "5", "5.5", "6", "6.5", "7"},
	Toddler: {"4", "5", "6", "7", "8", "9", "10", "11", "12", "13"},
}

// Jackets share one table for every type that has a jacket field.
var jacketSizes = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL", "4XL", "Other"}

var pantSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

var youthBibSizes = []string{"XS", "S", "M", "L", "XL"}

// Toddlers get a combined jacket+bib set.
var toddlerSetSizes = []string{"2T", "3T", "4T", "5T/XXS"}

var gloveSizes = map[ClothingType][]string{
	Mens:    {"S", "M", "L", "XL", "Custom Size"},
	Womens:  {"S", "M", "L", "Custom Size"},
	Youth:   {"S", "M", "L", "Custom Size"},
	Toddler: {"S", "M", "L", "Custom Size"},
}

var adultHelmetSizes = []string{"S", "M", "L", "XL"}

var toddlerHelmetSizes = []string{"XS"}

// Youth helmets span two shells whose labels overlap, so the tokens carry a prefix.
var youthHelmetGroups = []OptionGroup{
	{Label: "Kid Helmets", Options: []Option{
		{Value: "kid-XS", Label: "XS"},
		{Value: "kid-S", Label: "S"},
	}},
	{Label: "Adult Helmets", Options: []Option{
		{Value: "adult-S", Label: "S"},
		{Value: "adult-M", Label: "M"},
		{Value: "adult-L", Label: "L"},
		{Value: "adult-XL", Label: "XL"},
	}},
}

// GoggleOptions lists the goggle styles.
var GoggleOptions = []Option{
	{Value: "standard", Label: "Standard"},
	{Value: "over-glasses", Label: "Over Glasses"},
}

// PaymentOptions lists how a renter says they will pay.
var PaymentOptions = []Option{
	{Value: "individually", Label: "Individually"},
	{Value: "family", Label: "For my family members"},
	{Value: "entire-group", Label: "Entire Group"},
	{Value: "someone-else", Label: "Someone Else is Paying for me"},
}

// IsClothingType reports whether s names a known clothing type.
func IsClothingType(s string) bool {
	return slices.Contains(ClothingTypes, ClothingType(s))
}

// IsYouthGender reports whether s names a known youth gender.
func IsYouthGender(s string) bool {
	return slices.Contains(YouthGenders, YouthGender(s))
}

// IsHandwear reports whether s is gloves or mittens.
func IsHandwear(s string) bool {
	return slices.Contains(Handwears, Handwear(s))
}

// UsesPants reports whether the type is sized for pants. Types that are not get bibs
// (youth) or a combined set (toddler).
func UsesPants(t ClothingType) bool {
	return t == Mens || t == Womens
}

// HasHandwearChoice reports whether the renter picks gloves vs mittens before a size.
func HasHandwearChoice(t ClothingType) bool {
	return t == Womens || t == Youth
}

// UsesToddlerSet reports whether jacket and bottoms are rented as one set.
func UsesToddlerSet(t ClothingType) bool {
	return t == Toddler
}

// RequiresGender reports whether sizing fields stay hidden until a gender is chosen.
func RequiresGender(t ClothingType) bool {
	return t == Youth
}

// ClothingTypeOptions returns the clothing type select options.
func ClothingTypeOptions() []Option {
	opts := make([]Option, 0, len(ClothingTypes))
	for _, t := range ClothingTypes {
		opts = append(opts, Option{Value: string(t), Label: clothingTypeLabels[t]})
	}
	return opts
}

// YouthGenderOptions returns the youth gender select options.
func YouthGenderOptions() []Option {
	opts := make([]Option, 0, len(YouthGenders))
	for _, g := range YouthGenders {
		opts = append(opts, Option{Value: string(g), Label: youthGenderLabels[g]})
	}
	return opts
}

// HandwearOptions returns the gloves/mittens select options.
func HandwearOptions() []Option {
	opts := make([]Option, 0, len(Handwears))
	for _, h := range Handwears {
		opts = append(opts, Option{Value: string(h), Label: handwearLabels[h]})
	}
	return opts
}

// SizingLabel is the caption shown above each size list.
func SizingLabel(t ClothingType, g YouthGender) string {
	switch t {
	case Mens:
		return "Men's Sizes"
	case Womens:
		return "Women's Sizes"
	case Toddler:
		return "Toddler Sizes"
	case Youth:
		switch g {
		case Boys:
			return "Youth Boys Sizes"
		case Girls:
			return "Youth Girls Sizes"
		}
		return "Youth Sizes"
	}
	return ""
}

func ShoeSizes(t ClothingType) []string {
	return shoeSizes[t]
}

// JacketSizes returns nil for toddlers, who rent a set instead.
func JacketSizes(t ClothingType) []string {
	if t == Toddler || !IsClothingType(string(t)) {
		return nil
	}
	return jacketSizes
}

func PantSizes(t ClothingType) []string {
	if !UsesPants(t) {
		return nil
	}
	return pantSizes
}

func BibSizes(t ClothingType) []string {
	if t != Youth {
		return nil
	}
	return youthBibSizes
}

func ToddlerSetSizes(t ClothingType) []string {
	if !UsesToddlerSet(t) {
		return nil
	}
	return toddlerSetSizes
}

// GloveSizes serves both gloves and mittens.
func GloveSizes(t ClothingType) []string {
	return gloveSizes[t]
}

// HelmetGroups returns the helmet options, grouped for youth and flat otherwise.
func HelmetGroups(t ClothingType) []OptionGroup {
	switch t {
	case Mens, Womens:
		return []OptionGroup{{Options: toOptions(adultHelmetSizes)}}
	case Toddler:
		return []OptionGroup{{Options: toOptions(toddlerHelmetSizes)}}
	case Youth:
		return youthHelmetGroups
	}
	return nil
}

// HelmetSizes flattens HelmetGroups to its token values.
func HelmetSizes(t ClothingType) []string {
	var values []string
	for _, g := range HelmetGroups(t) {
		for _, o := range g.Options {
			values = append(values, o.Value)
		}
	}
	return values
}

// SizeOptions wraps a plain size list as one unlabeled option group.
func SizeOptions(label string, sizes []string) []OptionGroup {
	if len(sizes) == 0 {
		return nil
	}
	return []OptionGroup{{Label: label, Options: toOptions(sizes)}}
}

func IsGoggleOption(v string) bool {
	return hasValue(GoggleOptions, v)
}

func IsPaymentOption(v string) bool {
	return hasValue(PaymentOptions, v)
}

func toOptions(values []string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: v}
	}
	return opts
}

func hasValue(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
