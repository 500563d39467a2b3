package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsesPants(t *testing.T) {
	want := map[ClothingType]bool{Mens: true, Womens: true, Youth: false, Toddler: false}
	for _, ct := range ClothingTypes {
		assert.Equal(t, want[ct], UsesPants(ct), "UsesPants(%s)", ct)
	}
}

func TestHasHandwearChoice(t *testing.T) {
	want := map[ClothingType]bool{Mens: false, Womens: true, Youth: true, Toddler: false}
	for _, ct := range ClothingTypes {
		assert.Equal(t, want[ct], HasHandwearChoice(ct), "HasHandwearChoice(%s)", ct)
	}
}

func TestBottomsTables(t *testing.T) {
	for _, ct := range ClothingTypes {
		pants := PantSizes(ct) != nil
		bibs := BibSizes(ct) != nil
		set := ToddlerSetSizes(ct) != nil

		n := 0
		for _, b := range []bool{pants, bibs, set} {
			if b {
				n++
			}
		}
		assert.Equal(t, 1, n, "%s should have exactly one bottoms table", ct)
	}
	assert.Nil(t, JacketSizes(Toddler))
	assert.Contains(t, ToddlerSetSizes(Toddler), "5T/XXS")
}

func TestHelmetGroups_YouthPrefixed(t *testing.T) {
	groups := HelmetGroups(Youth)
	require.Len(t, groups, 2)
	assert.Equal(t, "Kid Helmets", groups[0].Label)
	assert.Equal(t, "Adult Helmets", groups[1].Label)
	assert.Equal(t, []string{"kid-XS", "kid-S", "adult-S", "adult-M", "adult-L", "adult-XL"}, HelmetSizes(Youth))

	assert.Equal(t, []string{"S", "M", "L", "XL"}, HelmetSizes(Mens))
	assert.Equal(t, []string{"XS"}, HelmetSizes(Toddler))
}

func TestSizingLabel(t *testing.T) {
	assert.Equal(t, "Men's Sizes", SizingLabel(Mens, ""))
	assert.Equal(t, "Youth Sizes", SizingLabel(Youth, ""))
	assert.Equal(t, "Youth Girls Sizes", SizingLabel(Youth, Girls))
	assert.Equal(t, "Toddler Sizes", SizingLabel(Toddler, Boys))
}

func TestSizeGuides(t *testing.T) {
	assert.True(t, HasSizeGuide(Mens, GuidePants))
	assert.True(t, HasSizeGuide(Youth, GuideHelmet))
	assert.False(t, HasSizeGuide(Youth, GuideJacket))
	assert.False(t, HasSizeGuide(Toddler, GuideHelmet))

	g, ok := LookupSizeGuide(Womens, GuideGloves)
	require.True(t, ok)
	assert.Equal(t, "Women's Glove/Mitten Size Guide", g.Title)
}

func TestOptionPredicates(t *testing.T) {
	assert.True(t, IsClothingType("youth"))
	assert.False(t, IsClothingType("kids"))
	assert.True(t, IsGoggleOption("over-glasses"))
	assert.True(t, IsPaymentOption("entire-group"))
	assert.False(t, IsPaymentOption("cash"))
	assert.True(t, IsHandwear("mittens"))
}
