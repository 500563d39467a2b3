package catalog

// GuideItem is a garment that may have a measurement chart.
type GuideItem string

const (
	GuideJacket GuideItem = "jacket"
	GuidePants  GuideItem = "pants"
	GuideGloves GuideItem = "gloves"
	GuideHelmet GuideItem = "helmet"
)

// GuideColumn is one column header of a size chart.
type GuideColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SizeGuide is a measurement chart shown next to a size select.
type SizeGuide struct {
	Title   string              `json:"title"`
	Columns []GuideColumn       `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Note    string              `json:"note,omitempty"`
}

var mensJackets = SizeGuide{
	Title:   "Men's Jacket Sizing",
	Columns: []GuideColumn{{"size", "Size"}, {"chest", "Chest (in)"}, {"sleeve", "Sleeve (in)"}},
	Rows: []map[string]string{
		{"size": "S", "chest": "36-38", "sleeve": "35.5"},
		{"size": "M", "chest": "39-41", "sleeve": "36"},
		{"size": "L", "chest": "42-44", "sleeve": "36.5"},
		{"size": "XL", "chest": "45-47", "sleeve": "37"},
		{"size": "2XL", "chest": "48-51", "sleeve": "38"},
		{"size": "3XL", "chest": "52-55", "sleeve": "39"},
		{"size": "4XL", "chest": "58-60", "sleeve": "40"},
	},
}

var mensPants = SizeGuide{
	Title:   "Men's Pants Sizing",
	Columns: []GuideColumn{{"size", "Size"}, {"waist", "Waist (in)"}, {"inseam", "Inseam (in)"}},
	Rows: []map[string]string{
		{"size": "S", "waist": "30-32", "inseam": "32"},
		{"size": "M", "waist": "33-35", "inseam": "32"},
		{"size": "L", "waist": "36-38", "inseam": "32"},
		{"size": "XL", "waist": "39-42", "inseam": "32"},
		{"size": "2XL", "waist": "43-46", "inseam": "32"},
		{"size": "3XL", "waist": "47-50", "inseam": "32.5"},
		{"size": "4XL", "waist": "51-53", "inseam": "32.5"},
		{"size": "5XL", "waist": "54-56", "inseam": "32.5"},
	},
}

var womensJackets = SizeGuide{
	Title:   "Women's Jacket Sizing",
	Columns: []GuideColumn{{"size", "Size"}, {"chest", "Chest (in)"}, {"sleeve", "Sleeve (in)"}},
	Rows: []map[string]string{
		{"size": "S", "chest": "34-36", "sleeve": "34"},
		{"size": "M", "chest": "36.5-38.5", "sleeve": "34.5"},
		{"size": "L", "chest": "39-41", "sleeve": "35"},
		{"size": "XL", "chest": "41.5-45", "sleeve": "35"},
	},
}

var womensPants = SizeGuide{
	Title:   "Women's Pants Sizing",
	Columns: []GuideColumn{{"size", "Size"}, {"waist", "Waist (in)"}, {"hip", "Hip (in)"}, {"inseam", "Inseam (in)"}},
	Rows: []map[string]string{
		{"size": "XS", "waist": "26-28", "hip": "34-36", "inseam": "31"},
		{"size": "S", "waist": "28-30", "hip": "36-38", "inseam": "31"},
		{"size": "M", "waist": "30-32", "hip": "38-40", "inseam": "31.5"},
		{"size": "L", "waist": "32-34", "hip": "40-43", "inseam": "32"},
		{"size": "XL", "waist": "34-36", "hip": "43-46", "inseam": "32"},
		{"size": "2XL", "waist": "37-38", "hip": "47-49", "inseam": "32"},
		{"size": "3XL", "waist": "39-40", "hip": "50-52", "inseam": "32"},
	},
}

var mensGloves = SizeGuide{
	Title:   "Men's Glove Size Guide",
	Columns: []GuideColumn{{"measurement", ""}, {"S", "Small"}, {"M", "Medium"}, {"L", "Large"}, {"XL", "XL"}},
	Rows: []map[string]string{
		{"measurement": "Circumference (in)", "S": "7.5-8", "M": "8-8.5", "L": "8.5-9", "XL": "9-10"},
		{"measurement": "Length (in)", "S": "6.9-7.5", "M": "7.3-7.9", "L": "7.7-8.3", "XL": "8.1-8.7"},
		{"measurement": "Width (in)", "S": "3.1", "M": "3.1", "L": "3.5", "XL": "3.9"},
	},
}

var womensGloves = SizeGuide{
	Title:   "Women's Glove/Mitten Size Guide",
	Columns: []GuideColumn{{"measurement", ""}, {"S", "Small"}, {"M", "Medium"}, {"L", "Large"}},
	Rows: []map[string]string{
		{"measurement": "Circumference (in)", "S": "6.5-7", "M": "7-7.5", "L": "7.5-8"},
		{"measurement": "Length (in)", "S": "6.1-6.7", "M": "6.5-7.1", "L": "6.9-7.5"},
		{"measurement": "Width (in)", "S": "2.7", "M": "2.7", "L": "3.1"},
	},
}

var youthGloves = SizeGuide{
	Title:   "Kids Glove/Mitten Size Guide",
	Columns: []GuideColumn{{"measurement", ""}, {"XS", "XS"}, {"S", "Small"}, {"M", "Medium"}, {"L", "Large"}, {"XL", "XL"}},
	Rows: []map[string]string{
		{"measurement": "Age", "XS": "Under 5", "S": "6", "M": "7-8", "L": "9-10", "XL": "11-12"},
		{"measurement": "Circumference (in)", "XS": "4.5-5", "S": "5-5.5", "M": "5.5-6", "L": "6-6.5", "XL": "6.5-7"},
		{"measurement": "Length (in)", "XS": "4.5-5.1", "S": "4.9-5.5", "M": "5.3-5.9", "L": "5.7-6.3", "XL": "6.1-6.7"},
	},
}

var helmetGuide = SizeGuide{
	Title:   "Helmet Size Guide",
	Columns: []GuideColumn{{"measurement", ""}, {"S", "Small"}, {"M", "Medium"}, {"L", "Large"}, {"XL", "XL"}},
	Rows: []map[string]string{
		{"measurement": "In Inches", "S": "19-20½", "M": "20½-23", "L": "22-24", "XL": "23⅗-24⅘"},
		{"measurement": "Hat Size", "S": "6-6¾", "M": "6¾-7⅜", "L": "7⅛-7⅝", "XL": "7½-8"},
	},
}

var sizeGuides = map[ClothingType]map[GuideItem]*SizeGuide{
	Mens: {
		GuideJacket: &mensJackets,
		GuidePants:  &mensPants,
		GuideGloves: &mensGloves,
		GuideHelmet: &helmetGuide,
	},
	Womens: {
		GuideJacket: &womensJackets,
		GuidePants:  &womensPants,
		GuideGloves: &womensGloves,
		GuideHelmet: &helmetGuide,
	},
	Youth: {
		GuideGloves: &youthGloves,
		GuideHelmet: &helmetGuide,
	},
}

// LookupSizeGuide returns the chart for a type and item. Toddlers have none.
func LookupSizeGuide(t ClothingType, item GuideItem) (*SizeGuide, bool) {
	g, ok := sizeGuides[t][item]
	return g, ok
}

// HasSizeGuide reports whether LookupSizeGuide would find a chart.
func HasSizeGuide(t ClothingType, item GuideItem) bool {
	_, ok := LookupSizeGuide(t, item)
	return ok
}
