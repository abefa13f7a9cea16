package vocab

// DefaultDefinition returns the built-in fashion vocabulary used when no
// definition file is supplied. Catalog teams are expected to replace it with
// their own file; the shape is the same.
func DefaultDefinition() *Definition {
	return &Definition{
		Hierarchical: map[string]map[string]map[string][]string{
			FacetItemType: {
				"Apparel": {
					"Topwear":    {"Tops", "Tshirts", "Shirts", "Blouses"},
					"Bottomwear": {"Jeans", "Pants", "Shorts", "Skirts"},
					"Dress":      {"Dresses"},
					"Outerwear":  {"Jackets", "Blazers", "Coats"},
					"Innerwear":  {"Vests", "Briefs"},
				},
				"Footwear": {
					"Shoes":      {"Casual Shoes", "Formal Shoes", "Sports Shoes"},
					"Sandals":    {"Flat Sandals", "Heeled Sandals"},
					"Flip Flops": {"Rubber Flip Flops"},
					"Boots":      {"Ankle Boots", "Knee Boots"},
					"Socks":      {"Ankle Socks", "Crew Socks"},
				},
			},
			FacetStyle: {
				"Casual": {
					"Everyday":     {"Basic", "Comfort", "Relaxed"},
					"Streetwear":   {"Urban", "Trendy"},
					"Weekend":      {"Leisure", "Outdoor"},
					"Smart Casual": {"Polished", "Refined"},
				},
				"Formal": {
					"Business":         {"Professional", "Corporate"},
					"Evening":          {"Elegant", "Sophisticated"},
					"Special Occasion": {"Party", "Wedding"},
				},
				"Sporty": {
					"Athletic":   {"Performance", "Training", "Gym"},
					"Active":     {"Hiking", "Running"},
					"Athleisure": {"Versatile"},
				},
				"Ethnic": {
					"Traditional": {"Classic", "Heritage"},
					"Fusion":      {"Contemporary", "Blended"},
				},
			},
		},
		Flat: map[string][]string{
			FacetGender:   {"Men", "Women", "Unisex"},
			FacetColour:   {"Black", "White", "Blue", "Red", "Green", "Yellow", "Pink", "Purple", "Brown", "Grey", "Beige", "Khaki", "Navy", "Olive", "Orange"},
			FacetMaterial: {"Cotton", "Polyester", "Denim", "Leather", "Silk", "Wool", "Linen", "Nylon", "Canvas"},
			FacetPattern:  {"Solid", "Striped", "Floral", "Geometric", "Polka Dot", "Plaid", "Abstract"},
			FacetBrand:    {},
			FacetSize:     {"XS", "S", "M", "L", "XL", "XXL"},
		},
	}
}

// Default builds the built-in vocabulary. It panics on error because the
// embedded definition is fixed at compile time and covered by tests.
func Default() *Vocabulary {
	v, err := Parse(DefaultDefinition())
	if err != nil {
		panic(err)
	}
	return v
}
