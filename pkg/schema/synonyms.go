package schema

// The two schema instances are deliberately independent: the component
// vocabulary and the design vocabulary are disjoint, and a raw key must
// never resolve across them ("radius" is corner rounding in both, but it
// lives under different containers).

// ComponentSchema covers the per-component row: scalar `name`, the
// `props` content document and the per-component `card_design` document.
func ComponentSchema() *Schema {
	return &Schema{
		Name: "component",
		ScalarColumns: map[string]bool{
			"name": true,
			"kind": true,
		},
		DocumentColumns: map[string]bool{
			"props":       true,
			"card_design": true,
		},
		Categorical: map[string]bool{
			"kind": true,
		},
		DefaultContainer: "props",
		threshold:        fuzzyThreshold,
		synonyms: map[string]string{
			"name":           "name",
			"component name": "name",
			"kind":           "kind",
			"type":           "kind",
			"component type": "kind",

			"title":       "props.title",
			"card title":  "props.title",
			"heading":     "props.title",
			"subtitle":    "props.subtitle",
			"subheading":  "props.subtitle",
			"description": "props.description",
			"desc":        "props.description",
			"text":        "props.description",
			"body":        "props.description",
			"image":       "props.image_url",
			"image url":   "props.image_url",
			"picture":     "props.image_url",
			"photo":       "props.image_url",
			"link":        "props.link_url",
			"url":         "props.link_url",
			"link url":    "props.link_url",
			"order":       "props.order",
			"position":    "props.order",

			"radius":         "card_design.radius",
			"corner radius":  "card_design.radius",
			"rounding":       "card_design.radius",
			"card radius":    "card_design.radius",
			"shadow":         "card_design.shadow",
			"card shadow":    "card_design.shadow",
			"border":         "card_design.border",
			"card border":    "card_design.border",
			"background":     "card_design.background",
			"card background": "card_design.background",
		},
	}
}

// DesignSchema covers the per-site design settings row: scalar theme/font
// and the header/card/footer design documents.
func DesignSchema() *Schema {
	return &Schema{
		Name: "design",
		ScalarColumns: map[string]bool{
			"theme": true,
			"font":  true,
		},
		DocumentColumns: map[string]bool{
			"header_design": true,
			"card_design":   true,
			"footer_design": true,
		},
		Categorical: map[string]bool{
			"theme": true,
		},
		threshold: fuzzyThreshold,
		synonyms: map[string]string{
			"theme":       "theme",
			"site theme":  "theme",
			"color theme": "theme",
			"font":        "font",
			"font family": "font",
			"typeface":    "font",

			"social icon style":  "header_design.social-icon-style",
			"social icons":       "header_design.social-icon-style",
			"header background":  "header_design.background",
			"nav style":          "header_design.nav-style",
			"navigation style":   "header_design.nav-style",
			"logo size":          "header_design.logo-size",
			"header logo size":   "header_design.logo-size",

			"radius":        "card_design.radius",
			"card radius":   "card_design.radius",
			"corner radius": "card_design.radius",
			"card shadow":   "card_design.shadow",
			"card spacing":  "card_design.spacing",

			"footer text":       "footer_design.text",
			"copyright":         "footer_design.text",
			"footer background": "footer_design.background",
			"footer links":      "footer_design.show-links",
		},
	}
}
