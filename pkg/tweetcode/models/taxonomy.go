package models

// TaxonomyGroup is a main category with its subcategories.
type TaxonomyGroup struct {
	// Main is the text before the first ">".
	Main string `json:"main"`
	// Subs lists the texts after ">" in document order.
	Subs []string `json:"subs"`
}

// TaxonomyCategory is one top-level entry of the taxonomy document.
type TaxonomyCategory struct {
	// Name is the category key in the document.
	Name string `json:"name"`
	// Groups holds the "Main > Sub" lines grouped by Main, first-seen order.
	Groups []TaxonomyGroup `json:"groups"`
}
