package catalog

import "strings"

// Category is one of the curated grocery departments. Product and order
// records only ever carry a curated category name.
type Category struct {
	Name     string
	Brands   []string
	Synonyms []string
}

const Uncategorized = "Uncategorized"

var categories = []Category{
	{
		Name:     "Fruits & Vegetables",
		Brands:   []string{"Fresh Farms", "Organic Valley", "Nature's Best", "Local Harvest"},
		Synonyms: []string{"fruits", "vegetables", "produce", "fruit", "veggies", "fresh produce"},
	},
	{
		Name:     "Dairy & Eggs",
		Brands:   []string{"Amul", "Mother Dairy", "Nestle", "Britannia"},
		Synonyms: []string{"dairy", "milk", "eggs", "cheese", "butter", "yogurt", "curd"},
	},
	{
		Name:     "Snacks & Beverages",
		Brands:   []string{"Lays", "Haldiram's", "Coca-Cola", "PepsiCo", "Parle"},
		Synonyms: []string{"snacks", "beverages", "drinks", "chips", "soda", "juice", "cold drinks"},
	},
	{
		Name:     "Staples & Grains",
		Brands:   []string{"Tata", "Fortune", "Aashirvaad", "India Gate"},
		Synonyms: []string{"staples", "grains", "rice", "flour", "atta", "pulses", "dal", "cereals"},
	},
	{
		Name:     "Household & Personal Care",
		Brands:   []string{"Unilever", "P&G", "Dettol", "Colgate"},
		Synonyms: []string{"household", "personal care", "cleaning", "hygiene", "toiletries", "home care"},
	},
}

// Categories returns the curated taxonomy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryNames returns the curated category names in taxonomy order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// IsValidCategory reports whether name is exactly a curated category name.
func IsValidCategory(name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// NormalizeCategory maps free-form input onto a curated category name.
// Matching is case-insensitive over names and synonyms, with a substring
// fallback in both directions. Unknown input maps to Uncategorized.
func NormalizeCategory(input string) string {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return Uncategorized
	}

	for _, c := range categories {
		if strings.ToLower(c.Name) == needle {
			return c.Name
		}
	}

	for _, c := range categories {
		for _, syn := range c.Synonyms {
			if syn == needle {
				return c.Name
			}
		}
	}

	for _, c := range categories {
		lowerName := strings.ToLower(c.Name)
		if strings.Contains(lowerName, needle) || strings.Contains(needle, lowerName) {
			return c.Name
		}
		for _, syn := range c.Synonyms {
			if strings.Contains(needle, syn) {
				return c.Name
			}
		}
	}

	return Uncategorized
}

// NormalizeBrandForCategory maps free-form brand input onto the curated brand
// list of the given category. Unknown brands are kept as typed (trimmed);
// empty input yields "Generic".
func NormalizeBrandForCategory(category, brand string) string {
	trimmed := strings.TrimSpace(brand)
	if trimmed == "" {
		return "Generic"
	}

	needle := strings.ToLower(trimmed)
	for _, c := range categories {
		if c.Name != category {
			continue
		}
		for _, b := range c.Brands {
			if strings.ToLower(b) == needle {
				return b
			}
		}
	}

	return trimmed
}

// BrandsForCategory returns the curated brand list for a category, nil when
// the category is not curated.
func BrandsForCategory(category string) []string {
	for _, c := range categories {
		if c.Name == category {
			out := make([]string, len(c.Brands))
			copy(out, c.Brands)
			return out
		}
	}
	return nil
}
