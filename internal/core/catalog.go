package core

// DefaultCategories is the seeded category catalog. The SQLite backend
// seeds the same rows via migrations; the in-memory backend starts from
// this list so both report the identical catalog on an empty database.
func DefaultCategories() []BudgetCategory {
	return []BudgetCategory{
		{ID: "cat-demolition", Name: "Demolition", Color: "#8d6e63", SortOrder: 1},
		{ID: "cat-structural", Name: "Structural", Color: "#78909c", SortOrder: 2},
		{ID: "cat-electrical", Name: "Electrical", Color: "#ffb300", SortOrder: 3},
		{ID: "cat-plumbing", Name: "Plumbing", Color: "#42a5f5", SortOrder: 4},
		{ID: "cat-hvac", Name: "Heating & Ventilation", Color: "#ef5350", SortOrder: 5},
		{ID: "cat-windows", Name: "Windows & Doors", Color: "#26a69a", SortOrder: 6},
		{ID: "cat-flooring", Name: "Flooring", Color: "#a1887f", SortOrder: 7},
		{ID: "cat-painting", Name: "Walls & Painting", Color: "#ab47bc", SortOrder: 8},
		{ID: "cat-kitchen", Name: "Kitchen", Color: "#66bb6a", SortOrder: 9},
		{ID: "cat-bathroom", Name: "Bathroom", Color: "#29b6f6", SortOrder: 10},
	}
}
