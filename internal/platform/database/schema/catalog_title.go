// Copyright (c) 2026 Revora. All rights reserved.

package schema

// CatalogTitleTable represents the 'catalog.title' table
type CatalogTitleTable struct {
	Table       string
	ID          string
	Name        string
	ReleaseYear string
	Description string
	CategoryID  string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogTitle is the schema definition for catalog.title
var CatalogTitle = CatalogTitleTable{
	Table:       "catalog.title",
	ID:          "id",
	Name:        "name",
	ReleaseYear: "releaseyear",
	Description: "description",
	CategoryID:  "categoryid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CatalogTitleTable) Columns() []string {
	return []string{t.ID, t.Name, t.ReleaseYear, t.Description, t.CategoryID, t.CreatedAt, t.UpdatedAt}
}
