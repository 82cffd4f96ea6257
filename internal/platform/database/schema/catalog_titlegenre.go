// Copyright (c) 2026 Revora. All rights reserved.

package schema

// CatalogTitleGenreTable represents the 'catalog.titlegenre' join table
type CatalogTitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// CatalogTitleGenre is the schema definition for catalog.titlegenre
var CatalogTitleGenre = CatalogTitleGenreTable{
	Table:   "catalog.titlegenre",
	TitleID: "titleid",
	GenreID: "genreid",
}
