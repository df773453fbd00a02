package guests

import (
	"sort"
	"strings"
)

const (
	CollectionMealOptions    = "mealOptions"
	CollectionDessertOptions = "dessertOptions"
	CollectionBridalParty    = "bridalParty"
	CollectionGalleryImages  = "galleryImages"
)

// Collection describes an orderable set of rows: a table, an optional scope
// narrowing it (menu options share one table), and the position column.
type Collection struct {
	Name           string
	Table          string
	PositionColumn string
	LabelColumn    string
	Scope          map[string]any
}

var collections = map[string]Collection{
	CollectionMealOptions: {
		Name:           CollectionMealOptions,
		Table:          MenuOption{}.TableName(),
		PositionColumn: "position",
		LabelColumn:    "name",
		Scope:          map[string]any{"kind": string(MenuKindMeal)},
	},
	CollectionDessertOptions: {
		Name:           CollectionDessertOptions,
		Table:          MenuOption{}.TableName(),
		PositionColumn: "position",
		LabelColumn:    "name",
		Scope:          map[string]any{"kind": string(MenuKindDessert)},
	},
	CollectionBridalParty: {
		Name:           CollectionBridalParty,
		Table:          BridalPartyMember{}.TableName(),
		PositionColumn: "position",
		LabelColumn:    "name",
	},
	CollectionGalleryImages: {
		Name:           CollectionGalleryImages,
		Table:          GalleryImage{}.TableName(),
		PositionColumn: "position",
		LabelColumn:    "caption",
	},
}

// LookupCollection resolves a collection by name (case-insensitive).
func LookupCollection(name string) (Collection, bool) {
	name = strings.TrimSpace(name)
	if c, ok := collections[name]; ok {
		return c, true
	}
	for key, c := range collections {
		if strings.EqualFold(key, name) {
			return c, true
		}
	}
	return Collection{}, false
}

// CollectionNames lists the known collections in stable order.
func CollectionNames() []string {
	out := make([]string, 0, len(collections))
	for name := range collections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CollectionForMenuKind maps a menu kind to its orderable collection.
func CollectionForMenuKind(kind MenuKind) (Collection, bool) {
	switch kind {
	case MenuKindMeal:
		return collections[CollectionMealOptions], true
	case MenuKindDessert:
		return collections[CollectionDessertOptions], true
	default:
		return Collection{}, false
	}
}
