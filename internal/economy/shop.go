package economy

import "sort"

// shopCatalog is held by the server and never accepted from clients.
var shopCatalog = map[string]ShopItem{
	"1": {ID: "1", Title: "Premium Solutions", TokenCost: 50, Description: "Detailed step-by-step explanations"},
	"2": {ID: "2", Title: "Avatar Skin", TokenCost: 30, Description: "Astronaut theme"},
	"3": {ID: "3", Title: "Study Theme", TokenCost: 20, Description: "Dark mode theme"},
	"4": {ID: "4", Title: "Special Exercises", TokenCost: 40, Description: "Yoga & Stretching"},
}

// LookupShopItem returns the catalog entry for itemID.
func LookupShopItem(itemID string) (ShopItem, bool) {
	item, ok := shopCatalog[itemID]
	return item, ok
}

// ShopCatalog returns every shop item ordered by id.
func ShopCatalog() []ShopItem {
	items := make([]ShopItem, 0, len(shopCatalog))
	for _, item := range shopCatalog {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items
}
