package model

// Category groups catalog items. Repair is a service and carries no stock.
type Category string

const (
	CategorySparePart Category = "spare-part"
	CategoryOil       Category = "oil"
	CategoryRepair    Category = "repair"
	CategoryAccessory Category = "accessory"
	CategoryOther     Category = "other"
)

var categoryLabels = map[Category]string{
	CategorySparePart: "Spare Part",
	CategoryOil:       "Oil",
	CategoryRepair:    "Repair Service",
	CategoryAccessory: "Accessory",
	CategoryOther:     "Other",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySparePart, CategoryOil, CategoryRepair, CategoryAccessory, CategoryOther}
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Metered reports whether stock is tracked for the category.
func (c Category) Metered() bool {
	return c != CategoryRepair
}

type Product struct {
	BaseModel
	Name        string   `db:"name" json:"name"`
	Category    Category `db:"category" json:"category"`
	Price       int64    `db:"price" json:"price"`
	Stock       int      `db:"stock" json:"stock"`
	Description *string  `db:"description" json:"description,omitempty"` // Nullable
}

// Unlimited reports whether the product is an unmetered service.
func (p *Product) Unlimited() bool {
	return !p.Category.Metered()
}
