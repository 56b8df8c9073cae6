package product

type Product struct {
	ID          int64  `gorm:"primaryKey"`
	SKU         string `gorm:"column:sku;not null;uniqueIndex"`
	Name        string `gorm:"column:name;not null"`
	Stock       int    `gorm:"column:stock;not null;default:0"`
	ManageStock bool   `gorm:"column:manage_stock;not null;default:true"`
}

func (Product) TableName() string {
	return "products"
}
