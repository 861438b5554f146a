package domain

// InventoryLot is one physical batch of a catalog product held by the household.
type InventoryLot struct {
	ID          int64   `db:"id" json:"id"`
	Barcode     string  `db:"barcode" json:"barcode"`
	ExpiryDate  Date    `db:"expiry_date" json:"expiry_date"`
	QuantityVal float64 `db:"quantity_val" json:"quantity_val"`
	Owner       string  `db:"owner" json:"owner"`
	MyDosage    string  `db:"my_dosage" json:"my_dosage"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

// OwnerShared labels lots that belong to the whole household.
const OwnerShared = "shared"
