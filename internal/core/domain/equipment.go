package domain

// EquipmentCategory groups equipment items, e.g. "Cameras", "Audio", "Lighting".
type EquipmentCategory struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"` // Unique
	AuditFields
}

// EquipmentItem is the master record for one piece of equipment the company owns.
//
// TotalQuantity is the owned count. Committed, Damaged and Available are never
// stored; they are aggregated from request lines and checkout logs on every
// read so the displayed availability can not drift from the log.
type EquipmentItem struct {
	ItemID        string `json:"itemID"`
	Name          string `json:"name"`
	CategoryID    string `json:"categoryID"` // Nullable FK -> equipment_categories
	TotalQuantity int64  `json:"totalQuantity"`
	AuditFields

	// Derived quantities, populated by the repository at read time.
	CommittedQuantity int64 `json:"committedQuantity"`
	DamagedQuantity   int64 `json:"damagedQuantity"`
	AvailableQuantity int64 `json:"availableQuantity"`
}
