package domain

// Car is a rentable vehicle. Available is false while an active booking holds it.
type Car struct {
	ID          string  `json:"id" bson:"_id"`
	Brand       string  `json:"brand" bson:"brand"`
	Model       string  `json:"model" bson:"model"`
	Type        string  `json:"type" bson:"type"`
	PricePerDay float64 `json:"pricePerDay" bson:"pricePerDay"`
	Available   bool    `json:"available" bson:"available"`
	CreatedBy   string  `json:"createdBy" bson:"createdBy"`
}

// CarPatch carries a partial update; nil fields are left untouched.
type CarPatch struct {
	Brand       *string
	Model       *string
	Type        *string
	PricePerDay *float64
	Available   *bool
}

// Empty reports whether the patch would change nothing.
func (p CarPatch) Empty() bool {
	return p.Brand == nil && p.Model == nil && p.Type == nil && p.PricePerDay == nil && p.Available == nil
}

// CanManage reports whether the identity may edit or delete the car:
// superadmins always, admins only for cars they created.
func (c *Car) CanManage(id Identity) bool {
	return id.Role == RoleSuperadmin || c.CreatedBy == id.ID
}
