package domain

// VehicleCategory is the fixed enumeration of admissible vehicle types.
type VehicleCategory string

const (
	CategoryCar        VehicleCategory = "car"
	CategoryMotorcycle VehicleCategory = "motorcycle"
	CategoryBicycle    VehicleCategory = "bicycle"
	CategoryTruck      VehicleCategory = "truck"
)

// Categories lists every valid vehicle category.
func Categories() []VehicleCategory {
	return []VehicleCategory{CategoryCar, CategoryMotorcycle, CategoryBicycle, CategoryTruck}
}

// Vehicle is owned by the registration subsystem; the core only reads it
// to validate admission.
type Vehicle struct {
	ID       string
	Plate    string
	Category VehicleCategory
	OwnerID  string
}
