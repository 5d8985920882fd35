package domain

// Site represents a physical parking facility containing one or more zones.
type Site struct {
	ID      string
	Name    string
	City    string
	Address string
}
