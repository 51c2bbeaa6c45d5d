package domain

// Room is a bookable room in the catalog. Price is in minor currency
// units (cents) per night and never negative.
type Room struct {
	ID          string
	Name        string
	Price       int64
	Description string
	Images      []string
}
