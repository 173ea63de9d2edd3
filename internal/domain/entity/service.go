package entity

import "time"

type ServiceStatus string

const (
	ServicePending  ServiceStatus = "Pending"
	ServiceApproved ServiceStatus = "Approved"
)

type Category string

const (
	CategoryCleaning    Category = "Cleaning"
	CategoryRepairing   Category = "Repairing"
	CategoryPainting    Category = "Painting"
	CategoryLaundry     Category = "Laundry"
	CategoryAppliance   Category = "Appliance"
	CategoryPlumbing    Category = "Plumbing"
	CategoryShifting    Category = "Shifting"
	CategoryBeauty      Category = "Beauty"
	CategoryACRepair    Category = "AC Repair"
	CategoryVehicle     Category = "Vehicle"
	CategoryElectronics Category = "Electronics"
	CategoryMassage     Category = "Massage"
)

var Categories = []Category{
	CategoryCleaning, CategoryRepairing, CategoryPainting, CategoryLaundry,
	CategoryAppliance, CategoryPlumbing, CategoryShifting, CategoryBeauty,
	CategoryACRepair, CategoryVehicle, CategoryElectronics, CategoryMassage,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Service is a listing offered by a provider.
type Service struct {
	ID           string        `json:"id" firestore:"id"`
	OwnerID      string        `json:"owner_id" firestore:"ownerId"`
	Name         string        `json:"name" firestore:"name"`
	Category     Category      `json:"category" firestore:"category"`
	Description  string        `json:"description" firestore:"description"`
	PriceRange   string        `json:"price_range" firestore:"priceRange"`
	Availability string        `json:"availability" firestore:"availability"`
	City         string        `json:"city" firestore:"city"`
	Status       ServiceStatus `json:"status" firestore:"status"`

	RatingAverage float64 `json:"rating_average" firestore:"ratingAverage"`
	ReviewCount   int     `json:"review_count" firestore:"reviewCount"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (s *Service) IsPublic() bool {
	return s.Status == ServiceApproved
}

// AddRating folds a new rating into the running average.
func (s *Service) AddRating(rating int) {
	total := s.RatingAverage * float64(s.ReviewCount)
	s.ReviewCount++
	s.RatingAverage = (total + float64(rating)) / float64(s.ReviewCount)
}
