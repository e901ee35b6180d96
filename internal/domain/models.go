package domain

// Domain contains the core models exchanged with the store directory backend.

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether both components are unset.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lng == 0 }

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// Store is a shop as returned by the nearby / neighborhood / register endpoints.
type Store struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Category     string   `json:"category"`
	CategorySlug string   `json:"categorySlug"`
	City         string   `json:"city"`
	Province     string   `json:"province"`
	Phone        string   `json:"phone"`
	Rating       *float64 `json:"rating"`
	Token        string   `json:"token"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Distance     float64  `json:"distance,omitempty"`
	GroupCode    *string  `json:"groupCode,omitempty"`
	HasWorkshop  bool     `json:"has_workshop"`
	PlateNumber  string   `json:"plateNumber,omitempty"`
	PostalCode   string   `json:"postalCode,omitempty"`
	IsActive     *bool    `json:"isActive,omitempty"`
	ImageURLs    []string `json:"imageUrls,omitempty"`
}

type Comment struct {
	ID        int64    `json:"id"`
	StoreID   int64    `json:"store_id"`
	UserID    int64    `json:"user_id"`
	Username  string   `json:"username"`
	FullName  string   `json:"fullName"`
	Comment   string   `json:"comment"`
	Rating    *int     `json:"rating"`
	ImageURLs []string `json:"image_urls"`
	CreatedAt string   `json:"created_at"`
}

type SubCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

type Category struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	PreviewCount  int           `json:"preview_count"`
	SubCategories []SubCategory `json:"categories"`
}

// Assignment is a market-visit task assigning a store to a user.
type Assignment struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"userId"`
	StoreToken   string         `json:"storeToken"`
	AssignedDate string         `json:"assignedDate"`
	VisitDate    *string        `json:"visitDate"`
	Status       string         `json:"status"`
	Notes        *string        `json:"notes"`
	StoreName    string         `json:"storeName"`
	StoreAddress string         `json:"storeAddress"`
	StoreLat     *float64       `json:"storeLat"`
	StoreLng     *float64       `json:"storeLng"`
	Category     string         `json:"category"`
	CategorySlug *string        `json:"categorySlug"`
	City         string         `json:"city"`
	Phone        *string        `json:"phone"`
	Rating       *float64       `json:"rating"`
	RatingCount  *int           `json:"ratingCount"`
	Username     string         `json:"username"`
	FullName     string         `json:"fullName"`
	FullData     map[string]any `json:"fullData"`
	CreatedAt    *string        `json:"createdAt"`
}

type Visit struct {
	ID             int64          `json:"id"`
	AssignmentID   int64          `json:"assignmentId"`
	StoreToken     string         `json:"storeToken"`
	UserID         int64          `json:"userId"`
	VisitDate      string         `json:"visitDate"`
	VisitTime      *string        `json:"visitTime"`
	ImageURLs      []string       `json:"imageUrls"`
	AdditionalInfo map[string]any `json:"additionalInfo"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	StoreName      string         `json:"storeName"`
	Username       string         `json:"username"`
	FullName       string         `json:"fullName"`
	CreatedAt      *string        `json:"createdAt"`
}

type Person struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type DeactivationRequest struct {
	ID           int64   `json:"id"`
	StoreID      int64   `json:"storeId"`
	StoreToken   string  `json:"storeToken"`
	StoreName    string  `json:"storeName"`
	StoreAddress string  `json:"storeAddress"`
	Reason       *string `json:"reason"`
	Status       string  `json:"status"`
	RequestedBy  Person  `json:"requestedBy"`
	ReviewedBy   *Person `json:"reviewedBy"`
	CreatedAt    *string `json:"createdAt"`
	ReviewedAt   *string `json:"reviewedAt"`
}
