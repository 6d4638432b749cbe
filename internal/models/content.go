package models

// News is a studio announcement shown on the storefront.
type News struct {
	BaseModel
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image"`
}

type Testimonial struct {
	BaseModel
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating"`
}

type CorporateInquiry struct {
	BaseModel
	Company     string `json:"company"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Message     string `json:"message"`
}
