package notification

// Category tags what a notification is about.
type Category string

const (
	CategoryServiceListing Category = "serviceListing"
	CategoryBooking        Category = "booking"
	CategoryUser           Category = "user"
	CategoryReview         Category = "review"
	CategoryMessage        Category = "message"
	CategoryPayout         Category = "payout"
	CategoryTask           Category = "task"
	CategoryLibrary        Category = "library"
	CategoryAssessment     Category = "assessment"
	CategoryAudit          Category = "audit"
)

var categories = []Category{
	CategoryServiceListing,
	CategoryBooking,
	CategoryUser,
	CategoryReview,
	CategoryMessage,
	CategoryPayout,
	CategoryTask,
	CategoryLibrary,
	CategoryAssessment,
	CategoryAudit,
}

// Categories returns the closed set of categories.
func Categories() []Category {
	return append([]Category(nil), categories...)
}
