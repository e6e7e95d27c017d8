package usecase

// Published to RabbitMQ after a successful checkout.
type OrderCompletedMsg struct {
	OrderID    string   `json:"orderId"`
	UserID     string   `json:"userId"`
	TotalCents int64    `json:"totalCents"`
	Currency   string   `json:"currency"`
	CourseIDs  []string `json:"courseIds"`
}

// Sent by the content-delivery side on Kafka as learners watch lessons.
type CourseProgressMsg struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
	Progress int    `json:"progress"` // 0-100, clamped on receipt
}
