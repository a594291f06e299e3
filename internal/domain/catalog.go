package domain

// Service is a bookable course type. The catalog of services is fixed at
// process start and never mutated.
type Service struct {
	ID          string
	Name        string
	BaseRate    int64 // weekly rate per student
	Description string
}

// City names the providers operating in it. Like services, cities are static
// seed data.
type City struct {
	ID        string
	Name      string
	Providers []string
}
