package entities

// ResourceRequest is the staff payload for creating or editing a resource.
type ResourceRequest struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Adults      int    `json:"adults,omitempty"`
	Children    int    `json:"children,omitempty"`
	Seats       int    `json:"seats,omitempty"`
	Rate        int    `json:"rate"`
	IsAvailable bool   `json:"is_available"`
}

// AvailabilityToggleRequest flips the administrative on/off switch of a
// resource without touching its schedule.
type AvailabilityToggleRequest struct {
	IsAvailable bool `json:"is_available"`
}
