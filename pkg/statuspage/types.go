package statuspage

import "time"

// IncidentList is the body of the provider's incidents.json endpoint.
type IncidentList struct {
	Page      *Page      `json:"page,omitempty"`
	Incidents []Incident `json:"incidents"`
}

// Page describes the status page that produced a response.
type Page struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	UpdatedAt string `json:"updated_at"`
}

// Incident is a single provider incident. Every field may be missing;
// normalization falls back to documented defaults.
type Incident struct {
	// ID is stable across updates and is the only dedup key
	ID string `json:"id"`

	Name string `json:"name"`

	// Status is an underscore-joined token, e.g. "investigating"
	Status string `json:"status"`

	// Impact is one of none, minor, major, critical
	Impact string `json:"impact"`

	Shortlink string `json:"shortlink,omitempty"`

	// Components lists the affected components
	Components []Component `json:"components"`

	// IncidentUpdates is ordered newest first
	IncidentUpdates []IncidentUpdate `json:"incident_updates"`
}

// Component is a named sub-service of the provider.
type Component struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// IncidentUpdate is one entry in an incident's update history.
type IncidentUpdate struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Body   string `json:"body"`
}

// ComponentUpdate is the body of a component status change webhook.
type ComponentUpdate struct {
	ID          string `json:"id,omitempty"`
	ComponentID string `json:"component_id,omitempty"`
	Name        string `json:"name,omitempty"`
	NewStatus   string `json:"new_status"`
	OldStatus   string `json:"old_status,omitempty"`
}

// NormalizedEvent is what both ingestion paths produce for the sinks.
type NormalizedEvent struct {
	Product string `json:"product"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`

	// PreviousStatus is only set for component changes and is display-only
	PreviousStatus string `json:"previous_status,omitempty"`
}

// Kind classifies an emitted event.
type Kind string

const (
	KindIncident  Kind = "incident"
	KindComponent Kind = "component"
	KindUnknown   Kind = "unknown"
)

// Source names the ingestion path an event came from.
type Source string

const (
	SourcePoller  Source = "poller"
	SourceWebhook Source = "webhook"
)

// Event is a normalized event stamped with where and when it was produced.
type Event struct {
	Kind   Kind            `json:"kind"`
	Source Source          `json:"source"`
	Event  NormalizedEvent `json:"event"`
	At     time.Time       `json:"at"`

	// Detail explains an unknown payload
	Detail string `json:"detail,omitempty"`
}
