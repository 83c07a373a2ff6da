package statuspage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProductName prefixes every event's product line.
const ProductName = "OpenAI API"

// Fallbacks for missing provider fields
const (
	UnknownIncident = "Unknown Incident"
	UnknownService  = "Unknown Service"
	unknownToken    = "unknown"
)

// FormatStatus turns an underscore-joined token such as
// "service_disruption" into "Service Disruption".
func FormatStatus(status string) string {
	return title(strings.ReplaceAll(status, "_", " "))
}

// title upper-cases the first letter of every word and lower-cases the rest.
// A Caser keeps state between calls, so each call gets its own.
func title(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}

// NormalizeIncident builds the event for an incident. Poller and webhook
// share these rules.
func NormalizeIncident(incident Incident) NormalizedEvent {
	name := incident.Name
	if name == "" {
		name = UnknownIncident
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" — ")
	b.WriteString(FormatStatus(orUnknown(incident.Status)))
	b.WriteString(" (")
	b.WriteString(title(orUnknown(incident.Impact)))
	b.WriteString(" impact)")

	event := NormalizedEvent{
		Product: productFor(affectedComponents(incident.Components)),
		Status:  b.String(),
	}
	if len(incident.IncidentUpdates) > 0 {
		event.Message = incident.IncidentUpdates[0].Body
	}
	return event
}

// NormalizeComponentUpdate builds the event for a component status change.
// The component's own name wins over the update's name.
func NormalizeComponentUpdate(update ComponentUpdate, component *Component) NormalizedEvent {
	name := ""
	if component != nil {
		name = component.Name
	}
	if name == "" {
		name = update.Name
	}
	if name == "" {
		name = UnknownService
	}

	event := NormalizedEvent{
		Product: ProductName + " - " + name,
		Status:  FormatStatus(orUnknown(update.NewStatus)),
	}
	if update.OldStatus != "" {
		event.PreviousStatus = FormatStatus(update.OldStatus)
	}
	return event
}

func affectedComponents(components []Component) []string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

func productFor(names []string) string {
	if len(names) == 0 {
		names = []string{ProductName}
	}
	return ProductName + " - " + strings.Join(names, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return unknownToken
	}
	return s
}
