package events

// Topic constants for domain events emitted by the report service.
const (
	TopicReportGenerated = "report.generated"
)
