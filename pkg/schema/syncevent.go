package schema

const CatalogSyncSchemaTextV1 = `{
	"type": "record",
	"namespace": "catalog",
	"name": "sync_event",
	"fields": [
		{"name": "origin", "type": "string"},
		{"name": "reason", "type": "string"},
		{"name": "requested_at", "type": "long"}
	]
}`

// CatalogSyncEventV1 announces an administrative catalog re-sync.
// RequestedAt is unix milliseconds.
type CatalogSyncEventV1 struct {
	Origin      string `avro:"origin"`
	Reason      string `avro:"reason"`
	RequestedAt int64  `avro:"requested_at"`
}
