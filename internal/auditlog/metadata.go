package auditlog

import "context"

type Metadata struct {
	Domain     string
	RecordType string
	RecordName string
	RecordID   string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Domain:     pick(meta.Domain, existing.Domain),
		RecordType: pick(meta.RecordType, existing.RecordType),
		RecordName: pick(meta.RecordName, existing.RecordName),
		RecordID:   pick(meta.RecordID, existing.RecordID),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
