package domain

// RawFile represents opaque bytes fetched by an ingester.
// It is the ingester's output before JSON parsing.
type RawFile struct {
	// Repository is the id of the repository the file belongs to.
	Repository string

	// Path is the file path relative to the repository root,
	// slash-separated.
	Path string

	// Content is the raw bytes.
	Content []byte
}
