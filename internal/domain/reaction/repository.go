package reaction

import "context"

// Repository loads the reaction table from persistent storage.  Ingestion
// implementations live in the infrastructure layer (YAML dataset files,
// PostgreSQL); the domain only sees the loaded rows.
type Repository interface {
	// LoadRows reads every reaction record from the backing store.  Row
	// validation and table construction are the caller's concern.
	LoadRows(ctx context.Context) ([]Reaction, error)

	// LoadLexicon reads the phase cross-reference metadata, if the store
	// carries any.  Stores without phase metadata return an empty slice.
	LoadLexicon(ctx context.Context) ([]PhaseEntry, error)
}
