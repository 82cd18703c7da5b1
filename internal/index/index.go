package index

// DocumentIndex is the query and mutation surface of the document store.
// Consumers depend on it rather than on *DB so tests can substitute fakes.
type DocumentIndex interface {
	UpsertDocument(row DocumentRow) error
	DeleteDocument(path string) error
	GetDocument(path string) (*DocumentRow, error)
	ListDocuments(limit, offset int, tag string) ([]DocumentSummary, int, error)
	Tags() ([]TagCount, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ DocumentIndex = (*DB)(nil)
