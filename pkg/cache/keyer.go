package cache

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format          string  `json:"format"`
	Columns         int     `json:"columns"`
	RowHeight       float64 `json:"row_height"`
	ColumnWidth     float64 `json:"column_width"`
	Margin          float64 `json:"margin"`
	MeasuredNesting bool    `json:"measured_nesting"`
	Title           string  `json:"title,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey addresses one rendered output of a record set.
	ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string
	// SourceKey addresses the records fetched from a remote source.
	SourceKey(source string) string
}

// DefaultKeyer produces keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", recordsHash, opts)
}

func (DefaultKeyer) SourceKey(source string) string {
	return hashKey("source", source)
}

var _ Keyer = DefaultKeyer{}
