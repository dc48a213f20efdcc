package dataset

// LabelColumn identifies the classification target of a Table
type LabelColumn struct {
	Name  string     `json:"name"`
	Index int        `json:"index"`
	Kind  ColumnKind `json:"kind"`
}

// Of returns the label cell of a row
func (l LabelColumn) Of(row Row) Value {
	if l.Index < 0 || l.Index >= len(row) {
		return Null()
	}
	return row[l.Index]
}

// Split is a disjoint partition of source rows. Validation is nil when
// only a train/test cut was requested.
type Split struct {
	Columns    []Column `json:"columns"`
	Train      []Row    `json:"-"`
	Validation []Row    `json:"-"`
	Test       []Row    `json:"-"`
}

// SplitCounts summarises a Split for display
type SplitCounts struct {
	Train      int `json:"train"`
	Validation int `json:"validation"`
	Test       int `json:"test"`
}

// Counts returns the partition sizes
func (s Split) Counts() SplitCounts {
	return SplitCounts{Train: len(s.Train), Validation: len(s.Validation), Test: len(s.Test)}
}

// Total returns the number of rows across all partitions
func (s Split) Total() int {
	return len(s.Train) + len(s.Validation) + len(s.Test)
}

// HasValidation reports whether a validation partition was produced
func (s Split) HasValidation() bool {
	return s.Validation != nil
}

// TrainTable, ValidationTable and TestTable wrap a partition with the split schema
func (s Split) TrainTable() *Table      { return &Table{Columns: s.Columns, Rows: s.Train} }
func (s Split) ValidationTable() *Table { return &Table{Columns: s.Columns, Rows: s.Validation} }
func (s Split) TestTable() *Table       { return &Table{Columns: s.Columns, Rows: s.Test} }

// WeightedRow is a training row with a non-negative instance weight
type WeightedRow struct {
	Row    Row     `json:"-"`
	Weight float64 `json:"weight"`
}
