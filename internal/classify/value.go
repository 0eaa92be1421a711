package classify

import "fmt"

// Kind discriminates the closed set of cell value shapes the exporter
// handles. The mapping from driver values happens once, in FromDriver;
// everything downstream switches on Kind instead of reflecting.
type Kind int

const (
	KindNull Kind = iota
	KindBytes
	KindText
	KindNumber
	KindOther
)

// CellValue is one scalar fetched from the database, paired with nothing:
// the originating column name travels alongside it as a separate argument.
type CellValue struct {
	Kind  Kind
	Bytes []byte
	Text  string
	Other any
}

// FromDriver maps a raw database/sql scan target to a CellValue. This is the
// only place driver dynamic typing is inspected.
func FromDriver(v any) CellValue {
	switch x := v.(type) {
	case nil:
		return CellValue{Kind: KindNull}
	case []byte:
		return CellValue{Kind: KindBytes, Bytes: x}
	case string:
		return CellValue{Kind: KindText, Text: x}
	case int64, float64:
		return CellValue{Kind: KindNumber, Other: x}
	default:
		return CellValue{Kind: KindOther, Other: x}
	}
}

// String renders the canonical text representation for number and other
// kinds; null, bytes and text have their own classification rules.
func (v CellValue) String() string {
	return fmt.Sprintf("%v", v.Other)
}
