package dataset

// Kind is the conceptual type shared by every value of a column.
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Bool
	Date
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// Numeric reports whether the kind takes part in numeric statistics.
func (k Kind) Numeric() bool { return k == Int || k == Float }
