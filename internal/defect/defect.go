package defect

// UnknownFileName is the sentinel used when a source format carries no usable
// location for an event.
const UnknownFileName = "<unknown>"

// UnknownMsg is the sentinel used when a source format carries no message text.
const UnknownMsg = "<unknown>"

// Event is one located, leveled message within a defect's narrative.
// Line and Column equal to 0 mean "not available", not position zero.
type Event struct {
	FileName       string `json:"file_name"`
	Line           int    `json:"line"`
	Column         int    `json:"column,omitempty"`
	Event          string `json:"event"`
	Msg            string `json:"message"`
	VerbosityLevel int    `json:"verbosity_level"`
}

// Defect is one normalized static-analysis finding. A Defect handed to a
// consumer is always fully populated: non-empty Checker and at least one
// event. Partially decoded defects are discarded by the parser.
type Defect struct {
	Checker     string  `json:"checker"`
	Language    string  `json:"language,omitempty"`
	Tool        string  `json:"tool,omitempty"`
	CWE         int     `json:"cwe,omitempty"`
	KeyEventIdx int     `json:"key_event_idx"`
	Events      []Event `json:"events"`
}

// New returns a Defect for the given checker with no events attached yet.
func New(checker string) *Defect {
	return &Defect{Checker: checker}
}

// KeyEvent returns the defect's key event. When KeyEventIdx is out of range
// (a defect assembled by hand, or a native report with a bogus index), the
// first event is used instead.
func (d *Defect) KeyEvent() *Event {
	if d.KeyEventIdx < 0 || len(d.Events) <= d.KeyEventIdx {
		return &d.Events[0]
	}
	return &d.Events[d.KeyEventIdx]
}

// ScanProps holds scan metadata (tool name, version, arguments) keyed by
// property name. It is set at most once per output session; later non-empty
// sources are reported as a conflict and dropped.
type ScanProps map[string]string
