package table

// BodyState is the mutually exclusive state of the table body.
type BodyState int

const (
	BodyLoading BodyState = iota
	BodyEmpty
	BodyData
)

// EmptyMessage is shown when a finished fetch returned no rows.
const EmptyMessage = "No data found."

// Action is a per-row affordance.
type Action int

const (
	ActionView Action = iota
	ActionEdit
	ActionDelete
)

var actionNames = [...]string{"view", "edit", "delete"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps "view", "edit" or "delete" to an Action.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), true
		}
	}
	return 0, false
}

// Handlers are the optional per-row callbacks. Each supplied handler
// adds one action to every row; nil handlers are omitted individually.
type Handlers struct {
	View   func(Row)
	Edit   func(Row)
	Delete func(Row)
}

func (h Handlers) handler(a Action) func(Row) {
	switch a {
	case ActionView:
		return h.View
	case ActionEdit:
		return h.Edit
	case ActionDelete:
		return h.Delete
	}
	return nil
}

// Actions lists the supplied actions in display order.
func (h Handlers) Actions() []Action {
	var out []Action
	for _, a := range []Action{ActionView, ActionEdit, ActionDelete} {
		if h.handler(a) != nil {
			out = append(out, a)
		}
	}
	return out
}

// Header is one column heading.
type Header struct {
	Label string
	Width string
}

// RenderedRow is one record laid out against the column list.
type RenderedRow struct {
	Index   int
	Cells   []string
	Actions []Action
}

// Body is the render-ready table body.
type Body struct {
	State   BodyState
	Headers []Header
	Rows    []RenderedRow
	ColSpan int
	Message string
}

// RenderRows lays out rows against columns. Loading wins over every
// other state; an empty row set yields the empty state.
func RenderRows(columns []Column, rows []Row, loading bool, h Handlers) Body {
	actions := h.Actions()
	headers := make([]Header, 0, len(columns)+1)
	for _, col := range columns {
		w := col.Width
		if w == "" {
			w = "auto"
		}
		headers = append(headers, Header{Label: col.Label, Width: w})
	}
	if len(actions) > 0 {
		headers = append(headers, Header{Label: "Actions", Width: "auto"})
	}
	body := Body{Headers: headers, ColSpan: len(headers)}

	switch {
	case loading:
		body.State = BodyLoading
	case len(rows) == 0:
		body.State = BodyEmpty
		body.Message = EmptyMessage
	default:
		body.State = BodyData
		body.Rows = make([]RenderedRow, len(rows))
		for i, row := range rows {
			cells := make([]string, len(columns))
			for j, col := range columns {
				cells[j] = Cell(row, col)
			}
			body.Rows[i] = RenderedRow{Index: i, Cells: cells, Actions: actions}
		}
	}
	return body
}
