package tasktui

// overlayKind names the single transient UI state layered over the list.
type overlayKind int

const (
	overlayNone overlayKind = iota
	overlaySelected
	overlayEditing
	overlayAdding
	overlayFilterOpen
	overlayHelp
)

func (k overlayKind) String() string {
	switch k {
	case overlaySelected:
		return "selected"
	case overlayEditing:
		return "editing"
	case overlayAdding:
		return "adding"
	case overlayFilterOpen:
		return "filter"
	case overlayHelp:
		return "help"
	default:
		return "none"
	}
}

// overlay is at most one active transient state. taskID is set for
// overlaySelected and overlayEditing only.
type overlay struct {
	kind   overlayKind
	taskID string
}

func noOverlay() overlay {
	return overlay{kind: overlayNone}
}

func selected(id string) overlay {
	if id == "" {
		return noOverlay()
	}
	return overlay{kind: overlaySelected, taskID: id}
}

func editing(id string) overlay {
	return overlay{kind: overlayEditing, taskID: id}
}

func (o overlay) capturesInput() bool {
	return o.kind == overlayEditing || o.kind == overlayAdding
}
