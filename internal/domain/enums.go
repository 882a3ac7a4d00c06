package domain

type BlockType string

const (
	BlockMeeting  BlockType = "meeting"
	BlockEvent    BlockType = "event"
	BlockPrep     BlockType = "prep"
	BlockPost     BlockType = "post"
	BlockFocus    BlockType = "focus"
	BlockFollowUp BlockType = "followup"
	BlockCall     BlockType = "call"
	BlockQuickWin BlockType = "quickwin"
)

// IsDerived reports whether blocks of this type are synthesized by the planner
// rather than copied from the calendar.
func (t BlockType) IsDerived() bool {
	return t != BlockMeeting && t != BlockEvent
}

type BlockStatus string

const (
	StatusSuggested BlockStatus = "suggested"
	StatusFixed     BlockStatus = "fixed"
	StatusAccepted  BlockStatus = "accepted"
)

type Priority string

const (
	PriorityHigh   Priority = "H"
	PriorityMedium Priority = "M"
	PriorityLow    Priority = "L"
)

type TaskStatus string

const (
	TaskOpen    TaskStatus = "open"
	TaskBlocked TaskStatus = "blocked"
	TaskDone    TaskStatus = "done"
)

type DocType string

const (
	DocMinuta DocType = "minuta"
	DocNota   DocType = "nota"
	DocOtro   DocType = "otro"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelCall  Channel = "call"
)
