package model

// Move is one file relocation into a trash directory
type Move struct {
	Src  string `json:"src"`  // Absolute original path
	Dest string `json:"dest"` // Absolute path inside the trash directory
}

// Command is the set of moves that succeeded during one remove invocation
type Command struct {
	ID    string `json:"id,omitempty"`
	Time  int64  `json:"time,omitempty"` // Unix seconds
	Files []Move `json:"files"`
}

// NewCommand creates an empty command
func NewCommand(id string, unix int64) *Command {
	return &Command{ID: id, Time: unix, Files: []Move{}}
}

// AddFile appends a move to the command
func (c *Command) AddFile(m Move) {
	c.Files = append(c.Files, m)
}

// History is the full audit trail of executed commands
type History struct {
	History []Command `json:"history"`
}

// NewHistory returns an empty history
func NewHistory() *History {
	return &History{History: []Command{}}
}

// AddCommand appends cmd to the history
func (h *History) AddCommand(cmd Command) {
	h.History = append(h.History, cmd)
}

// FindByDest returns the move whose destination is dest.
// Later commands win when the same destination was reused.
func (h *History) FindByDest(dest string) (Move, bool) {
	for i := len(h.History) - 1; i >= 0; i-- {
		for _, m := range h.History[i].Files {
			if m.Dest == dest {
				return m, true
			}
		}
	}
	return Move{}, false
}
