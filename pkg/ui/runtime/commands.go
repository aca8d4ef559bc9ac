package runtime

// Command is an intent emitted by widgets and handled by the App.
type Command interface {
	isCommand()
}

// Quit signals the application should exit.
type Quit struct{}

func (Quit) isCommand() {}

// Refresh forces a full redraw.
type Refresh struct{}

func (Refresh) isCommand() {}

// Beep rings the terminal bell, e.g. when scrolling past either end.
type Beep struct{}

func (Beep) isCommand() {}

// SetPreference asks the host to persist a user preference.
type SetPreference struct {
	Key   string
	Value int
}

func (SetPreference) isCommand() {}
