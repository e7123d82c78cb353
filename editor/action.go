package editor

type (
	// Action describes a user action that can be performed on the model by
	// calling Do(). Action advertises whether it is enabled, so a UI can e.g.
	// gray out buttons when the underlying action is not allowed. The
	// underlying Doer can optionally implement the Enabler interface to decide
	// if the action is enabled or not; if it does not, the action is always
	// allowed.
	Action struct {
		doer Doer
	}

	// Doer is an interface that defines a single Do() method, which is called
	// when an action is performed.
	Doer interface {
		Do()
	}

	// Enabler is an interface that defines a single Enabled() method, used to
	// check if an Action is enabled or not.
	Enabler interface {
		Enabled() bool
	}
)

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

func (a Action) Do() {
	e, ok := a.doer.(Enabler)
	if ok && !e.Enabled() {
		return
	}
	if a.doer != nil {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false // no doer, not allowed
	}
	e, ok := a.doer.(Enabler)
	if !ok {
		return true // not enabler, always allowed
	}
	return e.Enabled()
}
