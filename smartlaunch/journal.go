package smartlaunch

// Journaler describes an event logger. Implementations must be safe for
// concurrent use, since the lock watcher journals from its own goroutine.
type Journaler interface {
	Write(Event) error
}

// warn journals a non-fatal error for the given component.
func warn(j Journaler, component string, err error) {
	j.Write(&EventWarning{
		Component: component,
		Error:     err.Error(),
	})
}
