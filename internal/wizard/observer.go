package wizard

// Observer is notified of wizard progress.
type Observer interface {
	OnTransition(from, to State)
	OnComplete(result Result)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

// OnTransition does nothing.
func (NopObserver) OnTransition(State, State) {}

// OnComplete does nothing.
func (NopObserver) OnComplete(Result) {}

// Observers fans notifications out in order.
type Observers []Observer

// OnTransition forwards to every observer.
func (o Observers) OnTransition(from, to State) {
	for _, observer := range o {
		if observer != nil {
			observer.OnTransition(from, to)
		}
	}
}

// OnComplete forwards to every observer.
func (o Observers) OnComplete(result Result) {
	for _, observer := range o {
		if observer != nil {
			observer.OnComplete(result)
		}
	}
}
