package ports

import "github.com/aretw0/hydroplant/pkg/domain"

// Presenter receives the discrete view updates emitted by the core.
// Implementations must not block: timing and animation belong to them.
type Presenter interface {
	// ShowAccount displays the connected account (already shortened).
	ShowAccount(display string)
	// SetConnectAvailable enables or disables the connect intent.
	SetConnectAvailable(available bool)
	// SetBusy toggles the "action in progress" indicator.
	SetBusy(busy bool)
	// ShowSnapshot renders the latest water count and stage.
	ShowSnapshot(snapshot domain.Snapshot)
	// StageChanged drives the stage-indexed visual state.
	StageChanged(stage int)
	// Watering is the decorative cue emitted right before submission.
	Watering()
	// Milestone acknowledges that the plant reached domain.MaxStage.
	Milestone(snapshot domain.Snapshot)
}

// Notifier surfaces blocking, user-visible alerts.
type Notifier interface {
	Alert(message string)
}
