package view

import (
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// Fanout forwards every event to each presenter in order.
type Fanout []ports.Presenter

func (f Fanout) ShowAccount(display string) {
	for _, p := range f {
		p.ShowAccount(display)
	}
}

func (f Fanout) SetConnectAvailable(available bool) {
	for _, p := range f {
		p.SetConnectAvailable(available)
	}
}

func (f Fanout) SetBusy(busy bool) {
	for _, p := range f {
		p.SetBusy(busy)
	}
}

func (f Fanout) ShowSnapshot(snapshot domain.Snapshot) {
	for _, p := range f {
		p.ShowSnapshot(snapshot)
	}
}

func (f Fanout) StageChanged(stage int) {
	for _, p := range f {
		p.StageChanged(stage)
	}
}

func (f Fanout) Watering() {
	for _, p := range f {
		p.Watering()
	}
}

func (f Fanout) Milestone(snapshot domain.Snapshot) {
	for _, p := range f {
		p.Milestone(snapshot)
	}
}

// Notifiers forwards every alert to each notifier in order.
type Notifiers []ports.Notifier

func (n Notifiers) Alert(message string) {
	for _, x := range n {
		x.Alert(message)
	}
}
