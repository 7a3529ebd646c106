package ui

// quietPresenter consumes events and prints nothing; failures are listed
// in the summary.
type quietPresenter struct {
	cfg Config
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events { //nolint:revive // drain
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return summary(p.cfg)
}
