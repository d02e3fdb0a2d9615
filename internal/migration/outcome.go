package migration

// Outcome is the result of staging one source document: either Staged or
// Failed.
type Outcome interface {
	outcome()
}

// Staged reports a document whose writes were all handed to the writer.
type Staged struct {
	ID     string
	Writes int
	Stops  int
}

// Failed reports a document that aborted the run.
type Failed struct {
	ID  string
	Err error
}

func (Staged) outcome() {}
func (Failed) outcome() {}
