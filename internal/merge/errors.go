package merge

import "fmt"

// SynthesisError reports a fatal problem while deriving the merged build
// artifacts: a missing or malformed template, a resolved service map without
// the expected stage entries, or a failed artifact write. No partial
// artifact set is valid after one is raised.
type SynthesisError struct {
	// Subject names the input or artifact the failure relates to.
	Subject string
	Msg     string
	Err     error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthesize %s: %s: %v", e.Subject, e.Msg, e.Err)
	}
	return fmt.Sprintf("synthesize %s: %s", e.Subject, e.Msg)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

func synthErr(subject, msg string, err error) *SynthesisError {
	return &SynthesisError{Subject: subject, Msg: msg, Err: err}
}
