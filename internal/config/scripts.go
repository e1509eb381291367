package config

import "fmt"

// Scripts binds user scripts to container lifecycle moments. Execution
// order is fixed: on_build during the image build, on_entry replaces the
// default entry point, on_first_run once at first container start,
// on_every_run at every start, on_user_login per SSH session.
type Scripts struct {
	OnBuild     []string
	OnFirstRun  []string
	OnEveryRun  []string
	OnUserLogin []string
	// OnEntry holds at most one element: the container has a single entry
	// point.
	OnEntry []string
}

// NewScripts validates and returns a Scripts.
func NewScripts(onBuild, onFirstRun, onEveryRun, onUserLogin, onEntry []string) (Scripts, error) {
	if len(onEntry) > 1 {
		return Scripts{}, errf("custom.on_entry", fmt.Sprint(onEntry),
			"at most one entry-point script is allowed, got %d", len(onEntry))
	}
	return Scripts{
		OnBuild:     onBuild,
		OnFirstRun:  onFirstRun,
		OnEveryRun:  onEveryRun,
		OnUserLogin: onUserLogin,
		OnEntry:     onEntry,
	}, nil
}

// EntryScript returns the configured entry-point command, or "" when the
// stage keeps the default entry point.
func (s Scripts) EntryScript() string {
	if len(s.OnEntry) == 0 {
		return ""
	}
	return s.OnEntry[0]
}
