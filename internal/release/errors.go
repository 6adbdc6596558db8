package release

import "fmt"

// Step names a stage of a project release.
type Step string

const (
	StepClone         Step = "clone"
	StepSync          Step = "sync branches"
	StepConfig        Step = "load project config"
	StepSuggest       Step = "suggest version"
	StepPrompt        Step = "choose version"
	StepVerify        Step = "verify release branch"
	StepCreate        Step = "create release branch"
	StepVersionScript Step = "run version script"
	StepPush          Step = "push release branch"
	StepMerge         Step = "merge into develop"
	StepCheckout      Step = "checkout release branch"
	StepHooks         Step = "run hooks"
	StepRecord        Step = "record release"
)

// StepError reports the project and step a release failed at.
type StepError struct {
	Project string
	Step    Step
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Project, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// BranchExistsError is returned when the release branch for the chosen
// version already exists locally or on the remote.
type BranchExistsError struct {
	Project string
	Branch  string
}

func (e *BranchExistsError) Error() string {
	return fmt.Sprintf("release branch %s already exists in %s", e.Branch, e.Project)
}
