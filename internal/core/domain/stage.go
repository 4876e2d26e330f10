package domain

import "go.trai.ch/zerr"

// Stage selects which command lists a run executes.
type Stage string

const (
	// StageBuild runs each package's build commands.
	StageBuild Stage = "build"
	// StageInstall runs each package's install commands.
	StageInstall Stage = "install"
	// StageBuildAndInstall runs build then install for each package before moving on.
	StageBuildAndInstall Stage = "build_and_install"
)

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageBuild, StageInstall, StageBuildAndInstall:
		return Stage(s), nil
	default:
		return "", zerr.With(zerr.Wrap(ErrInvalidStage, "unsupported stage"), "stage", s)
	}
}

// Steps expands the stage into the single stages run for one package, in order.
func (s Stage) Steps() []Stage {
	if s == StageBuildAndInstall {
		return []Stage{StageBuild, StageInstall}
	}
	return []Stage{s}
}

func (s Stage) String() string {
	return string(s)
}
