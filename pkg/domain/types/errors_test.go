package types_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

func TestIsRecoverable(t *testing.T) {
	genErr := goerr.New("generation timed out", goerr.T(types.ErrTagGenerationFailure))
	gt.Bool(t, types.IsRecoverable(genErr)).True()

	groundErr := goerr.New("uncited passage", goerr.T(types.ErrTagGroundingViolation))
	gt.Bool(t, types.IsRecoverable(groundErr)).True()

	loadErr := goerr.New("missing file", goerr.T(types.ErrTagDataLoad))
	gt.Bool(t, types.IsRecoverable(loadErr)).False()

	gt.Bool(t, types.IsRecoverable(goerr.New("untagged"))).False()
}

func TestIsRecoverable_Wrapped(t *testing.T) {
	inner := goerr.New("bad response", goerr.T(types.ErrTagGenerationFailure))
	wrapped := goerr.Wrap(inner, "recommendation failed")
	gt.Bool(t, types.IsRecoverable(wrapped)).True()
}
