package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func TestDetectStage(t *testing.T) {
	// Scale: tenure >=5, headcount >=20, mean >=70, all three required.
	in := richInput()
	assert.Equal(t, dg.StageScale, DetectStage(in, 85))
	assert.Equal(t, dg.StageGrowth, DetectStage(in, 60)) // mean too low for scale

	in.Profile.FullTimeEmployees = 10
	in.Profile.PartTimeEmployees = 0
	assert.Equal(t, dg.StageGrowth, DetectStage(in, 85)) // headcount too low

	in.Profile.YearsInBusiness = 4
	assert.Equal(t, dg.StageGrowth, DetectStage(in, 85)) // tenure too low

	// Growth via revenue-data path: tenure >=2, small team, mean >=50.
	in.Profile.FullTimeEmployees = 1
	assert.Equal(t, dg.StageGrowth, DetectStage(in, 55))

	// Same business without revenue data and with a low mean -> early.
	in.Financial = nil
	assert.Equal(t, dg.StageEarly, DetectStage(in, 45))

	// Default: young business.
	assert.Equal(t, dg.StageEarly, DetectStage(minimalInput(), 90))
}

//Personal.AI order the ending
