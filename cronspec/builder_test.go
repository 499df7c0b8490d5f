package cronspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eztimer/timer/interval"
)

func TestAtFillsSlotAndDefaultsCoarserSlots(t *testing.T) {
	sec, err := interval.Seconds(30)
	require.NoError(t, err)

	scheds, err := New().At(sec).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "30 * * * * * *", scheds[0].Expr)
}

func TestEveryEmitsStepFragment(t *testing.T) {
	min, err := interval.Minutes(5)
	require.NoError(t, err)

	scheds, err := New().Every(min).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "0 */5 * * * * *", scheds[0].Expr)
}

func TestSinceEveryEmitsPairFragment(t *testing.T) {
	start, err := interval.Hours(2)
	require.NoError(t, err)
	step, err := interval.Hours(3)
	require.NoError(t, err)

	scheds, err := New().SinceEvery(start, step).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "0 0 2/3 * * * *", scheds[0].Expr)
}

func TestFromToEmitsRangeFragment(t *testing.T) {
	start, err := interval.Days(1)
	require.NoError(t, err)
	end, err := interval.Days(5)
	require.NoError(t, err)

	scheds, err := New().FromTo(start, end).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "0 0 0 1-5 * * *", scheds[0].Expr)
}

func TestSinceEveryRejectsMismatchedUnits(t *testing.T) {
	start, err := interval.Hours(1)
	require.NoError(t, err)
	step, err := interval.Minutes(1)
	require.NoError(t, err)

	_, err = New().SinceEvery(start, step).Build()
	assert.Error(t, err)
}

func TestWeekdayLiteralAppendsNumeral(t *testing.T) {
	scheds, err := New().At(interval.Monday).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "0 0 0 * * 2 *", scheds[0].Expr)
}

func TestWeekdayOverwritesWithWeekdayRange(t *testing.T) {
	scheds, err := New().At(interval.Weekday).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "0 0 0 * * 2-6 *", scheds[0].Expr)
}

func TestAtTimeSetsHourMinuteSecond(t *testing.T) {
	scheds, err := New().AtTime(13, 45, 0).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "0 45 13 * * * *", scheds[0].Expr)
}

func TestAtDateSetsMonthDayYear(t *testing.T) {
	scheds, err := New().AtDate(2030, 6, 15).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, "0 0 0 15 6 * 2030", scheds[0].Expr)
}

func TestAndPushesScheduleAndResetsBuilderState(t *testing.T) {
	one, err := interval.Seconds(1)
	require.NoError(t, err)
	two, err := interval.Seconds(2)
	require.NoError(t, err)

	b := New().At(one).And().At(two)
	scheds, err := b.Build()
	require.NoError(t, err)
	require.Len(t, scheds, 2)
	assert.Equal(t, "1 * * * * * *", scheds[0].Expr)
	assert.Equal(t, "2 * * * * * *", scheds[1].Expr)
}

func TestAfterAccumulatesDelay(t *testing.T) {
	scheds, err := New().After(5).After(10).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.EqualValues(t, 15, scheds[0].DelaySec)
}

func TestRepeatSeqSetsSequentialMode(t *testing.T) {
	step, err := interval.Seconds(2)
	require.NoError(t, err)

	scheds, err := New().RepeatSeq(4, step).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, Sequential, scheds[0].RepeatMode)
	assert.EqualValues(t, 4, scheds[0].RepeatN)
	assert.EqualValues(t, 2, scheds[0].RepeatSec)
}

func TestRepeatAsyncSetsConcurrentMode(t *testing.T) {
	step, err := interval.Seconds(1)
	require.NoError(t, err)

	scheds, err := New().RepeatAsync(3, step).Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.Equal(t, Concurrent, scheds[0].RepeatMode)
}

func TestDefaultRepeatCountIsOne(t *testing.T) {
	scheds, err := New().Build()
	require.NoError(t, err)
	require.Len(t, scheds, 1)
	assert.EqualValues(t, 1, scheds[0].RepeatN)
}

func TestFirstConstructionErrorIsSticky(t *testing.T) {
	hour, err := interval.Hours(1)
	require.NoError(t, err)
	min, err := interval.Minutes(1)
	require.NoError(t, err)

	b := New().SinceEvery(hour, min)
	_, err = b.Build()
	require.Error(t, err)

	b.At(hour)
	_, err = b.Build()
	assert.Error(t, err)
}
