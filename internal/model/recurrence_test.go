package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdays_ValueAndScan(t *testing.T) {
	v, err := Weekdays{0, 2, 4}.Value()
	require.NoError(t, err)
	assert.Equal(t, "0,2,4", v)

	var w Weekdays
	require.NoError(t, w.Scan([]byte("4, 0,2")))
	assert.Equal(t, Weekdays{4, 0, 2}, w)

	require.NoError(t, w.Scan(""))
	assert.Nil(t, w)

	require.Error(t, w.Scan("mon"))
	require.Error(t, w.Scan(42))
}

func TestWeekdays_Normalized(t *testing.T) {
	assert.Equal(t, Weekdays{0, 2, 6}, Weekdays{6, 2, 2, 0, 7, -1}.Normalized())
	assert.Empty(t, Weekdays(nil).Normalized())
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(time.Monday))
	assert.Equal(t, 4, WeekdayIndex(time.Friday))
	assert.Equal(t, 6, WeekdayIndex(time.Sunday))
}

func TestRecurrenceRule_EffectiveInterval(t *testing.T) {
	assert.Equal(t, 1, RecurrenceRule{Interval: 0}.EffectiveInterval())
	assert.Equal(t, 1, RecurrenceRule{Interval: -3}.EffectiveInterval())
	assert.Equal(t, 3, RecurrenceRule{Interval: 3}.EffectiveInterval())
}

func TestRole_Can(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleViewer, CapView, true},
		{RoleViewer, CapEditTasks, false},
		{RoleViewer, CapManageRecurrence, false},
		{RoleEditor, CapEditTasks, true},
		{RoleEditor, CapManageRecurrence, true},
		{RoleEditor, CapManageMembers, false},
		{RoleAdmin, CapManageMembers, true},
		{RoleAdmin, CapManageProjects, true},
		{RoleEditor, CapManageProjects, false},
		{Role("owner"), CapView, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.role.Can(tc.cap), "%s can %s", tc.role, tc.cap)
	}
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("").Valid())
}
